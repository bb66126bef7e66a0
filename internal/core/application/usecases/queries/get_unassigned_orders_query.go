// Package queries contains read-only operations for dashboards and admin
// tooling. Queries bypass the domain model and read projections straight
// from the database, per the CQRS split.
package queries

import (
	"errors"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/pkg/guard"
)

var ErrGetUnassignedOrdersQueryIsNotConstructed = errors.New(
	"GetUnassignedOrdersQuery must be created via NewGetUnassignedOrdersQuery constructor",
)

// GetUnassignedOrdersQuery retrieves all orders still waiting for a
// restaurant, oldest first. Operations dashboards use it to spot orders the
// assignment protocol has not resolved yet.
//
// Example:
//
//	query := NewGetUnassignedOrdersQuery()
//	handler := NewGetUnassignedOrdersQueryHandler(db)
//
//	waiting, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get unassigned orders: %w", err)
//	}
//
//	for _, o := range waiting {
//	    fmt.Printf("%s waiting since %s in %s\n", o.ID, o.PlacedAt, o.City)
//	}
type GetUnassignedOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUnassignedOrdersQuery creates a query for orders awaiting assignment.
// This is a parameterless query that fetches all pending orders.
func NewGetUnassignedOrdersQuery() GetUnassignedOrdersQuery {
	return GetUnassignedOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetUnassignedOrdersQueryIsNotConstructed if validation fails.
func (q GetUnassignedOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetUnassignedOrdersQueryIsNotConstructed)
}

// GetUnassignedOrdersQueryResponse represents one order awaiting assignment.
type GetUnassignedOrdersQueryResponse struct {
	ID             kernel.UUID
	City           string
	Priority       order.Priority
	PlacedAt       time.Time
	NeedsAttention bool
}
