package queries

import (
	"errors"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/sla"
	"hatid/internal/pkg/guard"
)

var (
	ErrGetSLABreachesQueryIsNotConstructed = errors.New(
		"GetSLABreachesQuery must be created via NewGetSLABreachesQuery constructor",
	)
	ErrSinceIsRequired = errors.New("since is required")
)

// GetSLABreachesQuery retrieves recorded SLA breaches from a point in time
// onward. Feeds the compliance view admins use to review missed targets.
//
// Example:
//
//	query, err := NewGetSLABreachesQuery(time.Now().Add(-24 * time.Hour))
//	if err != nil {
//	    return err
//	}
//
//	handler := NewGetSLABreachesQueryHandler(db)
//	breaches, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get breaches: %w", err)
//	}
type GetSLABreachesQuery struct { //nolint:recvcheck //using for validation
	since time.Time

	guard guard.ConstructorGuard
}

// NewGetSLABreachesQuery creates a query for breaches recorded at or after since.
func NewGetSLABreachesQuery(since time.Time) (GetSLABreachesQuery, error) {
	query := GetSLABreachesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setSince(since); err != nil {
		return GetSLABreachesQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetSLABreachesQueryIsNotConstructed if validation fails.
func (q GetSLABreachesQuery) Validate() error {
	return q.guard.Validate(ErrGetSLABreachesQueryIsNotConstructed)
}

// Since returns the lower bound of the reporting window.
func (q GetSLABreachesQuery) Since() time.Time {
	return q.since
}

func (q *GetSLABreachesQuery) setSince(since time.Time) error {
	if since.IsZero() {
		return ErrSinceIsRequired
	}

	q.since = since
	return nil
}

// GetSLABreachesQueryResponse represents one recorded breach.
type GetSLABreachesQueryResponse struct {
	OrderID       kernel.UUID
	Phase         sla.Phase
	TargetMinutes float64
	ActualMinutes float64
	DelayMinutes  float64
	ActualStatus  order.Status
	CheckedAt     time.Time
}
