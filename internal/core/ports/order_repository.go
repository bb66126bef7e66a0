// Package ports defines the contracts between the engine and its
// collaborators: persistence, the notification channel and the admin
// directory. These interfaces enable dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The storage collaborator is the system of record and must provide
// read-your-writes consistency for a single order id.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The write asserts the aggregate's optimistic version and bumps it;
	// a stale version fails with errs.ErrVersionIsInvalid and the caller
	// must re-read before retrying.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetPendingPlacedBefore retrieves orders still pending whose placement
	// time is at or before the cutoff. The assignment sweep derives its
	// work purely from this query and wall clock, which is what makes
	// recovery after a restart automatic.
	GetPendingPlacedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// CountByCustomerSince counts orders a customer placed at or after the
	// given instant. Used for the daily order frequency advisory.
	CountByCustomerSince(ctx context.Context, customerID kernel.UUID, since time.Time) (int, error)
}
