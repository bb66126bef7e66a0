package ports

import (
	"context"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/sla"
)

// SLACheckRepository persists the deferred check schedule. The schedule is
// the engine's durable timer substrate: rows are seeded at placement, the
// monitor sweep loads whatever is due by wall clock, and completing a row
// retires it exactly once. Recovery after a crash re-derives outstanding
// work entirely from these rows.
type SLACheckRepository interface {
	// Seed persists the pending checks for a freshly accepted order.
	Seed(ctx context.Context, checks []*sla.Check) error

	// GetDue retrieves uncompleted checks whose due time is at or before now.
	GetDue(ctx context.Context, now time.Time) ([]*sla.Check, error)

	// Complete retires a check with its evaluation. Completing an already
	// completed check fails, preserving the one-breach-per-phase guarantee.
	Complete(ctx context.Context, check *sla.Check) error

	// GetByOrder retrieves all checks for one order, completed or not.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*sla.Check, error)
}
