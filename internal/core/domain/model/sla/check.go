package sla

import (
	"errors"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
)

// ErrCheckAlreadyCompleted is returned when completing a check twice.
// A completed row is what guarantees at most one breach per (order, phase).
var ErrCheckAlreadyCompleted = errors.New("sla check is already completed")

// Check is one persisted deferred check: verify that an order satisfied a
// phase by its due time. Rows are seeded at placement and retired exactly
// once; because due-ness is re-derived from the row and wall clock, a process
// restart loses no scheduled work.
type Check struct {
	orderID kernel.UUID
	phase   Phase
	dueAt   time.Time

	completed bool
	result    *CheckResult
}

// CheckResult captures the evaluation of a check at fire time.
// Ephemeral from the engine's point of view; the storage collaborator
// records it for performance observability.
type CheckResult struct {
	Phase            Phase
	TargetMinutes    float64
	ActualMinutes    float64
	DelayMinutes     float64
	ExpectedStatuses []order.Status
	ActualStatus     order.Status
	Breached         bool
	CheckedAt        time.Time
}

// NewCheck creates a pending check for one order and phase.
func NewCheck(orderID kernel.UUID, phase Phase, dueAt time.Time) (*Check, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if err := phase.Validate(); err != nil {
		return nil, err
	}

	return &Check{
		orderID: orderID,
		phase:   phase,
		dueAt:   dueAt,
	}, nil
}

// RestoreCheck reconstructs a check from persistence.
func RestoreCheck(
	orderID kernel.UUID,
	phase Phase,
	dueAt time.Time,
	completed bool,
	result *CheckResult,
) (*Check, error) {
	c, err := NewCheck(orderID, phase, dueAt)
	if err != nil {
		return nil, err
	}
	c.completed = completed
	c.result = result
	return c, nil
}

// ScheduleChecks seeds the five phase checks for an order, each due at
// placement plus the priority-adjusted phase budget.
func ScheduleChecks(o *order.Order, catalog Catalog) ([]*Check, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	checks := make([]*Check, 0, len(AllPhases()))
	for _, phase := range AllPhases() {
		due := o.PlacedAt().Add(catalog.AdjustedPhaseDuration(o.OrderType(), phase, o.Priority()))
		check, err := NewCheck(o.ID(), phase, due)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, nil
}

// OrderID returns the monitored order's identifier.
func (c *Check) OrderID() kernel.UUID {
	return c.orderID
}

// Phase returns the monitored phase.
func (c *Check) Phase() Phase {
	return c.phase
}

// DueAt returns when the check becomes eligible to fire.
func (c *Check) DueAt() time.Time {
	return c.dueAt
}

// IsDue reports whether the check should fire at the given instant.
func (c *Check) IsDue(now time.Time) bool {
	return !c.completed && !now.Before(c.dueAt)
}

// IsCompleted reports whether the check has already fired.
func (c *Check) IsCompleted() bool {
	return c.completed
}

// Result returns the recorded evaluation, nil while the check is pending.
func (c *Check) Result() *CheckResult {
	return c.result
}

// Evaluate grades the order against this check's phase at the given instant.
//
// A terminal order is never a breach: delivered orders met their goal and
// cancelled orders left the engine's care. Otherwise the phase is breached
// when the elapsed time exceeds the adjusted target and the current status
// is not in the phase's expected set.
func (c *Check) Evaluate(o *order.Order, catalog Catalog, now time.Time) CheckResult {
	target := catalog.AdjustedPhaseMinutes(o.OrderType(), c.phase, o.Priority())
	elapsed := now.Sub(o.PlacedAt()).Minutes()

	result := CheckResult{
		Phase:            c.phase,
		TargetMinutes:    target,
		ActualMinutes:    elapsed,
		ExpectedStatuses: c.phase.ExpectedStatuses(),
		ActualStatus:     o.Status(),
		CheckedAt:        now,
	}

	if o.Status().IsTerminal() {
		return result
	}

	if elapsed > target && !c.phase.IsSatisfiedBy(o.Status()) {
		result.Breached = true
		result.DelayMinutes = elapsed - target
	}

	return result
}

// Complete retires the check with its evaluation. Completing twice fails
// with ErrCheckAlreadyCompleted.
func (c *Check) Complete(result CheckResult) error {
	if c.completed {
		return ErrCheckAlreadyCompleted
	}
	c.completed = true
	c.result = &result
	return nil
}
