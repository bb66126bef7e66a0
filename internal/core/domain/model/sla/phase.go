package sla

import (
	"fmt"

	"hatid/internal/core/domain/model/order"
	"hatid/internal/pkg/errs"
)

// Phase identifies one of the five monitored lifecycle windows. Each phase
// gets exactly one deferred check per order, scheduled at the
// priority-adjusted target offset from placement.
type Phase string

const (
	PhaseAcceptance      Phase = "acceptance"
	PhasePreparation     Phase = "preparation"
	PhaseRiderAssignment Phase = "rider_assignment"
	PhasePickup          Phase = "pickup"
	PhaseDelivery        Phase = "delivery"
)

// AllPhases returns the monitored phases in lifecycle order.
func AllPhases() []Phase {
	return []Phase{
		PhaseAcceptance,
		PhasePreparation,
		PhaseRiderAssignment,
		PhasePickup,
		PhaseDelivery,
	}
}

// phaseExpectations maps each phase to the statuses that prove the phase
// completed (or the order advanced past it) by check time. The monitor
// tolerates skipped intermediate statuses: any status at or beyond the
// phase boundary counts.
func phaseExpectations() map[Phase][]order.Status {
	return map[Phase][]order.Status{
		PhaseAcceptance: {
			order.StatusConfirmed, order.StatusPreparing, order.StatusReady,
			order.StatusPickedUp, order.StatusInTransit, order.StatusDelivered,
		},
		PhasePreparation: {
			order.StatusReady, order.StatusPickedUp, order.StatusInTransit, order.StatusDelivered,
		},
		PhaseRiderAssignment: {
			order.StatusPickedUp, order.StatusInTransit, order.StatusDelivered,
		},
		PhasePickup: {
			order.StatusPickedUp, order.StatusInTransit, order.StatusDelivered,
		},
		PhaseDelivery: {
			order.StatusDelivered,
		},
	}
}

// Validate checks that the Phase is one of the monitored windows.
func (p Phase) Validate() error {
	switch p {
	case PhaseAcceptance, PhasePreparation, PhaseRiderAssignment, PhasePickup, PhaseDelivery:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("phase", fmt.Errorf("%q is not a monitored phase", string(p)))
	}
}

// String implements fmt.Stringer.
func (p Phase) String() string {
	return string(p)
}

// ExpectedStatuses returns the statuses that satisfy the phase at check time.
func (p Phase) ExpectedStatuses() []order.Status {
	return append([]order.Status(nil), phaseExpectations()[p]...)
}

// IsSatisfiedBy reports whether the given status proves the phase completed.
func (p Phase) IsSatisfiedBy(status order.Status) bool {
	for _, expected := range phaseExpectations()[p] {
		if expected == status {
			return true
		}
	}
	return false
}

// PhaseFromString parses a persisted phase representation.
func PhaseFromString(s string) (Phase, error) {
	p := Phase(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}
