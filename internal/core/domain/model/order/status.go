package order

import (
	"fmt"

	"hatid/internal/pkg/errs"
)

// Status represents the lifecycle state of a marketplace order.
// It implements a state machine with defined transitions so orders follow
// the correct fulfillment workflow.
//
// State transitions:
//
//	pending -> confirmed -> preparing -> ready -> picked_up -> in_transit -> delivered
//	   |          |            |          |          |             |
//	   └──────────┴────────────┴──────────┴──────────┴─────────────┴──> cancelled
//
// delivered and cancelled are terminal: no further transitions are allowed.
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status string

const (
	// StatusPending is the initial status of a freshly placed order,
	// waiting for a restaurant to confirm it.
	StatusPending Status = "pending"

	// StatusConfirmed indicates a restaurant accepted the order.
	StatusConfirmed Status = "confirmed"

	// StatusPreparing indicates the restaurant is preparing the order.
	StatusPreparing Status = "preparing"

	// StatusReady indicates the order is ready for rider pickup.
	StatusReady Status = "ready"

	// StatusPickedUp indicates a rider collected the order.
	StatusPickedUp Status = "picked_up"

	// StatusInTransit indicates the order is on its way to the customer.
	StatusInTransit Status = "in_transit"

	// StatusDelivered indicates successful delivery. Terminal.
	StatusDelivered Status = "delivered"

	// StatusCancelled indicates the order was cancelled: by a blocking
	// validation failure, by assignment exhaustion, or externally. Terminal.
	StatusCancelled Status = "cancelled"
)

// forwardTransitions maps each status to the next status on the happy path.
// cancelled is reachable from every non-terminal status and is handled separately.
func forwardTransitions() map[Status]Status {
	return map[Status]Status{
		StatusPending:   StatusConfirmed,
		StatusConfirmed: StatusPreparing,
		StatusPreparing: StatusReady,
		StatusReady:     StatusPickedUp,
		StatusPickedUp:  StatusInTransit,
		StatusInTransit: StatusDelivered,
	}
}

func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusPending:   {},
		StatusConfirmed: {},
		StatusPreparing: {},
		StatusReady:     {},
		StatusPickedUp:  {},
		StatusInTransit: {},
		StatusDelivered: {},
		StatusCancelled: {},
	}
}

// Validate checks that the Status value is one of the defined lifecycle states.
// Used when reconstructing orders from persistence or parsing external input.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are allowed from s.
// Deferred checks and assignment waits become no-ops once a terminal
// status is observed.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the transition s -> target is allowed.
// Forward transitions advance one step along the fulfillment path;
// cancellation is allowed from any non-terminal status.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() {
		return false
	}
	if target == StatusCancelled {
		return true
	}
	return forwardTransitions()[s] == target
}

// TransitionTo validates the transition s -> target and returns the new status.
//
// Returns:
//   - (target, nil) on a valid transition
//   - ("", error) when the transition is not allowed from the current status
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return "", err
	}

	if !s.CanTransitionTo(target) {
		return "", errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("transition %s -> %s is not allowed", s, target),
		)
	}

	return target, nil
}

// StatusFromString parses a persisted or external status representation.
func StatusFromString(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}
