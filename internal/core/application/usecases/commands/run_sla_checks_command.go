package commands

import (
	"errors"
	"time"

	"hatid/internal/pkg/guard"
)

var (
	ErrRunSLAChecksCommandIsNotConstructed = errors.New(
		"RunSLAChecksCommand must be created via NewRunSLAChecksCommand constructor",
	)
	ErrCheckTimeIsRequired = errors.New("check time is required")
)

// RunSLAChecksCommand represents one monitor sweep over the deferred check
// schedule. The sweep evaluates every check row due at the given instant, so
// passing wall clock time makes the sweep re-entrant and restart-safe.
//
// Example:
//
//	cmd, err := NewRunSLAChecksCommand(time.Now())
//	if err != nil {
//	    return err
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("sla sweep failed: %v", err)
//	}
type RunSLAChecksCommand struct { //nolint:recvcheck //using for validation
	now time.Time

	guard guard.ConstructorGuard
}

// NewRunSLAChecksCommand creates a command for one monitor sweep at the given time.
func NewRunSLAChecksCommand(now time.Time) (RunSLAChecksCommand, error) {
	cmd := RunSLAChecksCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setNow(now); err != nil {
		return RunSLAChecksCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRunSLAChecksCommandIsNotConstructed if validation fails.
func (c RunSLAChecksCommand) Validate() error {
	return c.guard.Validate(ErrRunSLAChecksCommandIsNotConstructed)
}

// Now returns the sweep's reference instant.
func (c RunSLAChecksCommand) Now() time.Time {
	return c.now
}

func (c *RunSLAChecksCommand) setNow(now time.Time) error {
	if now.IsZero() {
		return ErrCheckTimeIsRequired
	}

	c.now = now
	return nil
}
