package commands

import (
	"errors"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/pkg/guard"
)

var ErrProcessOrderPlacementCommandIsNotConstructed = errors.New(
	"ProcessOrderPlacementCommand must be created via NewProcessOrderPlacementCommand constructor",
)

// ProcessOrderPlacementCommand represents a request to run intake processing
// for an order that a customer just placed. The order aggregate is already
// persisted in pending status; this command validates it against business
// rules, adjusts pricing, and either accepts it or cancels it.
//
// Example:
//
//	cmd, err := NewProcessOrderPlacementCommand(orderID)
//	if err != nil {
//	    return fmt.Errorf("invalid placement request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("placement processing failed: %w", err)
//	}
//	if !result.Accepted {
//	    fmt.Printf("order rejected: %s", result.Violations[0].Message)
//	}
type ProcessOrderPlacementCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewProcessOrderPlacementCommand creates a command to process a placed order.
// Validates that the order ID is a proper UUID.
func NewProcessOrderPlacementCommand(orderID kernel.UUID) (ProcessOrderPlacementCommand, error) {
	cmd := ProcessOrderPlacementCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ProcessOrderPlacementCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrProcessOrderPlacementCommandIsNotConstructed if validation fails.
func (c ProcessOrderPlacementCommand) Validate() error {
	return c.guard.Validate(ErrProcessOrderPlacementCommandIsNotConstructed)
}

// OrderID returns the identifier of the order being processed.
func (c ProcessOrderPlacementCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ProcessOrderPlacementCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
