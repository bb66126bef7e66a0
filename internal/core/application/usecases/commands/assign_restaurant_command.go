package commands

import (
	"errors"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/pkg/guard"
)

var ErrAssignRestaurantCommandIsNotConstructed = errors.New(
	"AssignRestaurantCommand must be created via NewAssignRestaurantCommand constructor",
)

// AssignRestaurantCommand represents a request to run the restaurant
// assignment protocol for one pending order. The handler offers the order to
// ranked candidates one at a time and escalates when nobody accepts.
//
// Example:
//
//	cmd, err := NewAssignRestaurantCommand(orderID)
//	if err != nil {
//	    return fmt.Errorf("invalid assignment request: %w", err)
//	}
//
//	// Typically launched in its own goroutine by the assignment sweep.
//	go func() {
//	    if err := handler.Handle(ctx, cmd); err != nil {
//	        log.Printf("assignment failed for %s: %v", cmd.OrderID(), err)
//	    }
//	}()
type AssignRestaurantCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignRestaurantCommand creates a command to assign a restaurant to an order.
func NewAssignRestaurantCommand(orderID kernel.UUID) (AssignRestaurantCommand, error) {
	cmd := AssignRestaurantCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return AssignRestaurantCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignRestaurantCommandIsNotConstructed if validation fails.
func (c AssignRestaurantCommand) Validate() error {
	return c.guard.Validate(ErrAssignRestaurantCommandIsNotConstructed)
}

// OrderID returns the identifier of the order awaiting assignment.
func (c AssignRestaurantCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *AssignRestaurantCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}
