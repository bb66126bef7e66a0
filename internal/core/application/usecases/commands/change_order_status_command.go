package commands

import (
	"errors"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/pkg/errs"
	"hatid/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand constructor",
)

// ChangeOrderStatusCommand represents an externally reported order
// transition: a restaurant accepting, the kitchen finishing, a rider picking
// up or delivering. The target status drives which aggregate transition is
// applied; confirming additionally binds the accepting restaurant.
type ChangeOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	target       order.Status
	restaurantID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewChangeOrderStatusCommand creates a transition command.
// restaurantID is required when the target is confirmed and ignored otherwise.
func NewChangeOrderStatusCommand(
	orderID kernel.UUID,
	target order.Status,
	restaurantID *kernel.UUID,
) (ChangeOrderStatusCommand, error) {
	cmd := ChangeOrderStatusCommand{
		guard: guard.NewConstructorGuard(),
	}

	err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
	)
	if err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	if err = cmd.setRestaurantID(restaurantID); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order being transitioned.
func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the requested status.
func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

// RestaurantID returns the accepting restaurant, set only for confirmations.
func (c ChangeOrderStatusCommand) RestaurantID() *kernel.UUID {
	return c.restaurantID
}

func (c *ChangeOrderStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("order id", err)
	}

	c.orderID = id
	return nil
}

func (c *ChangeOrderStatusCommand) setTarget(target order.Status) error {
	if err := target.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("target status", err)
	}
	if target == order.StatusPending {
		return errs.NewValueIsInvalidError("target status")
	}

	c.target = target
	return nil
}

func (c *ChangeOrderStatusCommand) setRestaurantID(id *kernel.UUID) error {
	if c.target != order.StatusConfirmed {
		c.restaurantID = nil
		return nil
	}
	if id == nil {
		return errs.NewValueIsRequiredError("restaurant id")
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("restaurant id", err)
	}

	copied := *id
	c.restaurantID = &copied
	return nil
}
