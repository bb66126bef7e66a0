package order

import (
	"errors"
	"fmt"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/pkg/errs"
)

// Item is an immutable snapshot of an ordered menu item, captured at
// placement time so later menu edits do not affect the order.
type Item struct {
	menuItemID kernel.UUID
	name       string
	quantity   int
	unitPrice  float64
}

// NewItem creates a validated order item snapshot.
// Quantity must be positive and unit price non-negative.
func NewItem(menuItemID kernel.UUID, name string, quantity int, unitPrice float64) (Item, error) {
	if err := errors.Join(
		menuItemID.Validate(),
		validateItemName(name),
		validateQuantity(quantity),
		validateUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return Item{
		menuItemID: menuItemID,
		name:       name,
		quantity:   quantity,
		unitPrice:  unitPrice,
	}, nil
}

// MenuItemID returns the identifier of the menu item this snapshot was taken from.
func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

// Name returns the snapshotted item name.
func (i Item) Name() string {
	return i.name
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// UnitPrice returns the snapshotted per-unit price.
func (i Item) UnitPrice() float64 {
	return i.unitPrice
}

func validateItemName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	return nil
}

func validateQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	return nil
}

func validateUnitPrice(unitPrice float64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price",
			fmt.Errorf("%.2f is negative", unitPrice))
	}
	return nil
}
