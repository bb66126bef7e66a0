package order

import (
	"fmt"

	"hatid/internal/pkg/errs"
)

// Type classifies what kind of errand an order represents. Each type carries
// its own service-level targets in the rule catalog.
type Type string

const (
	// TypeFood is a restaurant food delivery order.
	TypeFood Type = "food"

	// TypePabili is a purchase errand: the rider buys requested goods on
	// the customer's behalf.
	TypePabili Type = "pabili"

	// TypePabayad is a payment errand: the rider settles a bill for the customer.
	TypePabayad Type = "pabayad"

	// TypeParcel is a point-to-point package delivery.
	TypeParcel Type = "parcel"
)

func validTypes() map[Type]struct{} {
	return map[Type]struct{}{
		TypeFood:    {},
		TypePabili:  {},
		TypePabayad: {},
		TypeParcel:  {},
	}
}

// Validate checks that the Type is one of the supported order kinds.
func (t Type) Validate() error {
	if _, ok := validTypes()[t]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("order type", fmt.Errorf("%q is not a valid order type", string(t)))
	}
	return nil
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// TypeFromString parses a persisted or external order type representation.
func TypeFromString(s string) (Type, error) {
	t := Type(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}
