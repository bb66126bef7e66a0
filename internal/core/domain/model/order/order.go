package order

import (
	"errors"
	"fmt"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root the automation engine drives from placement to a
// terminal status. The storage collaborator is the system of record; the engine
// owns the order only for the duration of lifecycle automation.
//
// Order maintains these invariants:
//   - Status only advances along the defined state machine, or short-circuits
//     to cancelled from any non-terminal state.
//   - total = subtotal + delivery fee at all times; the peak surcharge
//     recomputes from the stored base fee, so applying it twice is a no-op.
//   - Monetary fields are never negative.
//   - Can only be created through NewOrder / RestoreOrder.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID *kernel.UUID
	orderType    Type
	priority     Priority
	status       Status

	subtotal        float64
	deliveryFee     float64
	baseDeliveryFee float64
	totalAmount     float64
	surgeApplied    bool

	placedAt            time.Time
	estimatedDeliveryAt *time.Time

	address kernel.Address
	items   []Item

	needsAttention bool
	riderIncentive float64

	// version supports optimistic concurrency in the storage layer.
	version int

	isConstructed bool
}

// NewOrder creates a freshly placed Order in pending status.
//
// Parameters:
//   - id, customerID: valid identifiers
//   - restaurantID: the customer's pre-selected restaurant, nil when none chosen yet
//   - orderType, priority: classification driving catalog lookups
//   - address: validated delivery destination
//   - items: menu item snapshots (may be empty for non-food errands)
//   - subtotal, deliveryFee: non-negative amounts; total is their sum
//   - placedAt: placement timestamp, the basis for every SLA clock
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID *kernel.UUID,
	orderType Type,
	priority Priority,
	address kernel.Address,
	items []Item,
	subtotal float64,
	deliveryFee float64,
	placedAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        StatusPending,
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setOrderType(orderType),
		o.setPriority(priority),
		o.setAddress(address),
		o.setAmounts(subtotal, deliveryFee),
		o.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	o.items = append([]Item(nil), items...)
	return o, nil
}

// RestoreOrder reconstructs an Order from persistence, bypassing the
// pending-status default but still validating every field. The surge marker,
// base fee, attention flag, incentive and version round-trip unchanged.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	restaurantID *kernel.UUID,
	orderType Type,
	priority Priority,
	status Status,
	address kernel.Address,
	items []Item,
	subtotal float64,
	deliveryFee float64,
	baseDeliveryFee float64,
	totalAmount float64,
	surgeApplied bool,
	placedAt time.Time,
	estimatedDeliveryAt *time.Time,
	needsAttention bool,
	riderIncentive float64,
	version int,
) (*Order, error) {
	o, err := NewOrder(id, customerID, restaurantID, orderType, priority, address, items, subtotal, deliveryFee, placedAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if version < 1 {
		return nil, errs.NewVersionIsInvalidError("order version",
			fmt.Errorf("%d is not a positive version", version))
	}
	if baseDeliveryFee < 0 || totalAmount < 0 {
		return nil, errs.NewValueIsInvalidError("order amounts")
	}

	o.status = status
	o.baseDeliveryFee = baseDeliveryFee
	o.totalAmount = totalAmount
	o.surgeApplied = surgeApplied
	o.estimatedDeliveryAt = estimatedDeliveryAt
	o.needsAttention = needsAttention
	o.riderIncentive = riderIncentive
	o.version = version
	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// CustomerID returns the identifier of the customer who placed the order.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// RestaurantID returns the assigned restaurant's ID, nil until assignment.
func (o *Order) RestaurantID() *kernel.UUID {
	return o.restaurantID
}

// OrderType returns the order's errand classification.
func (o *Order) OrderType() Type {
	return o.orderType
}

// Priority returns the order's service tier.
func (o *Order) Priority() Priority {
	return o.priority
}

// Status returns the current lifecycle status.
func (o *Order) Status() Status {
	return o.status
}

// Subtotal returns the goods subtotal.
func (o *Order) Subtotal() float64 {
	return o.subtotal
}

// DeliveryFee returns the current delivery fee, surcharge included when applied.
func (o *Order) DeliveryFee() float64 {
	return o.deliveryFee
}

// BaseDeliveryFee returns the pre-surcharge delivery fee.
func (o *Order) BaseDeliveryFee() float64 {
	return o.baseDeliveryFee
}

// TotalAmount returns subtotal plus the current delivery fee.
func (o *Order) TotalAmount() float64 {
	return o.totalAmount
}

// SurgeApplied reports whether the peak-hour surcharge has been applied.
func (o *Order) SurgeApplied() bool {
	return o.surgeApplied
}

// PlacedAt returns the placement timestamp. All SLA phase clocks run from it.
func (o *Order) PlacedAt() time.Time {
	return o.placedAt
}

// EstimatedDeliveryAt returns the projected delivery time, nil before pricing ran.
func (o *Order) EstimatedDeliveryAt() *time.Time {
	return o.estimatedDeliveryAt
}

// Address returns the delivery destination.
func (o *Order) Address() kernel.Address {
	return o.address
}

// Items returns a copy of the order's item snapshots.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// NeedsAttention reports whether the order was escalated to administrators.
func (o *Order) NeedsAttention() bool {
	return o.needsAttention
}

// RiderIncentive returns the extra rider payout attached by corrective actions.
func (o *Order) RiderIncentive() float64 {
	return o.riderIncentive
}

// Version returns the optimistic concurrency version.
func (o *Order) Version() int {
	return o.version
}

// Confirm transitions the order to confirmed and binds the accepting restaurant.
//
// Business rules:
//   - only pending orders can be confirmed
//   - the restaurant ID must be valid
func (o *Order) Confirm(restaurantID kernel.UUID) error {
	if err := restaurantID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(StatusConfirmed)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.restaurantID = &restaurantID
	return nil
}

// MarkPreparing transitions confirmed -> preparing.
func (o *Order) MarkPreparing() error {
	return o.advance(StatusPreparing)
}

// MarkReady transitions preparing -> ready.
func (o *Order) MarkReady() error {
	return o.advance(StatusReady)
}

// MarkPickedUp transitions ready -> picked_up.
func (o *Order) MarkPickedUp() error {
	return o.advance(StatusPickedUp)
}

// MarkInTransit transitions picked_up -> in_transit.
func (o *Order) MarkInTransit() error {
	return o.advance(StatusInTransit)
}

// Complete transitions in_transit -> delivered, the successful terminal state.
func (o *Order) Complete() error {
	return o.advance(StatusDelivered)
}

// Cancel short-circuits the order to cancelled from any non-terminal status.
// Blocking validation failures, assignment exhaustion and external
// cancellations all end up here.
func (o *Order) Cancel() error {
	return o.advance(StatusCancelled)
}

// ApplyPeakSurcharge multiplies the base delivery fee by multiplier and
// recomputes the total as total - currentFee + surgedFee.
//
// The operation is idempotent: once the surge marker is set, further calls
// are no-ops. Because the surged fee is always derived from the stored base
// fee, a crashed-and-retried pricing pass cannot compound the surcharge.
func (o *Order) ApplyPeakSurcharge(multiplier float64) error {
	if multiplier <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("surcharge multiplier",
			fmt.Errorf("%.2f is not greater than 0", multiplier))
	}

	if o.surgeApplied {
		return nil
	}

	surged := o.baseDeliveryFee * multiplier
	o.totalAmount = o.totalAmount - o.deliveryFee + surged
	o.deliveryFee = surged
	o.surgeApplied = true
	return nil
}

// SetEstimatedDelivery records the priority-adjusted delivery projection.
func (o *Order) SetEstimatedDelivery(t time.Time) {
	o.estimatedDeliveryAt = &t
}

// FlagForAttention marks the order for administrator follow-up.
// Idempotent; an already flagged order stays flagged.
func (o *Order) FlagForAttention() {
	o.needsAttention = true
}

// RaiseRiderIncentive attaches an additional rider payout to make a stalled
// order more attractive for pickup. The amount accumulates across calls.
func (o *Order) RaiseRiderIncentive(amount float64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("rider incentive",
			fmt.Errorf("%.2f is not greater than 0", amount))
	}
	o.riderIncentive += amount
	return nil
}

func (o *Order) advance(target Status) error {
	newStatus, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer ID", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setRestaurantID(id *kernel.UUID) error {
	if id == nil {
		return nil
	}
	if err := id.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("restaurant ID", err)
	}
	o.restaurantID = id
	return nil
}

func (o *Order) setOrderType(t Type) error {
	if err := t.Validate(); err != nil {
		return err
	}
	o.orderType = t
	return nil
}

func (o *Order) setPriority(p Priority) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.priority = p
	return nil
}

func (o *Order) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setAmounts(subtotal, deliveryFee float64) error {
	if subtotal < 0 {
		return errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("%.2f is negative", subtotal))
	}
	if deliveryFee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("delivery fee",
			fmt.Errorf("%.2f is negative", deliveryFee))
	}
	o.subtotal = subtotal
	o.deliveryFee = deliveryFee
	o.baseDeliveryFee = deliveryFee
	o.totalAmount = subtotal + deliveryFee
	return nil
}

func (o *Order) setPlacedAt(t time.Time) error {
	if t.IsZero() {
		return errs.NewValueIsRequiredError("placed at")
	}
	o.placedAt = t
	return nil
}
