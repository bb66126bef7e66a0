package services

import (
	"fmt"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/restaurant"
)

// dailyOrderAdvisoryThreshold is the customer daily order count at which the
// validator raises a frequency advisory.
const dailyOrderAdvisoryThreshold = 10

// OrderValidator is the business rule validator. It evaluates a placed order
// against the vendor read model and live context, producing an ordered list
// of typed violations. The validator never mutates the order.
//
// All checks run independently and every applicable one is evaluated; the
// only short-circuit is a missing restaurant, which is fatal and returns
// immediately. Interpreting the result is the caller's job: any block action
// cancels the order, warn/monitor violations are observability signals.
type OrderValidator struct{}

// NewOrderValidator creates an OrderValidator.
func NewOrderValidator() OrderValidator {
	return OrderValidator{}
}

// Validate runs every business rule against the order.
//
// Parameters:
//   - o: the order under validation (must be constructed)
//   - r: the pre-selected restaurant, nil when lookup found nothing
//   - todayOrderCount: how many orders the customer has placed today,
//     including this one
func (v OrderValidator) Validate(
	o *order.Order,
	r *restaurant.Restaurant,
	todayOrderCount int,
) (Violations, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	if r == nil {
		return Violations{{
			Type:     ViolationRestaurantNotFound,
			Severity: SeverityCritical,
			Message:  "selected restaurant does not exist",
			Action:   ActionBlock,
		}}, nil
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	var violations Violations

	if !r.IsActive() {
		violations = append(violations, Violation{
			Type:     ViolationRestaurantInactive,
			Severity: SeverityError,
			Message:  fmt.Sprintf("restaurant %q is not active", r.Name()),
			Action:   ActionBlock,
		})
	}

	if !r.IsOpenAt(o.PlacedAt()) {
		violations = append(violations, Violation{
			Type:     ViolationOutsideOperatingHours,
			Severity: SeverityError,
			Message:  fmt.Sprintf("restaurant %q is closed at the placement time", r.Name()),
			Action:   ActionBlock,
		})
	}

	if o.OrderType() == order.TypeFood {
		violations = append(violations, v.checkItemAvailability(o, r)...)
	}

	if !r.ServesCity(o.Address().City()) {
		violations = append(violations, Violation{
			Type:     ViolationOutsideDeliveryArea,
			Severity: SeverityError,
			Message:  fmt.Sprintf("delivery address in %q is outside the restaurant's service area", o.Address().City()),
			Action:   ActionBlock,
		})
	}

	if o.TotalAmount() < r.MinimumOrder() {
		violations = append(violations, Violation{
			Type:     ViolationBelowMinimumOrder,
			Severity: SeverityError,
			Message: fmt.Sprintf("order total %.2f is below the minimum order value %.2f",
				o.TotalAmount(), r.MinimumOrder()),
			Action: ActionBlock,
		})
	}

	if kernel.InPeakWindow(o.PlacedAt()) && !o.Priority().AtLeast(order.PriorityExpress) {
		violations = append(violations, Violation{
			Type:     ViolationPeakHourAdvisory,
			Severity: SeverityWarning,
			Message:  "order placed during a peak demand window; delivery may take longer",
			Action:   ActionMonitor,
		})
	}

	if todayOrderCount >= dailyOrderAdvisoryThreshold {
		violations = append(violations, Violation{
			Type:     ViolationHighOrderFrequency,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("customer placed %d orders today", todayOrderCount),
			Action:   ActionMonitor,
		})
	}

	return violations, nil
}

// checkItemAvailability raises one warning per ordered item that is missing
// from the menu or flagged unavailable. Availability problems never block:
// the restaurant can still confirm the order with substitutions.
func (v OrderValidator) checkItemAvailability(o *order.Order, r *restaurant.Restaurant) Violations {
	var violations Violations
	for _, item := range o.Items() {
		menuItem, found := r.MenuItem(item.MenuItemID())
		if found && menuItem.Available {
			continue
		}
		violations = append(violations, Violation{
			Type:     ViolationItemUnavailable,
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("menu item %q is currently unavailable", item.Name()),
			Action:   ActionWarn,
		})
	}
	return violations
}
