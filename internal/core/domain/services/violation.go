package services

// ViolationType tags the business rule a violation came from.
type ViolationType string

const (
	ViolationRestaurantNotFound    ViolationType = "restaurant_not_found"
	ViolationRestaurantInactive    ViolationType = "restaurant_inactive"
	ViolationOutsideOperatingHours ViolationType = "outside_operating_hours"
	ViolationItemUnavailable       ViolationType = "item_unavailable"
	ViolationOutsideDeliveryArea   ViolationType = "outside_delivery_area"
	ViolationBelowMinimumOrder     ViolationType = "below_minimum_order"
	ViolationPeakHourAdvisory      ViolationType = "peak_hour_advisory"
	ViolationHighOrderFrequency    ViolationType = "high_order_frequency"
)

// Severity grades how serious a violation is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Action tells the caller what to do about a violation. Exactly one block
// anywhere in a validation result cancels the order; warn and monitor
// violations are surfaced for observability but never halt processing.
type Action string

const (
	ActionBlock   Action = "block"
	ActionWarn    Action = "warn"
	ActionMonitor Action = "monitor"
)

// Violation is one business-rule failure produced by a validation pass.
// Violations are ephemeral: the engine never persists them itself.
type Violation struct {
	Type     ViolationType
	Severity Severity
	Message  string
	Action   Action
}

// Violations is an ordered validation result.
type Violations []Violation

// Blocking reports whether any violation carries the block action.
func (v Violations) Blocking() bool {
	for _, violation := range v {
		if violation.Action == ActionBlock {
			return true
		}
	}
	return false
}

// First returns the first violation with the given action, if any.
func (v Violations) First(action Action) (Violation, bool) {
	for _, violation := range v {
		if violation.Action == action {
			return violation, true
		}
	}
	return Violation{}, false
}
