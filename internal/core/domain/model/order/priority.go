package order

import (
	"fmt"

	"hatid/internal/pkg/errs"
)

// Priority is the service tier of an order. Higher tiers pay larger fee
// multipliers and get proportionally tightened service-level targets,
// both defined by the rule catalog's priority profiles.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityNormal   Priority = "normal"
	PriorityHigh     Priority = "high"
	PriorityExpress  Priority = "express"
	PriorityCritical Priority = "critical"
)

// priorityRanks orders the tiers from least to most urgent.
func priorityRanks() map[Priority]int {
	return map[Priority]int{
		PriorityLow:      0,
		PriorityNormal:   1,
		PriorityHigh:     2,
		PriorityExpress:  3,
		PriorityCritical: 4,
	}
}

// Validate checks that the Priority is one of the defined tiers.
func (p Priority) Validate() error {
	if _, ok := priorityRanks()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not a valid priority", string(p)))
	}
	return nil
}

// String implements fmt.Stringer.
func (p Priority) String() string {
	return string(p)
}

// AtLeast reports whether p is the same tier as other or more urgent.
// Used for tier-gated behavior such as the peak-hour advisory exemption.
func (p Priority) AtLeast(other Priority) bool {
	return priorityRanks()[p] >= priorityRanks()[other]
}

// PriorityFromString parses a persisted or external priority representation.
func PriorityFromString(s string) (Priority, error) {
	p := Priority(s)
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p, nil
}
