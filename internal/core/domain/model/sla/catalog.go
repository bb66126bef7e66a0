package sla

import (
	"fmt"
	"time"

	"hatid/internal/core/domain/model/order"
	"hatid/internal/pkg/errs"
)

// Targets holds the per-phase time budgets for one order type, in minutes.
// Immutable configuration data.
type Targets struct {
	AcceptanceMinutes      int
	PreparationMinutes     int
	RiderAssignmentMinutes int
	PickupMinutes          int
	DeliveryMinutes        int
	TotalDeliveryMinutes   int
}

// PhaseMinutes returns the unadjusted budget for a single phase.
func (t Targets) PhaseMinutes(phase Phase) int {
	switch phase {
	case PhaseAcceptance:
		return t.AcceptanceMinutes
	case PhasePreparation:
		return t.PreparationMinutes
	case PhaseRiderAssignment:
		return t.RiderAssignmentMinutes
	case PhasePickup:
		return t.PickupMinutes
	case PhaseDelivery:
		return t.DeliveryMinutes
	default:
		return 0
	}
}

// PriorityProfile scales fees and service targets for one priority tier.
// Immutable configuration data.
type PriorityProfile struct {
	// FeeMultiplier scales the delivery fee for the tier.
	FeeMultiplier float64
	// SLAReductionPercent shrinks every phase target proportionally, 0-100.
	SLAReductionPercent int
	// AssignmentWeight is a relative ranking hint for candidate ordering.
	// It is not enforced by the engine.
	AssignmentWeight int
}

// Catalog is the immutable rule catalog: SLA targets per order type and
// priority profiles per tier. It is injected configuration, never a
// module-level mutable table, so tests can run with overridden targets.
type Catalog struct {
	targets  map[order.Type]Targets
	profiles map[order.Priority]PriorityProfile
}

// NewCatalog builds a catalog from explicit tables. Every order type and
// every priority tier must be covered.
func NewCatalog(
	targets map[order.Type]Targets,
	profiles map[order.Priority]PriorityProfile,
) (Catalog, error) {
	for _, t := range []order.Type{order.TypeFood, order.TypePabili, order.TypePabayad, order.TypeParcel} {
		if _, ok := targets[t]; !ok {
			return Catalog{}, errs.NewValueIsRequiredErrorWithCause("sla targets",
				fmt.Errorf("no targets for order type %q", t))
		}
	}
	for _, p := range []order.Priority{
		order.PriorityLow, order.PriorityNormal, order.PriorityHigh,
		order.PriorityExpress, order.PriorityCritical,
	} {
		profile, ok := profiles[p]
		if !ok {
			return Catalog{}, errs.NewValueIsRequiredErrorWithCause("priority profiles",
				fmt.Errorf("no profile for priority %q", p))
		}
		if profile.SLAReductionPercent < 0 || profile.SLAReductionPercent > 100 {
			return Catalog{}, errs.NewValueIsOutOfRangeError(
				"sla reduction percent", profile.SLAReductionPercent, 0, 100)
		}
	}

	copiedTargets := make(map[order.Type]Targets, len(targets))
	for k, v := range targets {
		copiedTargets[k] = v
	}
	copiedProfiles := make(map[order.Priority]PriorityProfile, len(profiles))
	for k, v := range profiles {
		copiedProfiles[k] = v
	}

	return Catalog{targets: copiedTargets, profiles: copiedProfiles}, nil
}

// DefaultCatalog returns the production rule tables.
func DefaultCatalog() Catalog {
	catalog, err := NewCatalog(
		map[order.Type]Targets{
			order.TypeFood: {
				AcceptanceMinutes:      5,
				PreparationMinutes:     25,
				RiderAssignmentMinutes: 35,
				PickupMinutes:          40,
				DeliveryMinutes:        55,
				TotalDeliveryMinutes:   60,
			},
			order.TypePabili: {
				AcceptanceMinutes:      10,
				PreparationMinutes:     40,
				RiderAssignmentMinutes: 50,
				PickupMinutes:          55,
				DeliveryMinutes:        85,
				TotalDeliveryMinutes:   90,
			},
			order.TypePabayad: {
				AcceptanceMinutes:      10,
				PreparationMinutes:     30,
				RiderAssignmentMinutes: 40,
				PickupMinutes:          45,
				DeliveryMinutes:        70,
				TotalDeliveryMinutes:   75,
			},
			order.TypeParcel: {
				AcceptanceMinutes:      10,
				PreparationMinutes:     30,
				RiderAssignmentMinutes: 45,
				PickupMinutes:          50,
				DeliveryMinutes:        85,
				TotalDeliveryMinutes:   90,
			},
		},
		map[order.Priority]PriorityProfile{
			order.PriorityLow:      {FeeMultiplier: 0.9, SLAReductionPercent: 0, AssignmentWeight: 1},
			order.PriorityNormal:   {FeeMultiplier: 1.0, SLAReductionPercent: 0, AssignmentWeight: 2},
			order.PriorityHigh:     {FeeMultiplier: 1.15, SLAReductionPercent: 15, AssignmentWeight: 3},
			order.PriorityExpress:  {FeeMultiplier: 1.3, SLAReductionPercent: 25, AssignmentWeight: 4},
			order.PriorityCritical: {FeeMultiplier: 1.5, SLAReductionPercent: 40, AssignmentWeight: 5},
		},
	)
	if err != nil {
		// The default tables are compile-time constants; this cannot happen.
		panic(err)
	}
	return catalog
}

// Targets returns the time budgets for the given order type.
func (c Catalog) Targets(t order.Type) Targets {
	return c.targets[t]
}

// Profile returns the priority profile for the given tier.
func (c Catalog) Profile(p order.Priority) PriorityProfile {
	return c.profiles[p]
}

// AdjustedPhaseMinutes returns the phase budget shrunk by the priority's
// SLA reduction: target × (100 − reduction) / 100.
func (c Catalog) AdjustedPhaseMinutes(t order.Type, phase Phase, p order.Priority) float64 {
	return c.adjust(float64(c.targets[t].PhaseMinutes(phase)), p)
}

// AdjustedTotalMinutes returns the total-delivery budget shrunk by the
// priority's SLA reduction. The pricing adjuster projects the estimated
// delivery time from this value.
func (c Catalog) AdjustedTotalMinutes(t order.Type, p order.Priority) float64 {
	return c.adjust(float64(c.targets[t].TotalDeliveryMinutes), p)
}

// AdjustedPhaseDuration is AdjustedPhaseMinutes as a time.Duration.
func (c Catalog) AdjustedPhaseDuration(t order.Type, phase Phase, p order.Priority) time.Duration {
	return time.Duration(c.AdjustedPhaseMinutes(t, phase, p) * float64(time.Minute))
}

func (c Catalog) adjust(minutes float64, p order.Priority) float64 {
	reduction := c.profiles[p].SLAReductionPercent
	return minutes * float64(100-reduction) / 100
}
