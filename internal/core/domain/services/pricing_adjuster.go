package services

import (
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/sla"
)

// PeakSurchargeMultiplier is applied to the delivery fee of orders placed
// inside a peak demand window.
const PeakSurchargeMultiplier = 1.2

// PricingAdjuster applies the two placement-time adjustments to an order
// that passed validation:
//
//   - delivery-time projection: estimated delivery = placement time plus the
//     order type's total-delivery budget shrunk by the priority's SLA
//     reduction;
//   - peak-hour surcharge: delivery fee × 1.2 when placed inside a peak
//     window, total recomputed accordingly.
//
// Apply is idempotent: the projection is a pure recomputation and the
// surcharge is guarded by the order's surge marker, so invoking it twice
// must not (and does not) double-apply.
type PricingAdjuster struct {
	catalog sla.Catalog
}

// NewPricingAdjuster creates a PricingAdjuster bound to a rule catalog.
func NewPricingAdjuster(catalog sla.Catalog) PricingAdjuster {
	return PricingAdjuster{catalog: catalog}
}

// Apply mutates the order with the delivery projection and, when the
// placement time falls in a peak window, the surcharge.
func (a PricingAdjuster) Apply(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	adjustedMinutes := a.catalog.AdjustedTotalMinutes(o.OrderType(), o.Priority())
	eta := o.PlacedAt().Add(time.Duration(adjustedMinutes * float64(time.Minute)))
	o.SetEstimatedDelivery(eta)

	if kernel.InPeakWindow(o.PlacedAt()) {
		if err := o.ApplyPeakSurcharge(PeakSurchargeMultiplier); err != nil {
			return err
		}
	}

	return nil
}
