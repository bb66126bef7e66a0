package commands

import (
	"context"
	"errors"
	"log/slog"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/sla"
	"hatid/internal/core/ports"
	"hatid/internal/pkg/errs"
)

// CorrectiveConfig carries the remediation amounts applied on breaches.
type CorrectiveConfig struct {
	// RiderIncentiveStep is added to the order's rider incentive each
	// time the rider assignment window is breached.
	RiderIncentiveStep float64

	// CompensationAmount is the voucher value offered to the customer
	// when the overall delivery window is breached.
	CompensationAmount float64
}

// DefaultCorrectiveConfig returns the production remediation amounts.
func DefaultCorrectiveConfig() CorrectiveConfig {
	return CorrectiveConfig{
		RiderIncentiveStep: 25,
		CompensationAmount: 100,
	}
}

// CorrectiveActionDispatcher reacts to breached checks with phase-specific
// remediation. Acceptance breaches re-enter the assignment flow, rider
// assignment breaches sweeten the offer for riders, delivery breaches
// compensate the customer. Preparation and pickup breaches are recorded by
// the monitor and intentionally trigger nothing here.
type CorrectiveActionDispatcher struct {
	uowFactory OrderUoWFactory
	publisher  ports.NotificationPublisher
	admins     ports.AdminDirectory
	cfg        CorrectiveConfig
	logger     *slog.Logger
}

// NewCorrectiveActionDispatcher creates a dispatcher for breach remediation.
func NewCorrectiveActionDispatcher(
	uowFactory OrderUoWFactory,
	publisher ports.NotificationPublisher,
	admins ports.AdminDirectory,
	cfg CorrectiveConfig,
	logger *slog.Logger,
) CorrectiveActionDispatcher {
	return CorrectiveActionDispatcher{
		uowFactory: uowFactory,
		publisher:  publisher,
		admins:     admins,
		cfg:        cfg,
		logger:     logger.With("component", "corrective_actions"),
	}
}

// Dispatch applies the corrective action for one breached check.
// Each action runs in its own transaction so a failing remediation never
// rolls back the recorded breach.
func (d *CorrectiveActionDispatcher) Dispatch(
	ctx context.Context,
	orderID kernel.UUID,
	result sla.CheckResult,
) error {
	switch result.Phase {
	case sla.PhaseAcceptance:
		return d.reescalateAssignment(ctx, orderID, result)
	case sla.PhaseRiderAssignment:
		return d.raiseRiderIncentive(ctx, orderID, result)
	case sla.PhaseDelivery:
		return d.offerCompensation(ctx, orderID, result)
	case sla.PhasePreparation, sla.PhasePickup:
		return nil
	default:
		return nil
	}
}

// reescalateAssignment flags the order so the assignment sweep re-offers it
// and operations can intervene.
func (d *CorrectiveActionDispatcher) reescalateAssignment(
	ctx context.Context,
	orderID kernel.UUID,
	result sla.CheckResult,
) error {
	err := d.mutate(ctx, orderID, func(o *order.Order) error {
		o.FlagForAttention()
		return nil
	})
	if err != nil {
		return err
	}

	contacts, err := d.admins.Contacts(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "admin contact lookup failed",
			"order_id", orderID.String(),
			"error", err)
	}

	d.publish(ctx, ports.Notification{
		Type:       ports.NotificationSLAViolation,
		Audience:   ports.AudienceAdmin,
		OrderID:    orderID,
		Recipients: contacts,
		Message:    "order not accepted within the acceptance window, re-escalating",
		Payload: map[string]any{
			"classification": "assignment_escalated",
			"phase":          string(result.Phase),
			"delay_minutes":  result.DelayMinutes,
		},
	})

	return nil
}

func (d *CorrectiveActionDispatcher) raiseRiderIncentive(
	ctx context.Context,
	orderID kernel.UUID,
	result sla.CheckResult,
) error {
	var incentive float64

	err := d.mutate(ctx, orderID, func(o *order.Order) error {
		if raiseErr := o.RaiseRiderIncentive(d.cfg.RiderIncentiveStep); raiseErr != nil {
			return raiseErr
		}
		incentive = o.RiderIncentive()
		return nil
	})
	if err != nil {
		return err
	}

	d.publish(ctx, ports.Notification{
		Type:     ports.NotificationNewOrderAssignment,
		Audience: ports.AudienceRider,
		OrderID:  orderID,
		Message:  "delivery incentive raised",
		Payload: map[string]any{
			"rider_incentive": incentive,
			"phase":           string(result.Phase),
		},
	})

	return nil
}

// offerCompensation notifies the customer with a voucher. The voucher itself
// is issued by the loyalty system consuming the notification.
func (d *CorrectiveActionDispatcher) offerCompensation(
	ctx context.Context,
	orderID kernel.UUID,
	result sla.CheckResult,
) error {
	d.publish(ctx, ports.Notification{
		Type:     ports.NotificationOrderIssue,
		Audience: ports.AudienceCustomer,
		OrderID:  orderID,
		Message:  "sorry for the delay, a voucher has been added to your account",
		Payload: map[string]any{
			"voucher_amount": d.cfg.CompensationAmount,
			"delay_minutes":  result.DelayMinutes,
		},
	})

	return nil
}

func (d *CorrectiveActionDispatcher) mutate(
	ctx context.Context,
	orderID kernel.UUID,
	mutate func(*order.Order) error,
) error {
	var lastErr error

	for attempt := 0; attempt < versionConflictRetries; attempt++ {
		err := d.mutateOnce(ctx, orderID, mutate)
		if err == nil {
			return nil
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return err
		}
		lastErr = err
	}

	return lastErr
}

func (d *CorrectiveActionDispatcher) mutateOnce(
	ctx context.Context,
	orderID kernel.UUID,
	mutate func(*order.Order) error,
) error {
	uow := d.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if err = mutate(o); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (d *CorrectiveActionDispatcher) publish(ctx context.Context, n ports.Notification) {
	if err := d.publisher.Publish(ctx, n); err != nil {
		d.logger.WarnContext(ctx, "notification publish failed",
			"type", string(n.Type),
			"order_id", n.OrderID.String(),
			"error", err)
	}
}
