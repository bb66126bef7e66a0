package commands

import (
	"context"
	"errors"
	"log/slog"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/sla"
	"hatid/internal/core/ports"
	"hatid/internal/pkg/errs"
)

// RunSLAChecksCommandHandler executes one monitor sweep.
// Loads every due, uncompleted check row, evaluates it against the current
// order state and retires it with the result. Breaches are recorded within
// the sweep transaction; admin notifications and corrective actions run
// after commit so a remediation failure can never resurrect a retired check.
//
// Example:
//
//	handler := NewRunSLAChecksCommandHandler(
//	    uowFactory, catalog, dispatcher, publisher, admins, logger)
//	cmd, _ := NewRunSLAChecksCommand(time.Now())
//
//	// Called periodically by the monitor job.
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("sla sweep failed: %v", err)
//	}
type RunSLAChecksCommandHandler struct {
	uowFactory UoWFactory
	catalog    sla.Catalog
	dispatcher *CorrectiveActionDispatcher
	publisher  ports.NotificationPublisher
	admins     ports.AdminDirectory
	logger     *slog.Logger
}

// NewRunSLAChecksCommandHandler creates a handler for monitor sweeps.
func NewRunSLAChecksCommandHandler(
	uowFactory UoWFactory,
	catalog sla.Catalog,
	dispatcher *CorrectiveActionDispatcher,
	publisher ports.NotificationPublisher,
	admins ports.AdminDirectory,
	logger *slog.Logger,
) RunSLAChecksCommandHandler {
	return RunSLAChecksCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		dispatcher: dispatcher,
		publisher:  publisher,
		admins:     admins,
		logger:     logger.With("component", "sla_monitor"),
	}
}

type recordedBreach struct {
	orderID kernel.UUID
	result  sla.CheckResult
}

// Handle runs the sweep.
// Evaluating and retiring rows happens in one transaction; each row is
// completed exactly once, so concurrent sweeps cannot double-report a breach.
func (h *RunSLAChecksCommandHandler) Handle(ctx context.Context, cmd RunSLAChecksCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	checkRepo := uow.SLACheckRepository()
	orderRepo := uow.OrderRepository()

	due, err := checkRepo.GetDue(ctx, cmd.Now())
	if err != nil {
		return err
	}

	breaches := make([]recordedBreach, 0)

	for _, check := range due {
		o, getErr := orderRepo.Get(ctx, check.OrderID())
		if getErr != nil {
			if errors.Is(getErr, errs.ErrObjectNotFound) {
				h.logger.WarnContext(ctx, "check references missing order, skipping",
					"order_id", check.OrderID().String(),
					"phase", string(check.Phase()))
				continue
			}
			return getErr
		}

		result := check.Evaluate(o, h.catalog, cmd.Now())

		if err = check.Complete(result); err != nil {
			return err
		}

		if err = checkRepo.Complete(ctx, check); err != nil {
			return err
		}

		if result.Breached {
			breaches = append(breaches, recordedBreach{orderID: o.ID(), result: result})
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.remediate(ctx, breaches)

	return nil
}

func (h *RunSLAChecksCommandHandler) remediate(ctx context.Context, breaches []recordedBreach) {
	if len(breaches) == 0 {
		return
	}

	contacts, err := h.admins.Contacts(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "admin contact lookup failed", "error", err)
	}

	for _, breach := range breaches {
		h.logger.WarnContext(ctx, "sla breach detected",
			"order_id", breach.orderID.String(),
			"phase", string(breach.result.Phase),
			"delay_minutes", breach.result.DelayMinutes,
			"actual_status", string(breach.result.ActualStatus))

		if err = h.publisher.Publish(ctx, ports.Notification{
			Type:       ports.NotificationSLAViolation,
			Audience:   ports.AudienceAdmin,
			OrderID:    breach.orderID,
			Recipients: contacts,
			Message:    "sla target missed",
			Payload: map[string]any{
				"phase":          string(breach.result.Phase),
				"target_minutes": breach.result.TargetMinutes,
				"actual_minutes": breach.result.ActualMinutes,
				"delay_minutes":  breach.result.DelayMinutes,
				"actual_status":  string(breach.result.ActualStatus),
			},
		}); err != nil {
			h.logger.WarnContext(ctx, "notification publish failed",
				"order_id", breach.orderID.String(),
				"error", err)
		}

		if err = h.dispatcher.Dispatch(ctx, breach.orderID, breach.result); err != nil {
			h.logger.ErrorContext(ctx, "corrective action failed",
				"order_id", breach.orderID.String(),
				"phase", string(breach.result.Phase),
				"error", err)
		}
	}
}
