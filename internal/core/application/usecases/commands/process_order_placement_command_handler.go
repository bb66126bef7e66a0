package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/restaurant"
	"hatid/internal/core/domain/model/sla"
	"hatid/internal/core/domain/services"
	"hatid/internal/core/ports"
	"hatid/internal/pkg/errs"
)

// ProcessOrderPlacementResult reports the intake decision for one order.
// Violations carries every rule finding, blocking or advisory, so transports
// can surface the full picture to the caller.
type ProcessOrderPlacementResult struct {
	Accepted   bool
	Violations services.Violations
}

// ProcessOrderPlacementCommandHandler runs the intake pipeline for a freshly
// placed order: business rule validation, pricing adjustment, delivery
// estimation and seeding of the deferred check schedule. A blocking violation
// cancels the order instead.
//
// Example:
//
//	handler := NewProcessOrderPlacementCommandHandler(
//	    uowFactory, validator, adjuster, catalog, publisher, logger)
//	cmd, _ := NewProcessOrderPlacementCommand(orderID)
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
type ProcessOrderPlacementCommandHandler struct {
	uowFactory UoWFactory
	validator  services.OrderValidator
	adjuster   services.PricingAdjuster
	catalog    sla.Catalog
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewProcessOrderPlacementCommandHandler creates a handler for order intake.
func NewProcessOrderPlacementCommandHandler(
	uowFactory UoWFactory,
	validator services.OrderValidator,
	adjuster services.PricingAdjuster,
	catalog sla.Catalog,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) ProcessOrderPlacementCommandHandler {
	return ProcessOrderPlacementCommandHandler{
		uowFactory: uowFactory,
		validator:  validator,
		adjuster:   adjuster,
		catalog:    catalog,
		publisher:  publisher,
		logger:     logger.With("component", "process_order_placement"),
	}
}

// Handle processes the placement command.
// Loads the order and its selected restaurant, evaluates every business rule,
// and commits exactly one outcome: a cancelled order on any blocking
// violation, or an accepted order with adjusted pricing, a delivery estimate
// and a seeded check schedule. Notifications are dispatched after commit and
// never fail the command.
func (h *ProcessOrderPlacementCommandHandler) Handle(
	ctx context.Context,
	cmd ProcessOrderPlacementCommand,
) (ProcessOrderPlacementResult, error) {
	if err := cmd.Validate(); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	if o.Status() != order.StatusPending {
		return ProcessOrderPlacementResult{}, errs.NewValueIsInvalidErrorWithCause(
			"order status",
			fmt.Errorf("placement processing requires a pending order, got %s", o.Status()),
		)
	}

	r, err := h.lookupRestaurant(ctx, uow, o)
	if err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	todayCount, err := orderRepo.CountByCustomerSince(
		ctx, o.CustomerID(), kernel.StartOfDay(o.PlacedAt()))
	if err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	violations, err := h.validator.Validate(o, r, todayCount)
	if err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	if violations.Blocking() {
		return h.reject(ctx, uow, o, violations)
	}

	return h.accept(ctx, uow, o, violations)
}

func (h *ProcessOrderPlacementCommandHandler) lookupRestaurant(
	ctx context.Context,
	uow UoW,
	o *order.Order,
) (*restaurant.Restaurant, error) {
	restaurantID := o.RestaurantID()
	if restaurantID == nil {
		return nil, nil //nolint:nilnil //absent restaurant is a validator input, not a failure
	}

	r, err := uow.RestaurantRepository().Get(ctx, *restaurantID)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, nil //nolint:nilnil //validator turns this into a blocking violation
		}
		return nil, err
	}

	return r, nil
}

func (h *ProcessOrderPlacementCommandHandler) reject(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	violations services.Violations,
) (ProcessOrderPlacementResult, error) {
	if err := o.Cancel(); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	blocking, _ := violations.First(services.ActionBlock)
	h.publish(ctx, ports.Notification{
		Type:     ports.NotificationOrderStatusChange,
		Audience: ports.AudienceCustomer,
		OrderID:  o.ID(),
		Message:  "order cancelled: " + blocking.Message,
		Payload: map[string]any{
			"status":    string(order.StatusCancelled),
			"violation": string(blocking.Type),
		},
	})

	return ProcessOrderPlacementResult{Accepted: false, Violations: violations}, nil
}

func (h *ProcessOrderPlacementCommandHandler) accept(
	ctx context.Context,
	uow UoW,
	o *order.Order,
	violations services.Violations,
) (ProcessOrderPlacementResult, error) {
	if err := h.adjuster.Apply(o); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	checks, err := sla.ScheduleChecks(o, h.catalog)
	if err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	if err = uow.SLACheckRepository().Seed(ctx, checks); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ProcessOrderPlacementResult{}, err
	}

	h.publish(ctx, ports.Notification{
		Type:     ports.NotificationOrderPlaced,
		Audience: ports.AudienceCustomer,
		OrderID:  o.ID(),
		Message:  "order accepted",
		Payload: map[string]any{
			"total_amount":          o.TotalAmount(),
			"estimated_delivery_at": o.EstimatedDeliveryAt(),
			"advisories":            len(violations),
		},
	})

	return ProcessOrderPlacementResult{Accepted: true, Violations: violations}, nil
}

func (h *ProcessOrderPlacementCommandHandler) publish(ctx context.Context, n ports.Notification) {
	if err := h.publisher.Publish(ctx, n); err != nil {
		h.logger.WarnContext(ctx, "notification publish failed",
			"type", string(n.Type),
			"order_id", n.OrderID.String(),
			"error", err)
	}
}
