package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/ports"
	"hatid/internal/pkg/errs"
	"hatid/internal/statuswatch"
)

// ChangeOrderStatusCommandHandler applies externally reported transitions.
// Each transition is a short optimistic-versioned transaction; after commit
// the in-process watcher is woken so a pending assignment wait sees the
// confirmation immediately, and a status-change notification goes out to
// the customer.
type ChangeOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	watcher    *statuswatch.Watcher
	publisher  ports.NotificationPublisher
	logger     *slog.Logger
}

// NewChangeOrderStatusCommandHandler creates a handler for transition writes.
func NewChangeOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	watcher *statuswatch.Watcher,
	publisher ports.NotificationPublisher,
	logger *slog.Logger,
) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		watcher:    watcher,
		publisher:  publisher,
		logger:     logger.With("component", "order_transitions"),
	}
}

// Handle applies the transition.
// Version conflicts are retried against re-read state; an illegal transition
// surfaces as an invalid-value error for the transport layer to map.
func (h *ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var lastErr error
	for attempt := 0; attempt < versionConflictRetries; attempt++ {
		err := h.transitionOnce(ctx, cmd)
		if err == nil {
			h.watcher.Notify(cmd.OrderID(), cmd.Target())
			h.publishStatusChange(ctx, cmd)
			return nil
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return err
		}
		lastErr = err
	}

	return lastErr
}

func (h *ChangeOrderStatusCommandHandler) transitionOnce(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = applyTransition(o, cmd); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func applyTransition(o *order.Order, cmd ChangeOrderStatusCommand) error {
	switch cmd.Target() {
	case order.StatusConfirmed:
		return o.Confirm(*cmd.RestaurantID())
	case order.StatusPreparing:
		return o.MarkPreparing()
	case order.StatusReady:
		return o.MarkReady()
	case order.StatusPickedUp:
		return o.MarkPickedUp()
	case order.StatusInTransit:
		return o.MarkInTransit()
	case order.StatusDelivered:
		return o.Complete()
	case order.StatusCancelled:
		return o.Cancel()
	default:
		return errs.NewValueIsInvalidError("target status")
	}
}

func (h *ChangeOrderStatusCommandHandler) publishStatusChange(
	ctx context.Context,
	cmd ChangeOrderStatusCommand,
) {
	err := h.publisher.Publish(ctx, ports.Notification{
		Type:     ports.NotificationOrderStatusChange,
		Audience: ports.AudienceCustomer,
		OrderID:  cmd.OrderID(),
		Message:  fmt.Sprintf("Your order is now %s", cmd.Target()),
		Payload: map[string]any{
			"status": string(cmd.Target()),
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "notification publish failed",
			"type", string(ports.NotificationOrderStatusChange),
			"order_id", cmd.OrderID().String(),
			"error", err)
	}
}
