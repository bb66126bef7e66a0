package commands

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/core/domain/model/restaurant"
	"hatid/internal/core/ports"
	"hatid/internal/pkg/errs"
	"hatid/internal/statuswatch"
)

const versionConflictRetries = 3

// AssignmentConfig carries the timing knobs of the assignment protocol.
// All values come from the composition root so operators can tune them
// without a rebuild.
type AssignmentConfig struct {
	// GracePeriod is how long after placement an order may still be
	// cancelled or amended before assignment starts. Enforced by the
	// assignment sweep; the handler only re-checks order state.
	GracePeriod time.Duration

	// CandidateTimeout bounds the wait for one restaurant to confirm.
	CandidateTimeout time.Duration

	// PollInterval is the storage re-read cadence during a candidate wait.
	// The wait also wakes early on status broadcast signals.
	PollInterval time.Duration

	// EscalationWait is the pause after all candidates are exhausted
	// before the order is flagged for manual intervention.
	EscalationWait time.Duration

	// MaxCandidates caps how many restaurants are offered the order.
	MaxCandidates int
}

// DefaultAssignmentConfig returns the production protocol timings.
func DefaultAssignmentConfig() AssignmentConfig {
	return AssignmentConfig{
		GracePeriod:      2 * time.Minute,
		CandidateTimeout: 90 * time.Second,
		PollInterval:     2 * time.Second,
		EscalationWait:   5 * time.Minute,
		MaxCandidates:    5,
	}
}

// AssignRestaurantCommandHandler runs the candidate offer protocol for one
// pending order. Candidates from the delivery city are ranked by rating and
// offered the order one at a time; each offer waits a bounded time for the
// order to reach confirmed status before moving on. Orchestration state lives
// entirely in the order row, so a crashed run is simply restarted by the next
// sweep.
//
// The handler works on repositories outside a shared transaction: each write
// is its own short transaction via optimistic versioning, because an offer
// wait can span minutes and must never hold database locks.
type AssignRestaurantCommandHandler struct {
	orders      ports.OrderRepository
	restaurants ports.RestaurantRepository
	publisher   ports.NotificationPublisher
	admins      ports.AdminDirectory
	watcher     *statuswatch.Watcher
	cfg         AssignmentConfig
	logger      *slog.Logger
}

// NewAssignRestaurantCommandHandler creates a handler for the assignment protocol.
func NewAssignRestaurantCommandHandler(
	orders ports.OrderRepository,
	restaurants ports.RestaurantRepository,
	publisher ports.NotificationPublisher,
	admins ports.AdminDirectory,
	watcher *statuswatch.Watcher,
	cfg AssignmentConfig,
	logger *slog.Logger,
) AssignRestaurantCommandHandler {
	return AssignRestaurantCommandHandler{
		orders:      orders,
		restaurants: restaurants,
		publisher:   publisher,
		admins:      admins,
		watcher:     watcher,
		cfg:         cfg,
		logger:      logger.With("component", "assign_restaurant"),
	}
}

// Handle runs the assignment protocol to completion.
// Expected non-assignments (candidate timeouts, order cancelled mid-protocol)
// are outcomes, not errors; only storage and context failures are returned.
func (h *AssignRestaurantCommandHandler) Handle(ctx context.Context, cmd AssignRestaurantCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	o, err := h.orders.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if o.Status() != order.StatusPending {
		return nil
	}

	candidates, err := h.rankCandidates(ctx, o)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		return h.cancelUnassignable(ctx, o)
	}

	for _, candidate := range candidates {
		outcome, offerErr := h.offer(ctx, o, candidate)
		if offerErr != nil {
			return offerErr
		}

		switch outcome {
		case offerAccepted, offerOrderNoLongerPending:
			return nil
		case offerTimedOut, offerPublishFailed:
			continue
		}
	}

	return h.escalate(ctx, o)
}

type offerOutcome int

const (
	offerAccepted offerOutcome = iota
	offerTimedOut
	offerPublishFailed
	offerOrderNoLongerPending
)

func (h *AssignRestaurantCommandHandler) rankCandidates(
	ctx context.Context,
	o *order.Order,
) ([]*restaurant.Restaurant, error) {
	inCity, err := h.restaurants.GetByCity(ctx, o.Address().City())
	if err != nil {
		return nil, err
	}

	candidates := make([]*restaurant.Restaurant, 0, len(inCity))
	for _, r := range inCity {
		if r.IsActive() && r.IsAcceptingOrders() && r.ServesCity(o.Address().City()) {
			candidates = append(candidates, r)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rating() > candidates[j].Rating()
	})

	if len(candidates) > h.cfg.MaxCandidates {
		candidates = candidates[:h.cfg.MaxCandidates]
	}

	return candidates, nil
}

func (h *AssignRestaurantCommandHandler) offer(
	ctx context.Context,
	o *order.Order,
	candidate *restaurant.Restaurant,
) (offerOutcome, error) {
	err := h.publisher.Publish(ctx, ports.Notification{
		Type:     ports.NotificationNewOrderAssignment,
		Audience: ports.AudienceRestaurant,
		OrderID:  o.ID(),
		Message:  "new order available for confirmation",
		Payload: map[string]any{
			"restaurant_id": candidate.ID().String(),
			"order_type":    string(o.OrderType()),
			"priority":      string(o.Priority()),
			"subtotal":      o.Subtotal(),
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "offer publish failed, advancing to next candidate",
			"order_id", o.ID().String(),
			"restaurant_id", candidate.ID().String(),
			"error", err)
		return offerPublishFailed, nil
	}

	return h.awaitConfirmation(ctx, o, candidate)
}

// awaitConfirmation watches the order until the candidate confirms, the
// candidate window closes, or the order leaves pending status. Status
// broadcast signals shorten the wait; the poll tick guarantees progress when
// the broadcast is missed.
func (h *AssignRestaurantCommandHandler) awaitConfirmation(
	ctx context.Context,
	o *order.Order,
	candidate *restaurant.Restaurant,
) (offerOutcome, error) {
	signals, unsubscribe := h.watcher.Subscribe(o.ID())
	defer unsubscribe()

	deadline := time.NewTimer(h.cfg.CandidateTimeout)
	defer deadline.Stop()

	ticker := time.NewTicker(h.cfg.PollInterval)
	defer ticker.Stop()

	for {
		outcome, done, err := h.checkConfirmation(ctx, o, candidate)
		if err != nil {
			return 0, err
		}
		if done {
			return outcome, nil
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-deadline.C:
			return offerTimedOut, nil
		case <-signals:
		case <-ticker.C:
		}
	}
}

func (h *AssignRestaurantCommandHandler) checkConfirmation(
	ctx context.Context,
	o *order.Order,
	candidate *restaurant.Restaurant,
) (offerOutcome, bool, error) {
	current, err := h.orders.Get(ctx, o.ID())
	if err != nil {
		return 0, false, err
	}

	if current.Status() == order.StatusPending {
		return 0, false, nil
	}

	if current.Status() == order.StatusConfirmed &&
		current.RestaurantID() != nil &&
		current.RestaurantID().IsEqual(candidate.ID()) {
		h.logger.InfoContext(ctx, "restaurant confirmed order",
			"order_id", o.ID().String(),
			"restaurant_id", candidate.ID().String())
		return offerAccepted, true, nil
	}

	// Confirmed by someone else, cancelled, or already further along.
	return offerOrderNoLongerPending, true, nil
}

func (h *AssignRestaurantCommandHandler) cancelUnassignable(ctx context.Context, o *order.Order) error {
	err := h.mutateOrder(ctx, o.ID(), func(current *order.Order) error {
		if current.Status() != order.StatusPending {
			return errSkipMutation
		}
		return current.Cancel()
	})
	if err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "no candidate restaurants, order cancelled",
		"order_id", o.ID().String(),
		"city", o.Address().City())

	h.publish(ctx, ports.Notification{
		Type:     ports.NotificationOrderStatusChange,
		Audience: ports.AudienceCustomer,
		OrderID:  o.ID(),
		Message:  "order cancelled: no restaurants available in your area right now",
		Payload: map[string]any{
			"status": string(order.StatusCancelled),
			"reason": "no_candidates",
		},
	})

	return nil
}

func (h *AssignRestaurantCommandHandler) escalate(ctx context.Context, o *order.Order) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(h.cfg.EscalationWait):
	}

	current, err := h.orders.Get(ctx, o.ID())
	if err != nil {
		return err
	}

	if current.Status() != order.StatusPending {
		return nil
	}

	if err = h.mutateOrder(ctx, o.ID(), func(pending *order.Order) error {
		if pending.Status() != order.StatusPending {
			return errSkipMutation
		}
		pending.FlagForAttention()
		return nil
	}); err != nil {
		return err
	}

	h.logger.WarnContext(ctx, "all candidates exhausted, escalating to operations",
		"order_id", o.ID().String())

	contacts, err := h.admins.Contacts(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "admin contact lookup failed",
			"order_id", o.ID().String(),
			"error", err)
	}

	h.publish(ctx, ports.Notification{
		Type:       ports.NotificationSLAViolation,
		Audience:   ports.AudienceAdmin,
		OrderID:    o.ID(),
		Recipients: contacts,
		Message:    "order could not be assigned to any restaurant",
		Payload: map[string]any{
			"classification": "unassigned_order",
			"severity":       "critical",
		},
	})

	return nil
}

// errSkipMutation aborts mutateOrder without an error when the re-read state
// makes the mutation moot.
var errSkipMutation = errors.New("mutation skipped")

// mutateOrder applies a change with read-mutate-write retries on optimistic
// version conflicts. Concurrent status transitions from the HTTP endpoint are
// expected during the protocol.
func (h *AssignRestaurantCommandHandler) mutateOrder(
	ctx context.Context,
	id kernel.UUID,
	mutate func(*order.Order) error,
) error {
	var lastErr error

	for attempt := 0; attempt < versionConflictRetries; attempt++ {
		current, err := h.orders.Get(ctx, id)
		if err != nil {
			return err
		}

		if err = mutate(current); err != nil {
			if errors.Is(err, errSkipMutation) {
				return nil
			}
			return err
		}

		err = h.orders.Update(ctx, current)
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

func (h *AssignRestaurantCommandHandler) publish(ctx context.Context, n ports.Notification) {
	if err := h.publisher.Publish(ctx, n); err != nil {
		h.logger.WarnContext(ctx, "notification publish failed",
			"type", string(n.Type),
			"order_id", n.OrderID.String(),
			"error", err)
	}
}
