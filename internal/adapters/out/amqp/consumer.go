package amqp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"hatid/internal/core/domain/model/kernel"
	"hatid/internal/core/domain/model/order"
	"hatid/internal/statuswatch"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// StatusEventsExchange carries status transitions reported by systems
	// outside this process (restaurant tablets, the rider app backend).
	StatusEventsExchange = "hatid.orders"

	statusEventsQueue      = "hatid.engine.status_events"
	statusEventsBindingKey = "order.status.*"

	consumerReconnectDelay = 5 * time.Second
)

// statusEvent is the wire shape of one externally reported transition.
type statusEvent struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// StatusConsumer feeds externally reported order status transitions into the
// in-process status watcher, so assignment waits wake up without polling.
// Transitions are wakeup signals only; the waiters re-read authoritative
// state from the database before acting.
type StatusConsumer struct {
	url     string
	watcher *statuswatch.Watcher
	logger  *slog.Logger
}

// NewStatusConsumer creates a consumer that dials the given AMQP URL.
func NewStatusConsumer(url string, watcher *statuswatch.Watcher, logger *slog.Logger) *StatusConsumer {
	return &StatusConsumer{
		url:     url,
		watcher: watcher,
		logger:  logger.With("component", "status_consumer"),
	}
}

// Run consumes status events until the context is cancelled. Connection
// failures are retried with a fixed delay; the consumer owns its own
// connection so a broker restart never takes the publisher down with it.
func (c *StatusConsumer) Run(ctx context.Context) {
	for {
		if err := c.consume(ctx); err != nil {
			c.logger.ErrorContext(ctx, "consumer stopped", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(consumerReconnectDelay):
		}
	}
}

func (c *StatusConsumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err = ch.ExchangeDeclare(StatusEventsExchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}

	queue, err := ch.QueueDeclare(statusEventsQueue, true, false, false, false, nil)
	if err != nil {
		return err
	}

	if err = ch.QueueBind(queue.Name, statusEventsBindingKey, StatusEventsExchange, false, nil); err != nil {
		return err
	}

	if err = ch.Qos(10, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	c.logger.InfoContext(ctx, "consuming status events", "queue", queue.Name)

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-closed:
			if amqpErr == nil {
				return nil
			}
			return amqpErr
		case delivery, ok := <-deliveries:
			if !ok {
				return nil
			}
			c.handle(ctx, delivery)
		}
	}
}

// handle decodes and dispatches one delivery. Malformed events are logged
// and acked; redelivering them can never make them parse.
func (c *StatusConsumer) handle(ctx context.Context, delivery amqp.Delivery) {
	defer func() {
		if err := delivery.Ack(false); err != nil {
			c.logger.WarnContext(ctx, "failed to ack delivery", "error", err)
		}
	}()

	var event statusEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.logger.WarnContext(ctx, "malformed status event", "error", err)
		return
	}

	orderID, err := kernel.UUIDFromString(event.OrderID)
	if err != nil {
		c.logger.WarnContext(ctx, "status event with invalid order id",
			"order_id", event.OrderID, "error", err)
		return
	}

	status, err := order.StatusFromString(event.Status)
	if err != nil {
		c.logger.WarnContext(ctx, "status event with unknown status",
			"order_id", event.OrderID, "status", event.Status, "error", err)
		return
	}

	c.watcher.Notify(orderID, status)
	c.logger.DebugContext(ctx, "status event dispatched",
		"order_id", event.OrderID, "status", event.Status)
}
