// Package amqp routes engine notifications through RabbitMQ. One durable
// topic exchange carries every notification type; the routing key encodes
// audience and type so downstream channels (push, SMS, vendor dashboards,
// admin pagers) bind only to what they deliver.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hatid/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationsExchange is the topic exchange all engine events flow through.
const NotificationsExchange = "hatid.notifications"

// Connection narrows the AMQP connection surface the adapter needs.
type Connection interface {
	Channel() (*amqp.Channel, error)
}

// notificationMessage is the wire shape of one published notification.
type notificationMessage struct {
	Type       string         `json:"type"`
	Audience   string         `json:"audience"`
	OrderID    string         `json:"order_id"`
	Recipients []string       `json:"recipients,omitempty"`
	Message    string         `json:"message"`
	Payload    map[string]any `json:"payload,omitempty"`
	SentAt     time.Time      `json:"sent_at"`
}

// Publisher implements ports.NotificationPublisher over RabbitMQ.
type Publisher struct {
	conn Connection
}

// NewPublisher creates a publisher on top of an established connection.
func NewPublisher(conn Connection) *Publisher {
	return &Publisher{conn: conn}
}

// RoutingKey derives the topic routing key for one notification.
// Shape: <audience>.<type>, e.g. "admin.sla_violation".
func RoutingKey(n ports.Notification) string {
	return fmt.Sprintf("%s.%s", n.Audience, n.Type)
}

// Publish sends one notification to the topic exchange.
// A fresh channel per publish keeps the adapter safe under concurrent
// callers; channels are cheap relative to connections.
func (p *Publisher) Publish(_ context.Context, n ports.Notification) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err = ch.ExchangeDeclare(
		NotificationsExchange, "topic", true, false, false, false, nil,
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	body, err := json.Marshal(notificationMessage{
		Type:       string(n.Type),
		Audience:   string(n.Audience),
		OrderID:    n.OrderID.String(),
		Recipients: n.Recipients,
		Message:    n.Message,
		Payload:    n.Payload,
		SentAt:     time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = ch.Publish(NotificationsExchange, RoutingKey(n), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}
