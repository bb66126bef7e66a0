package ports

import (
	"context"

	"hatid/internal/core/domain/model/kernel"
)

// NotificationType identifies the kind of event being dispatched.
type NotificationType string

const (
	NotificationOrderPlaced        NotificationType = "order_placed"
	NotificationNewOrderAssignment NotificationType = "new_order_assignment"
	NotificationOrderStatusChange  NotificationType = "order_status_change"
	NotificationSLAViolation       NotificationType = "sla_violation"
	NotificationOrderIssue         NotificationType = "order_issue"
)

// Audience selects the channel a notification is routed to.
type Audience string

const (
	AudienceCustomer   Audience = "customer"
	AudienceRestaurant Audience = "restaurant"
	AudienceRider      Audience = "rider"
	AudienceAdmin      Audience = "admin"
)

// Notification is one typed event handed to the messaging channel.
type Notification struct {
	Type     NotificationType
	Audience Audience
	OrderID  kernel.UUID
	// Recipients holds resolved contact addresses for admin notifications;
	// customer/restaurant/rider routing is derived from the order id
	// downstream.
	Recipients []string
	Message    string
	Payload    map[string]any
}

// NotificationPublisher dispatches typed events to the messaging channel.
// Dispatch is fire-and-forget from the engine's perspective: publish
// failures are logged by callers and never block state progression.
type NotificationPublisher interface {
	Publish(ctx context.Context, notification Notification) error
}

// AdminDirectory resolves the current set of administrator contact
// addresses for critical notifications.
type AdminDirectory interface {
	Contacts(ctx context.Context) ([]string, error)
}
