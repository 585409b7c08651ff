package ports

import (
	"context"
	"time"
)

// Event types published after commit.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventDriverAssigned     = "order.driver_assigned"
	EventPaymentCleared     = "payment.cleared"
)

// Event is a best-effort notification. Key groups events of one order on the same partition.
type Event struct {
	ID         string
	Type       string
	Key        string
	OccurredAt time.Time
	Data       map[string]any
}

// EventPublisher delivers notifications. Errors are logged by callers and never undo a commit.
type EventPublisher interface {
	Publish(ctx context.Context, events ...Event) error
}
