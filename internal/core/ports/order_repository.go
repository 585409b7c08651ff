// Package ports declares what the fulfilment core needs from the outside world: persistence,
// payment authorization, notifications, the people directory and the external ledger mirror.
package ports

import (
	"context"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates together with their history, payment timeline and
// driver earnings.
type OrderRepository interface {
	// Add stores a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order back if its stored version still equals aggregate.Version().
	// A stale write returns *errs.VersionConflictError and changes nothing.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ObjectNotFoundError when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByTimelineID returns the order owning a payment timeline entry.
	GetByTimelineID(ctx context.Context, timelineID kernel.UUID) (*order.Order, error)

	// GetAwaitingDriver lists up to limit unassigned orders whose status needs a driver, oldest first.
	GetAwaitingDriver(ctx context.Context, limit int) ([]*order.Order, error)

	// GetAll streams every order to fn in creation order. Used to rebuild the mirror.
	GetAll(ctx context.Context, fn func(*order.Order) error) error
}
