package ports

import (
	"context"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"
)

type DriverRepository interface {
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update is a compare-and-swap on the driver's version, like OrderRepository.Update.
	Update(ctx context.Context, aggregate *driver.Driver) error

	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetDispatchable lists available drivers with automatic assignment and a zone, in a stable
	// order so first-match dispatch is deterministic.
	GetDispatchable(ctx context.Context) ([]*driver.Driver, error)
}
