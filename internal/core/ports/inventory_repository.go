package ports

import (
	"context"

	"gasdelivery/internal/core/domain/model/inventory"
	"gasdelivery/internal/core/domain/model/kernel"
)

type InventoryRepository interface {
	Add(ctx context.Context, aggregate *inventory.Inventory) error

	// GetForUpdate loads the warehouse row and locks it until the transaction ends, so concurrent
	// reservations against the same warehouse serialize.
	GetForUpdate(ctx context.Context, warehouseID kernel.UUID) (*inventory.Inventory, error)

	Get(ctx context.Context, warehouseID kernel.UUID) (*inventory.Inventory, error)

	Update(ctx context.Context, aggregate *inventory.Inventory) error
}
