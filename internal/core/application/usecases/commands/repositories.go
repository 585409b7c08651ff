// Package commands contains the write operations of the fulfilment core. Each operation is a
// Command built through its constructor and a Handler that runs it inside one unit of work,
// then publishes notifications and mirror updates once the transaction has committed.
package commands

import (
	"context"

	"gasdelivery/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	InventoryRepoFactory interface {
		InventoryRepository() ports.InventoryRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	CylinderRepoFactory interface {
		CylinderRepository() ports.CylinderRepository
	}

	// OrderUoW is enough for operations that touch only the order aggregate.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW spans every aggregate an order transition can touch.
	UoW interface {
		TxManager
		OrderRepoFactory
		InventoryRepoFactory
		DriverRepoFactory
		CylinderRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
