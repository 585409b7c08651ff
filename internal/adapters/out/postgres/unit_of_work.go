// Package postgres provides the GORM implementation of the Unit of Work pattern.
//
// One unit of work is one database transaction. Repositories obtained from it after Begin share
// that transaction, so an order write, the inventory reservation it depends on and the driver
// it occupies either all land or none do.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	inv, err := uow.InventoryRepository().GetForUpdate(ctx, warehouseID)
//	...
//	if err := uow.OrderRepository().Add(ctx, ord); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit is a no-op that returns gorm.ErrInvalidTransaction, which
// callers ignore.
//
// Concurrency:
//   - Each UnitOfWork instance owns its own transaction; never share one between goroutines.
//   - Inventory rows are locked with SELECT ... FOR UPDATE for the length of the transaction.
//   - Orders and drivers use a version column; a stale write returns errs.ErrVersionConflict.
//   - Serialization failures and deadlocks reported at commit are returned as
//     errs.ErrVersionConflict too, so callers have a single retry signal.
package postgres

import (
	"context"

	"gasdelivery/internal/adapters/out/postgres/cylinderrepo"
	"gasdelivery/internal/adapters/out/postgres/driverrepo"
	"gasdelivery/internal/adapters/out/postgres/inventoryrepo"
	"gasdelivery/internal/adapters/out/postgres/orderrepo"
	"gasdelivery/internal/adapters/out/postgres/pgerrs"
	"gasdelivery/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory creates UnitOfWork instances over one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work with no transaction open.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create with the concrete type, for adapters that need more than ports.UnitOfWork.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates one database transaction.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin opens the transaction. Calling it twice keeps the first transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction. Serialization failures come back as version conflicts.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil && pgerrs.IsRetryable(err) {
		return pgerrs.Translate(err, "transaction", "commit")
	}
	return err
}

// Rollback discards the transaction.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository runs inside the transaction when one is open, otherwise on the pool.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

func (uow *GormUnitOfWork) InventoryRepository() ports.InventoryRepository {
	return inventoryrepo.NewGormInventoryRepository(uow.conn())
}

func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn())
}

func (uow *GormUnitOfWork) CylinderRepository() ports.CylinderRepository {
	return cylinderrepo.NewGormCylinderRepository(uow.conn())
}
