package inventoryrepo

import (
	"context"
	"errors"

	"gasdelivery/internal/adapters/out/postgres/pgerrs"
	"gasdelivery/internal/core/domain/model/inventory"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRepository implements ports.InventoryRepository using GORM.
type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) Add(ctx context.Context, aggregate *inventory.Inventory) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "warehouse", aggregate.ID().String())
	}
	return nil
}

// GetForUpdate takes a row lock (SELECT ... FOR UPDATE) held until the surrounding transaction ends.
// Outside a transaction the lock is released immediately.
func (r *GormInventoryRepository) GetForUpdate(ctx context.Context, warehouseID kernel.UUID) (*inventory.Inventory, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), warehouseID)
}

func (r *GormInventoryRepository) Get(ctx context.Context, warehouseID kernel.UUID) (*inventory.Inventory, error) {
	return r.get(r.db.WithContext(ctx), warehouseID)
}

func (r *GormInventoryRepository) get(db *gorm.DB, warehouseID kernel.UUID) (*inventory.Inventory, error) {
	if err := warehouseID.Validate(); err != nil {
		return nil, err
	}

	var dto InventoryDTO
	if err := db.First(&dto, "id = ?", warehouseID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("warehouse", warehouseID.String())
		}
		return nil, pgerrs.Translate(err, "warehouse", warehouseID.String())
	}
	return toDomain(dto)
}

func (r *GormInventoryRepository) Update(ctx context.Context, aggregate *inventory.Inventory) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&InventoryDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Omit("id").
		Updates(&dto)
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "warehouse", aggregate.ID().String())
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("warehouse", aggregate.ID().String())
	}
	return nil
}
