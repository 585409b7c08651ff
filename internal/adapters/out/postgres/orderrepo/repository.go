package orderrepo

import (
	"context"
	"errors"

	"gasdelivery/internal/adapters/out/postgres/pgerrs"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const getAllBatchSize = 200

// awaitingDriver are the statuses the assignment sweep looks at.
var awaitingDriver = []string{
	order.Pending.String(),
	order.RefillRequested.String(),
	order.ReturnRequested.String(),
	order.RefillInStore.String(),
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its history, payment timeline and earnings.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(&dto).Error; err != nil {
		return pgerrs.Translate(err, "order", aggregate.ID().String())
	}
	if err := r.saveChildren(db, dto); err != nil {
		return pgerrs.Translate(err, "order", aggregate.ID().String())
	}
	return nil
}

// Update writes the order only when the stored version still matches the aggregate's, then bumps
// the aggregate's version. Child rows are append-only except the mutable columns of timeline entries
// and earnings.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	dto.Version = aggregate.Version() + 1
	db := r.db.WithContext(ctx)

	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Select("*").
		Omit(clause.Associations, "id", "created_at").
		Updates(&dto)
	if result.Error != nil {
		return pgerrs.Translate(result.Error, "order", aggregate.ID().String())
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(db, aggregate)
	}

	if err := r.saveChildren(db, dto); err != nil {
		return pgerrs.Translate(err, "order", aggregate.ID().String())
	}
	aggregate.IncrementVersion()
	return nil
}

func (r *GormOrderRepository) missingOrStale(db *gorm.DB, aggregate *order.Order) error {
	var count int64
	if err := db.Model(&OrderDTO{}).Where("id = ?", aggregate.ID().Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return errs.NewVersionConflictError("order", aggregate.ID().String(), aggregate.Version())
}

func (r *GormOrderRepository) saveChildren(db *gorm.DB, dto OrderDTO) error {
	if len(dto.History) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.History).Error; err != nil {
			return err
		}
	}
	if len(dto.Timeline) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "timeline_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "driver_id", "reference_id", "processed_by", "processed_at", "notes",
			}),
		}).Create(&dto.Timeline).Error
		if err != nil {
			return err
		}
	}
	if len(dto.Earnings) > 0 {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "paid_at"}),
		}).Create(&dto.Earnings).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.preload(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) GetByTimelineID(ctx context.Context, timelineID kernel.UUID) (*order.Order, error) {
	if err := timelineID.Validate(); err != nil {
		return nil, err
	}

	var entry PaymentEntryDTO
	err := r.db.WithContext(ctx).Select("order_id").First(&entry, "timeline_id = ?", timelineID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("timelineId", timelineID.String())
		}
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(entry.OrderID[:])
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, orderID)
}

func (r *GormOrderRepository) GetAwaitingDriver(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.preload(r.db.WithContext(ctx)).
		Where("status IN ?", awaitingDriver).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// GetAll walks every order in creation order, a page at a time.
func (r *GormOrderRepository) GetAll(ctx context.Context, fn func(*order.Order) error) error {
	for offset := 0; ; offset += getAllBatchSize {
		var page []OrderDTO
		err := r.preload(r.db.WithContext(ctx)).
			Order("created_at, id").
			Offset(offset).
			Limit(getAllBatchSize).
			Find(&page).Error
		if err != nil {
			return err
		}

		for _, dto := range page {
			o, err := toDomain(dto)
			if err != nil {
				return err
			}
			if err := fn(o); err != nil {
				return err
			}
		}
		if len(page) < getAllBatchSize {
			return nil
		}
	}
}

func (r *GormOrderRepository) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Preload("Earnings", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}
