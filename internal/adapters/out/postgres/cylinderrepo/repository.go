// Package cylinderrepo stores physical cylinders keyed by their printed QR code.
package cylinderrepo

import (
	"context"
	"time"

	"gasdelivery/internal/adapters/out/postgres/pgerrs"
	"gasdelivery/internal/core/domain/model/cylinder"
	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CylinderDTO struct {
	QRCode    string     `gorm:"column:qr_code;primaryKey;size:64"`
	Size      string     `gorm:"size:16;not null"`
	Status    string     `gorm:"size:16;not null"`
	BuyerID   *uuid.UUID `gorm:"type:uuid;index"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime:false"`
}

func (CylinderDTO) TableName() string {
	return "cylinders"
}

func fromDomain(c *cylinder.Cylinder) CylinderDTO {
	return CylinderDTO{
		QRCode:    c.QRCode(),
		Size:      c.Size().String(),
		Status:    string(c.Status()),
		BuyerID:   rawID(c.BuyerID()),
		OrderID:   rawID(c.OrderID()),
		UpdatedAt: c.UpdatedAt(),
	}
}

func toDomain(dto CylinderDTO) (*cylinder.Cylinder, error) {
	size, err := kernel.ParseCylinderSize(dto.Size)
	if err != nil {
		return nil, err
	}
	buyerID, err := domainID(dto.BuyerID)
	if err != nil {
		return nil, err
	}
	orderID, err := domainID(dto.OrderID)
	if err != nil {
		return nil, err
	}
	return cylinder.RestoreCylinder(dto.QRCode, size, cylinder.Status(dto.Status), buyerID, orderID, dto.UpdatedAt)
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// GormCylinderRepository implements ports.CylinderRepository using GORM.
type GormCylinderRepository struct {
	db *gorm.DB
}

func NewGormCylinderRepository(db *gorm.DB) *GormCylinderRepository {
	return &GormCylinderRepository{db: db}
}

func (r *GormCylinderRepository) GetByCodes(ctx context.Context, codes []string) (map[string]*cylinder.Cylinder, error) {
	out := make(map[string]*cylinder.Cylinder, len(codes))
	if len(codes) == 0 {
		return out, nil
	}

	var dtos []CylinderDTO
	if err := r.db.WithContext(ctx).Where("qr_code IN ?", codes).Find(&dtos).Error; err != nil {
		return nil, err
	}
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out[c.QRCode()] = c
	}
	return out, nil
}

func (r *GormCylinderRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*cylinder.Cylinder, error) {
	var dtos []CylinderDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("qr_code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	cylinders := make([]*cylinder.Cylinder, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		cylinders = append(cylinders, c)
	}
	return cylinders, nil
}

func (r *GormCylinderRepository) Save(ctx context.Context, cylinders ...*cylinder.Cylinder) error {
	if len(cylinders) == 0 {
		return nil
	}

	dtos := make([]CylinderDTO, 0, len(cylinders))
	for _, c := range cylinders {
		if err := c.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(c))
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "qr_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"size", "status", "buyer_id", "order_id", "updated_at"}),
	}).Create(&dtos).Error
	return pgerrs.Translate(err, "cylinder", dtos[0].QRCode)
}
