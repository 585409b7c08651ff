// Package personrepo reads contact details for the ledger mirror. Users belong to the profile
// service; this package only reads its table. Drivers are found in the local drivers table.
package personrepo

import (
	"context"
	"errors"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/ports"
	"gasdelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserDTO mirrors the columns this service needs from the profile service's users table.
type UserDTO struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name  string    `gorm:"size:128"`
	Phone string    `gorm:"size:32"`
	Role  string    `gorm:"size:16"`
}

func (UserDTO) TableName() string {
	return "users"
}

type driverRow struct {
	ID    uuid.UUID
	Name  string
	Phone string
}

// GormPersonDirectory implements ports.PersonDirectory.
type GormPersonDirectory struct {
	db *gorm.DB
}

func NewGormPersonDirectory(db *gorm.DB) *GormPersonDirectory {
	return &GormPersonDirectory{db: db}
}

func (d *GormPersonDirectory) Find(ctx context.Context, id kernel.UUID) (ports.Person, error) {
	if err := id.Validate(); err != nil {
		return ports.Person{}, err
	}
	db := d.db.WithContext(ctx)

	var user UserDTO
	err := db.First(&user, "id = ?", id.Bytes()).Error
	if err == nil {
		return ports.Person{ID: id, Name: user.Name, Phone: user.Phone, Type: kernel.Role(user.Role)}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Person{}, err
	}

	var row driverRow
	err = db.Table("drivers").Select("id, name, phone").Where("id = ?", id.Bytes()).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.Person{}, errs.NewObjectNotFoundError("person", id.String())
	}
	if err != nil {
		return ports.Person{}, err
	}
	return ports.Person{ID: id, Name: row.Name, Phone: row.Phone, Type: kernel.RoleDriver}, nil
}
