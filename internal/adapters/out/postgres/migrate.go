package postgres

import (
	"gasdelivery/internal/adapters/out/postgres/cylinderrepo"
	"gasdelivery/internal/adapters/out/postgres/driverrepo"
	"gasdelivery/internal/adapters/out/postgres/inventoryrepo"
	"gasdelivery/internal/adapters/out/postgres/orderrepo"
	"gasdelivery/internal/adapters/out/postgres/personrepo"

	"gorm.io/gorm"
)

// Migrate creates or alters every table the service owns. The users table belongs to the profile
// service and is only created when includeUsers is set, as in tests and local setups.
func Migrate(db *gorm.DB, includeUsers bool) error {
	models := append([]any{
		&inventoryrepo.InventoryDTO{},
		&driverrepo.DriverDTO{},
		&cylinderrepo.CylinderDTO{},
	}, orderrepo.Models()...)
	if includeUsers {
		models = append(models, &personrepo.UserDTO{})
	}
	return db.AutoMigrate(models...)
}
