package inventoryrepo

import (
	"gasdelivery/internal/core/domain/model/inventory"
	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InventoryDTO struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SellerID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	PricePerKg      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Kg15            StockDTO        `gorm:"embedded;embeddedPrefix:kg15_"`
	Kg11_8          StockDTO        `gorm:"embedded;embeddedPrefix:kg11_8_"`
	Kg6             StockDTO        `gorm:"embedded;embeddedPrefix:kg6_"`
	Kg4_5           StockDTO        `gorm:"embedded;embeddedPrefix:kg4_5_"`
	IssuedCylinders int             `gorm:"not null;default:0"`
	TotalInventory  int             `gorm:"not null;default:0"`
}

func (InventoryDTO) TableName() string {
	return "inventories"
}

type StockDTO struct {
	Quantity int             `gorm:"not null;default:0"`
	Price    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func fromDomain(inv *inventory.Inventory) InventoryDTO {
	stock := func(size kernel.CylinderSize) StockDTO {
		s, _ := inv.Cylinders().Get(size)
		return StockDTO{Quantity: s.Quantity(), Price: s.Price()}
	}
	return InventoryDTO{
		ID:              inv.ID().Bytes(),
		SellerID:        inv.SellerID().Bytes(),
		PricePerKg:      inv.PricePerKg(),
		Kg15:            stock(kernel.Size15Kg),
		Kg11_8:          stock(kernel.Size11_8Kg),
		Kg6:             stock(kernel.Size6Kg),
		Kg4_5:           stock(kernel.Size4_5Kg),
		IssuedCylinders: inv.IssuedCylinders(),
		TotalInventory:  inv.TotalInventory(),
	}
}

func toDomain(dto InventoryDTO) (*inventory.Inventory, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	sellerID, err := kernel.UUIDFromBytes(dto.SellerID[:])
	if err != nil {
		return nil, err
	}

	stocks := make([]inventory.Stock, 0, 4)
	for _, s := range []StockDTO{dto.Kg15, dto.Kg11_8, dto.Kg6, dto.Kg4_5} {
		stock, err := inventory.NewStock(s.Quantity, s.Price)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	return inventory.RestoreInventory(
		id,
		sellerID,
		dto.PricePerKg,
		inventory.NewCylinders(stocks[0], stocks[1], stocks[2], stocks[3]),
		dto.IssuedCylinders,
	)
}
