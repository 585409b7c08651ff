package inventory

import (
	"errors"
	"fmt"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"
	"gasdelivery/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientStock is returned by Reserve when the slot holds fewer cylinders than asked.
	ErrInsufficientStock = errors.New("insufficient stock")

	ErrInventoryIsNotConstructed = errors.New("Inventory must be created via NewInventory constructor")
)

// InsufficientStockError carries the numbers behind ErrInsufficientStock.
type InsufficientStockError struct {
	Size      kernel.CylinderSize
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: %d x %s requested, %d available", ErrInsufficientStock, e.Requested, e.Size, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// Inventory is the stock row of one warehouse.
type Inventory struct {
	id              kernel.UUID
	sellerID        kernel.UUID
	pricePerKg      decimal.Decimal
	cylinders       Cylinders
	issuedCylinders int
	totalInventory  int
	guard           guard.ConstructorGuard
}

func NewInventory(id, sellerID kernel.UUID, pricePerKg decimal.Decimal, cylinders Cylinders) (*Inventory, error) {
	return RestoreInventory(id, sellerID, pricePerKg, cylinders, 0)
}

// RestoreInventory rebuilds a persisted row; totalInventory is recomputed, never trusted.
func RestoreInventory(
	id, sellerID kernel.UUID,
	pricePerKg decimal.Decimal,
	cylinders Cylinders,
	issuedCylinders int,
) (*Inventory, error) {
	inv := &Inventory{
		cylinders: cylinders,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		inv.setID(id),
		inv.setSellerID(sellerID),
		inv.setPricePerKg(pricePerKg),
		inv.setIssued(issuedCylinders),
	); err != nil {
		return nil, err
	}

	inv.totalInventory = inv.cylinders.Total()
	return inv, nil
}

func (i *Inventory) Validate() error {
	if i == nil {
		return ErrInventoryIsNotConstructed
	}
	return i.guard.Validate(ErrInventoryIsNotConstructed)
}

func (i *Inventory) ID() kernel.UUID {
	return i.id
}

func (i *Inventory) SellerID() kernel.UUID {
	return i.sellerID
}

func (i *Inventory) PricePerKg() decimal.Decimal {
	return i.pricePerKg
}

func (i *Inventory) Cylinders() Cylinders {
	return i.cylinders
}

func (i *Inventory) IssuedCylinders() int {
	return i.issuedCylinders
}

func (i *Inventory) TotalInventory() int {
	return i.totalInventory
}

// UnitPrice is the price of one cylinder of size.
func (i *Inventory) UnitPrice(size kernel.CylinderSize) (decimal.Decimal, error) {
	stock, err := i.cylinders.Get(size)
	if err != nil {
		return decimal.Zero, err
	}
	return stock.price, nil
}

// Reserve takes qty cylinders of size out of stock.
func (i *Inventory) Reserve(size kernel.CylinderSize, qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", qty))
	}

	slot, err := i.cylinders.slot(size)
	if err != nil {
		return err
	}

	if slot.quantity < qty {
		return &InsufficientStockError{Size: size, Requested: qty, Available: slot.quantity}
	}

	slot.quantity -= qty
	i.issuedCylinders += qty
	i.totalInventory = i.cylinders.Total()
	return nil
}

// Release puts qty cylinders of size back into stock.
func (i *Inventory) Release(size kernel.CylinderSize, qty int) error {
	if qty <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", qty))
	}

	slot, err := i.cylinders.slot(size)
	if err != nil {
		return err
	}

	slot.quantity += qty
	i.issuedCylinders = max(0, i.issuedCylinders-qty)
	i.totalInventory = i.cylinders.Total()
	return nil
}

// Restock sets the quantity and price of one size, as done by the seller catalogue.
func (i *Inventory) Restock(size kernel.CylinderSize, stock Stock) error {
	slot, err := i.cylinders.slot(size)
	if err != nil {
		return err
	}
	*slot = stock
	i.totalInventory = i.cylinders.Total()
	return nil
}

func (i *Inventory) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.id = id
	return nil
}

func (i *Inventory) setSellerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("sellerId", err)
	}
	i.sellerID = id
	return nil
}

func (i *Inventory) setPricePerKg(price decimal.Decimal) error {
	if price.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("pricePerKg", fmt.Errorf("%s is negative", price))
	}
	i.pricePerKg = price
	return nil
}

func (i *Inventory) setIssued(issued int) error {
	if issued < 0 {
		return errs.NewValueIsOutOfRangeError("issuedCylinders", issued, 0, "unbounded")
	}
	i.issuedCylinders = issued
	return nil
}
