package inventory

import (
	"fmt"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Stock is the on-hand quantity and unit price of one cylinder size.
type Stock struct {
	quantity int
	price    decimal.Decimal
}

func NewStock(quantity int, price decimal.Decimal) (Stock, error) {
	if quantity < 0 {
		return Stock{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 0, "unbounded")
	}
	if price.IsNegative() {
		return Stock{}, errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%s is negative", price))
	}
	return Stock{quantity: quantity, price: price}, nil
}

func (s Stock) Quantity() int {
	return s.quantity
}

func (s Stock) Price() decimal.Decimal {
	return s.price
}

// Cylinders holds one Stock per tradable size.
type Cylinders struct {
	kg15   Stock
	kg11_8 Stock
	kg6    Stock
	kg4_5  Stock
}

func NewCylinders(kg15, kg11_8, kg6, kg4_5 Stock) Cylinders {
	return Cylinders{kg15: kg15, kg11_8: kg11_8, kg6: kg6, kg4_5: kg4_5}
}

// Get returns the stock slot for size.
func (c Cylinders) Get(size kernel.CylinderSize) (Stock, error) {
	slot, err := c.slot(size)
	if err != nil {
		return Stock{}, err
	}
	return *slot, nil
}

// Total sums quantities over all sizes.
func (c Cylinders) Total() int {
	return c.kg15.quantity + c.kg11_8.quantity + c.kg6.quantity + c.kg4_5.quantity
}

func (c *Cylinders) slot(size kernel.CylinderSize) (*Stock, error) {
	switch size {
	case kernel.Size15Kg:
		return &c.kg15, nil
	case kernel.Size11_8Kg:
		return &c.kg11_8, nil
	case kernel.Size6Kg:
		return &c.kg6, nil
	case kernel.Size4_5Kg:
		return &c.kg4_5, nil
	default:
		return nil, size.Validate()
	}
}
