package services

import (
	"fmt"

	"gasdelivery/internal/core/domain/model/inventory"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Tariff is the configured delivery pricing.
type Tariff struct {
	DeliveryCharge     decimal.Decimal
	UrgentFee          decimal.Decimal
	DepositPerCylinder decimal.Decimal
}

// PriceCalculator quotes orders against a warehouse's stock prices.
type PriceCalculator struct {
	tariff Tariff
}

func NewPriceCalculator(tariff Tariff) PriceCalculator {
	return PriceCalculator{tariff: tariff}
}

// Quote prices qty cylinders of size from inv. Supplier changes keep the buyer's existing
// cylinders, so they carry no deposit.
func (c PriceCalculator) Quote(
	inv *inventory.Inventory,
	size kernel.CylinderSize,
	qty int,
	orderType kernel.OrderType,
	addOnsTotal decimal.Decimal,
	urgent bool,
) (order.Pricing, error) {
	if qty <= 0 {
		return order.Pricing{}, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", qty))
	}

	unit, err := inv.UnitPrice(size)
	if err != nil {
		return order.Pricing{}, err
	}

	count := decimal.NewFromInt(int64(qty))
	deposit := decimal.Zero
	if orderType == kernel.OrderTypeNew {
		deposit = c.tariff.DepositPerCylinder.Mul(count)
	}
	urgentFee := decimal.Zero
	if urgent {
		urgentFee = c.tariff.UrgentFee
	}

	return order.NewPricing(unit.Mul(count), deposit, c.tariff.DeliveryCharge, urgentFee, addOnsTotal)
}

// RefillUnitPrice is the price of refilling one cylinder of the order's size.
func (c PriceCalculator) RefillUnitPrice(inv *inventory.Inventory, size kernel.CylinderSize) (decimal.Decimal, error) {
	return inv.UnitPrice(size)
}
