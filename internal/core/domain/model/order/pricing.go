package order

import (
	"errors"
	"fmt"

	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Pricing is the price breakdown of an order. Subtotal and GrandTotal are always derived.
type Pricing struct {
	cylinderPrice     decimal.Decimal
	securityCharges   decimal.Decimal
	deliveryCharges   decimal.Decimal
	urgentDeliveryFee decimal.Decimal
	addOnsTotal       decimal.Decimal
}

func NewPricing(cylinderPrice, securityCharges, deliveryCharges, urgentDeliveryFee, addOnsTotal decimal.Decimal) (Pricing, error) {
	if err := errors.Join(
		nonNegative("cylinderPrice", cylinderPrice),
		nonNegative("securityCharges", securityCharges),
		nonNegative("deliveryCharges", deliveryCharges),
		nonNegative("urgentDeliveryFee", urgentDeliveryFee),
		nonNegative("addOnsTotal", addOnsTotal),
	); err != nil {
		return Pricing{}, err
	}

	return Pricing{
		cylinderPrice:     cylinderPrice,
		securityCharges:   securityCharges,
		deliveryCharges:   deliveryCharges,
		urgentDeliveryFee: urgentDeliveryFee,
		addOnsTotal:       addOnsTotal,
	}, nil
}

func (p Pricing) CylinderPrice() decimal.Decimal {
	return p.cylinderPrice
}

func (p Pricing) SecurityCharges() decimal.Decimal {
	return p.securityCharges
}

func (p Pricing) DeliveryCharges() decimal.Decimal {
	return p.deliveryCharges
}

func (p Pricing) UrgentDeliveryFee() decimal.Decimal {
	return p.urgentDeliveryFee
}

func (p Pricing) AddOnsTotal() decimal.Decimal {
	return p.addOnsTotal
}

// Subtotal is cylinder price plus add-ons.
func (p Pricing) Subtotal() decimal.Decimal {
	return p.cylinderPrice.Add(p.addOnsTotal)
}

// DeliveryTotal is what one delivery leg costs the buyer.
func (p Pricing) DeliveryTotal() decimal.Decimal {
	return p.deliveryCharges.Add(p.urgentDeliveryFee)
}

func (p Pricing) GrandTotal() decimal.Decimal {
	return p.Subtotal().Add(p.securityCharges).Add(p.DeliveryTotal())
}

func nonNegative(name string, v decimal.Decimal) error {
	if v.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is negative", v))
	}
	return nil
}
