package services_test

import (
	"testing"
	"time"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	now        = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	dispatcher = kernel.SystemActor("dispatcher")
)

func loc(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return l
}

func newOrderAt(t *testing.T, point kernel.Location, method ledger.PaymentMethod, qty int) *order.Order {
	t.Helper()
	pricing, err := order.NewPricing(
		decimal.NewFromInt(2950).Mul(decimal.NewFromInt(int64(qty))),
		decimal.NewFromInt(1500).Mul(decimal.NewFromInt(int64(qty))),
		decimal.NewFromInt(250),
		decimal.NewFromInt(100),
		decimal.NewFromInt(200),
	)
	require.NoError(t, err)

	o, err := order.NewOrder(order.NewOrderParams{
		ID:            kernel.NewUUID(),
		BuyerID:       kernel.NewUUID(),
		SellerID:      kernel.NewUUID(),
		WarehouseID:   kernel.NewUUID(),
		OrderType:     kernel.OrderTypeNew,
		CylinderSize:  kernel.Size11_8Kg,
		Quantity:      qty,
		DeliveryPoint: point,
		Pricing:       pricing,
		PaymentMethod: method,
		TransactionID: "TXN-CARD-1",
		Actor:         kernel.Actor{ID: "buyer", Role: kernel.RoleBuyer},
		Now:           now,
	})
	require.NoError(t, err)
	return o
}

func circleDriver(t *testing.T, name string, center kernel.Location, radiusKm float64) *driver.Driver {
	t.Helper()
	zone, err := driver.NewCircleZone(center, radiusKm)
	require.NoError(t, err)
	d, err := driver.NewDriver(kernel.NewUUID(), name, "", &zone)
	require.NoError(t, err)
	return d
}
