package order_test

import (
	"testing"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now    = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	buyer  = kernel.Actor{ID: "buyer-1", Role: kernel.RoleBuyer}
	driver = kernel.Actor{ID: "driver-1", Role: kernel.RoleDriver}
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func newPricing(t *testing.T) order.Pricing {
	t.Helper()
	p, err := order.NewPricing(d(3500), d(1500), d(250), d(100), d(500))
	require.NoError(t, err)
	return p
}

func newOrder(t *testing.T, qty int) *order.Order {
	t.Helper()
	point, err := kernel.NewLocation(24.86, 67.00)
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
		Pricing:       newPricing(t),
		PaymentMethod: ledger.PaymentCash,
		Actor:         buyer,
		Now:           now,
	})
	require.NoError(t, err)
	return o
}

// deliveredOrder walks a new order through the full delivery leg.
func deliveredOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newOrder(t, 2)
	driverID := kernel.NewUUID()
	require.NoError(t, o.Assign(driverID, driver, now))
	require.NoError(t, o.Accept(driverID, []string{"CYL-1", "CYL-2"}, driver, now))
	code, err := o.GenerateQR(driver, now)
	require.NoError(t, err)
	require.NoError(t, o.ScanQR(order.QRGenerated, code, driver, now))
	require.NoError(t, o.ScanQR(order.InTransit, code, driver, now))
	require.Equal(t, order.Delivered, o.Status())
	return o
}

func TestPricing_GrandTotalIsDerived(t *testing.T) {
	p := newPricing(t)

	assert.True(t, p.Subtotal().Equal(d(4000)))
	assert.True(t, p.DeliveryTotal().Equal(d(350)))
	assert.True(t, p.GrandTotal().Equal(
		p.Subtotal().Add(p.SecurityCharges()).Add(p.DeliveryCharges()).Add(p.UrgentDeliveryFee())))
	assert.True(t, p.GrandTotal().Equal(d(5850)))

	_, err := order.NewPricing(d(-1), d(0), d(0), d(0), d(0))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewOrder(t *testing.T) {
	o := newOrder(t, 2)

	require.NoError(t, o.Validate())
	assert.Equal(t, order.Pending, o.Status())
	assert.Equal(t, 1, o.Version())
	assert.Nil(t, o.DriverID())
	require.Len(t, o.StatusHistory(), 1)
	assert.Equal(t, buyer, o.StatusHistory()[0].Actor)
}

func TestNewOrder_Invalid(t *testing.T) {
	_, err := order.NewOrder(order.NewOrderParams{OrderType: kernel.OrderTypeRefill})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = order.NewOrder(order.NewOrderParams{OrderType: kernel.OrderTypeNew, Quantity: 0})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)

	var zero *order.Order
	require.ErrorIs(t, zero.Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_Assign(t *testing.T) {
	o := newOrder(t, 1)
	fee, _ := ledger.NewEntry(ledger.TypeDeliveryFee, ledger.CauseDeliveryCharges, d(350), ledger.LiabilityLiability, ledger.PaymentCash, now)
	require.NoError(t, o.AppendEntry(fee))
	driverID := kernel.NewUUID()

	require.NoError(t, o.Assign(driverID, kernel.SystemActor("dispatcher"), now))

	assert.Equal(t, order.Assigned, o.Status())
	assert.True(t, o.DriverID().IsEqual(driverID))
	assert.NotEmpty(t, o.QRCode())
	require.Len(t, o.DriverEarnings(), 1)
	assert.True(t, o.DriverEarnings()[0].Amount().Equal(d(350)))
	assert.True(t, o.DriverEarnings()[0].TimelineID().IsEqual(fee.TimelineID()))
	assert.True(t, fee.DriverID().IsEqual(driverID))
	assert.Len(t, o.StatusHistory(), 2)

	err := o.Assign(kernel.NewUUID(), kernel.SystemActor("dispatcher"), now)
	require.ErrorIs(t, err, order.ErrInvalidTransition)
	assert.True(t, o.DriverID().IsEqual(driverID), "losing assignment leaves order untouched")
	assert.Len(t, o.StatusHistory(), 2)
}

func TestOrder_Accept(t *testing.T) {
	t.Run("assigned driver with matching codes", func(t *testing.T) {
		o := newOrder(t, 2)
		driverID := kernel.NewUUID()
		require.NoError(t, o.Assign(driverID, driver, now))

		require.NoError(t, o.Accept(driverID, []string{"A", "B"}, driver, now))

		assert.Equal(t, order.Accepted, o.Status())
		assert.Equal(t, []string{"A", "B"}, o.CylinderCodes())
	})

	t.Run("other driver", func(t *testing.T) {
		o := newOrder(t, 1)
		require.NoError(t, o.Assign(kernel.NewUUID(), driver, now))

		require.ErrorIs(t, o.Accept(kernel.NewUUID(), []string{"A"}, driver, now), order.ErrDriverMismatch)
		assert.Equal(t, order.Assigned, o.Status())
	})

	t.Run("wrong code count or duplicates", func(t *testing.T) {
		o := newOrder(t, 2)
		driverID := kernel.NewUUID()
		require.NoError(t, o.Assign(driverID, driver, now))

		require.ErrorIs(t, o.Accept(driverID, []string{"A"}, driver, now), order.ErrCylinderCodesInvalid)
		require.ErrorIs(t, o.Accept(driverID, []string{"A", "A"}, driver, now), order.ErrCylinderCodesInvalid)
		require.ErrorIs(t, o.Accept(driverID, []string{"A", ""}, driver, now), order.ErrCylinderCodesInvalid)
		assert.Equal(t, order.Assigned, o.Status())
	})
}

func TestOrder_QRHandoff(t *testing.T) {
	o := newOrder(t, 1)
	driverID := kernel.NewUUID()
	require.NoError(t, o.Assign(driverID, driver, now))
	require.NoError(t, o.Accept(driverID, []string{"A"}, driver, now))
	code, err := o.GenerateQR(driver, now)
	require.NoError(t, err)
	assert.Equal(t, code, o.QRCode())

	t.Run("mismatch changes nothing", func(t *testing.T) {
		historyLen := len(o.StatusHistory())
		require.ErrorIs(t, o.ScanQR(order.QRGenerated, "forged", driver, now), order.ErrQRMismatch)
		assert.Equal(t, order.QRGenerated, o.Status())
		assert.Len(t, o.StatusHistory(), historyLen)
	})

	require.NoError(t, o.ScanQR(order.QRGenerated, code, driver, now))
	assert.Equal(t, order.InTransit, o.Status())

	t.Run("duplicate pickup scan is rejected by the guard", func(t *testing.T) {
		err := o.ScanQR(order.QRGenerated, code, driver, now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.InTransit, o.Status())
	})

	require.NoError(t, o.ScanQR(order.InTransit, code, driver, now))
	assert.Equal(t, order.Delivered, o.Status())
	assert.Empty(t, o.QRCode())

	t.Run("consumed token cannot repeat a transition", func(t *testing.T) {
		err := o.ScanQR(order.Delivered, code, driver, now)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Delivered, o.Status())
	})

	statuses := make([]order.Status, 0)
	for _, h := range o.StatusHistory() {
		statuses = append(statuses, h.Status)
	}
	assert.Equal(t, []order.Status{
		order.Pending, order.Assigned, order.Accepted, order.QRGenerated, order.InTransit, order.Delivered,
	}, statuses)
}

func TestOrder_RefillFlow(t *testing.T) {
	o := deliveredOrder(t)

	require.NoError(t, o.RequestRefill(buyer, now))
	assert.Equal(t, order.RefillRequested, o.Status())
	assert.Equal(t, kernel.OrderTypeRefill, o.OrderType())
	assert.Nil(t, o.DriverID())
	token := o.QRCode()
	require.NotEmpty(t, token)

	pickupDriver := kernel.NewUUID()
	require.NoError(t, o.Assign(pickupDriver, driver, now))
	assert.Equal(t, order.RefillPickup, o.Status())
	assert.Equal(t, token, o.QRCode(), "pickup leg keeps the buyer's token")

	require.NoError(t, o.ScanQR(order.RefillPickup, token, driver, now))
	assert.Equal(t, order.InTransit, o.Status())

	require.NoError(t, o.ScanQR(order.InTransit, token, driver, now))
	assert.Equal(t, order.RefillInStore, o.Status())
	assert.Equal(t, kernel.OrderTypeNew, o.OrderType())

	err := o.ScanQR(order.InTransit, token, driver, now)
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	err = o.ScanQR(order.RefillInStore, token, driver, now)
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	require.NoError(t, o.Assign(kernel.NewUUID(), driver, now))
	assert.Equal(t, order.Assigned, o.Status())
	assert.NotEmpty(t, o.QRCode())
	assert.NotEqual(t, token, o.QRCode())
}

func TestOrder_RequestRefill_OnlyForNewOrders(t *testing.T) {
	o := deliveredOrder(t)
	require.NoError(t, o.RequestReturn(5, "great", buyer, now))

	require.ErrorIs(t, o.RequestRefill(buyer, now), order.ErrInvalidTransition)
}

func TestOrder_ReturnFlow(t *testing.T) {
	o := deliveredOrder(t)

	err := o.RequestReturn(6, "", buyer, now)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	assert.Equal(t, order.Delivered, o.Status())

	require.NoError(t, o.RequestReturn(4, "on time", buyer, now))
	assert.Equal(t, order.ReturnRequested, o.Status())
	assert.Equal(t, kernel.OrderTypeReturn, o.OrderType())
	assert.Equal(t, 4, o.Rating())
	assert.Equal(t, "on time", o.Review())

	token := o.QRCode()
	require.NoError(t, o.Assign(kernel.NewUUID(), driver, now))
	assert.Equal(t, order.ReturnPickup, o.Status())
	assert.Equal(t, token, o.QRCode(), "pickup leg keeps the buyer's token")
	assert.Empty(t, o.DriverEarnings(), "return pickup carries no fee")

	require.NoError(t, o.ScanQR(order.ReturnPickup, token, driver, now))
	require.NoError(t, o.ScanQR(order.InTransit, token, driver, now))

	assert.Equal(t, order.Completed, o.Status())
	assert.Equal(t, kernel.OrderTypeRefill, o.OrderType())
}

func TestOrder_MarkReturned(t *testing.T) {
	o := deliveredOrder(t)
	require.NoError(t, o.RequestReturn(3, "", buyer, now))

	admin := kernel.Actor{ID: "admin-1", Role: kernel.RoleAdmin}
	require.NoError(t, o.MarkReturned(admin, now))
	assert.Equal(t, order.Returned, o.Status())
	assert.Empty(t, o.QRCode())

	require.ErrorIs(t, o.MarkReturned(admin, now), order.ErrInvalidTransition)
}

func TestOrder_CompleteAndCancel(t *testing.T) {
	o := deliveredOrder(t)
	seller := kernel.Actor{ID: "seller-1", Role: kernel.RoleSeller}

	require.NoError(t, o.Complete(seller, now))
	assert.Equal(t, order.Completed, o.Status())
	require.ErrorIs(t, o.Cancel("", buyer, now), order.ErrInvalidTransition)

	pending := newOrder(t, 1)
	require.NoError(t, pending.Cancel("changed my mind", buyer, now))
	assert.Equal(t, order.Cancelled, pending.Status())
	history := pending.StatusHistory()
	assert.Equal(t, "changed my mind", history[len(history)-1].Note)
}

func TestOrder_ClearPayment(t *testing.T) {
	o := newOrder(t, 1)
	sale, _ := ledger.NewEntry(ledger.TypeSale, ledger.CauseGasAndAddons, d(4000), ledger.LiabilityRevenue, ledger.PaymentCash, now)
	fee, _ := ledger.NewEntry(ledger.TypeDeliveryFee, ledger.CauseDeliveryCharges, d(350), ledger.LiabilityLiability, ledger.PaymentCash, now)
	require.NoError(t, o.AppendEntry(sale))
	require.NoError(t, o.AppendEntry(fee))
	require.NoError(t, o.Assign(kernel.NewUUID(), driver, now))

	t.Run("sale clears without touching earnings", func(t *testing.T) {
		entry, err := o.ClearPayment(sale.TimelineID(), "TXN1", "", "admin-1", now)
		require.NoError(t, err)
		assert.Equal(t, ledger.StatusCompleted, entry.Status())
		require.NotNil(t, entry.ProcessedAt())
		assert.Equal(t, ledger.EarningPending, o.DriverEarnings()[0].Status())
	})

	t.Run("delivery fee pays the driver", func(t *testing.T) {
		_, err := o.ClearPayment(fee.TimelineID(), "TXN2", "", "admin-1", now)
		require.NoError(t, err)
		assert.Equal(t, ledger.EarningPaid, o.DriverEarnings()[0].Status())
	})

	t.Run("already cleared", func(t *testing.T) {
		_, err := o.ClearPayment(sale.TimelineID(), "TXN3", "", "admin-2", now)
		require.ErrorIs(t, err, ledger.ErrAlreadyCleared)
		assert.Equal(t, "TXN1", sale.ReferenceID())
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, err := o.ClearPayment(kernel.NewUUID(), "", "", "admin-1", now)
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	require.Error(t, o.AppendEntry(sale), "same timeline id twice")
}

func appendEntry(t *testing.T, o *order.Order, typ ledger.EntryType, cause string, amount int64, method ledger.PaymentMethod) *ledger.Entry {
	t.Helper()
	liability := ledger.LiabilityLiability
	if typ == ledger.TypeSale {
		liability = ledger.LiabilityRevenue
	}
	e, err := ledger.NewEntry(typ, cause, d(amount), liability, method, now)
	require.NoError(t, err)
	require.NoError(t, o.AppendEntry(e))
	return e
}

// deliver walks an order with a pending delivery leg to delivered.
func deliver(t *testing.T, o *order.Order, driverID kernel.UUID) {
	t.Helper()
	require.NoError(t, o.Assign(driverID, driver, now))
	require.NoError(t, o.Accept(driverID, []string{"CYL-1", "CYL-2"}, driver, now))
	code, err := o.GenerateQR(driver, now)
	require.NoError(t, err)
	require.NoError(t, o.ScanQR(order.QRGenerated, code, driver, now))
	require.NoError(t, o.ScanQR(order.InTransit, code, driver, now))
	require.Equal(t, order.Delivered, o.Status())
}

func TestOrder_EarningPaidOnDeliveryWhenFeeCollectedAtCheckout(t *testing.T) {
	o := newOrder(t, 2)
	fee := appendEntry(t, o, ledger.TypeDeliveryFee, ledger.CauseDeliveryCharges, 350, ledger.PaymentCard)
	require.NoError(t, fee.Clear("TXN-CARD", "", ledger.ProcessedByGateway, now))

	driverID := kernel.NewUUID()
	require.NoError(t, o.Assign(driverID, driver, now))
	require.Len(t, o.DriverEarnings(), 1)
	earning := o.DriverEarnings()[0]
	assert.True(t, earning.TimelineID().IsEqual(fee.TimelineID()))
	assert.Equal(t, ledger.EarningPending, earning.Status(), "unpaid until the leg is done")

	_, err := o.ClearPayment(fee.TimelineID(), "TXN-AGAIN", "", "admin-1", now)
	require.ErrorIs(t, err, ledger.ErrAlreadyCleared)

	require.NoError(t, o.Accept(driverID, []string{"CYL-1", "CYL-2"}, driver, now))
	code, err := o.GenerateQR(driver, now)
	require.NoError(t, err)
	require.NoError(t, o.ScanQR(order.QRGenerated, code, driver, now))
	assert.Equal(t, ledger.EarningPending, o.DriverEarnings()[0].Status())

	require.NoError(t, o.ScanQR(order.InTransit, code, driver, now))
	assert.Equal(t, ledger.EarningPaid, o.DriverEarnings()[0].Status())
	require.NotNil(t, o.DriverEarnings()[0].PaidAt())
}

func TestOrder_RefillLegEarningFollowsPickupFee(t *testing.T) {
	o := newOrder(t, 2)
	deliveryFee := appendEntry(t, o, ledger.TypeDeliveryFee, ledger.CauseDeliveryCharges, 350, ledger.PaymentCash)
	deliver(t, o, kernel.NewUUID())
	require.Len(t, o.DriverEarnings(), 1)
	assert.Equal(t, ledger.EarningPending, o.DriverEarnings()[0].Status(), "cash fee not collected yet")

	require.NoError(t, o.RequestRefill(buyer, now))
	appendEntry(t, o, ledger.TypeSale, ledger.CauseRefill, 2000, ledger.PaymentCash)
	pickupFee := appendEntry(t, o, ledger.TypePickupFee, ledger.CausePickupCharges, 250, ledger.PaymentCash)

	pickupDriver := kernel.NewUUID()
	require.NoError(t, o.Assign(pickupDriver, driver, now))
	earnings := o.DriverEarnings()
	require.Len(t, earnings, 2)
	assert.True(t, earnings[1].Amount().Equal(d(250)))
	assert.True(t, earnings[1].TimelineID().IsEqual(pickupFee.TimelineID()))
	assert.True(t, earnings[1].DriverID().IsEqual(pickupDriver))
	assert.True(t, pickupFee.DriverID().IsEqual(pickupDriver))

	_, err := o.ClearPayment(pickupFee.TimelineID(), "CASH-2", "", "admin-1", now)
	require.NoError(t, err)
	earnings = o.DriverEarnings()
	assert.Equal(t, ledger.EarningPending, earnings[0].Status(), "delivery fee still open")
	assert.Equal(t, ledger.EarningPaid, earnings[1].Status())

	_, err = o.ClearPayment(deliveryFee.TimelineID(), "CASH-1", "", "admin-1", now)
	require.NoError(t, err)
	assert.Equal(t, ledger.EarningPaid, o.DriverEarnings()[0].Status())

	token := o.QRCode()
	require.NoError(t, o.ScanQR(order.RefillPickup, token, driver, now))
	require.NoError(t, o.ScanQR(order.InTransit, token, driver, now))
	require.Equal(t, order.RefillInStore, o.Status())

	require.NoError(t, o.Assign(kernel.NewUUID(), driver, now))
	assert.Len(t, o.DriverEarnings(), 2, "return trip of refilled cylinders has no fee entry")
}

func TestOrder_ReportableTimeline(t *testing.T) {
	o := deliveredOrder(t)
	sale, _ := ledger.NewEntry(ledger.TypeSale, ledger.CauseGasAndAddons, d(4000), ledger.LiabilityRevenue, ledger.PaymentCash, now)
	deposit, _ := ledger.NewEntry(ledger.TypeOther, ledger.CauseSecurityDeposits, d(1500), ledger.LiabilityLiability, ledger.PaymentCash, now)
	require.NoError(t, o.AppendEntry(sale))
	require.NoError(t, o.AppendEntry(deposit))

	assert.Len(t, o.ReportableTimeline(), 1)

	require.NoError(t, o.RequestReturn(5, "", buyer, now))
	assert.Len(t, o.ReportableTimeline(), 2)
	assert.Len(t, o.PaymentTimeline(), 2)
}
