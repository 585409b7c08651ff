package services_test

import (
	"testing"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/core/domain/model/order"
	"gasdelivery/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDispatcher_Dispatch(t *testing.T) {
	point := loc(t, 24.86, 67.00)

	t.Run("first covering driver wins", func(t *testing.T) {
		o := newOrderAt(t, point, ledger.PaymentCash, 1)
		far := circleDriver(t, "far", loc(t, 31.52, 74.35), 20)
		first := circleDriver(t, "first", loc(t, 24.90, 67.05), 15)
		closer := circleDriver(t, "closer", point, 2)

		got, err := services.NewOrderDispatcher().Dispatch(o, []*driver.Driver{far, first, closer}, dispatcher, now)

		require.NoError(t, err)
		assert.True(t, got.IsEqual(first), "no load balancing or distance ranking")
		assert.Equal(t, order.Assigned, o.Status())
		assert.True(t, o.DriverID().IsEqual(first.ID()))
		assert.Equal(t, driver.StatusBusy, first.Status())
		assert.Equal(t, driver.StatusAvailable, closer.Status())
	})

	t.Run("busy, manual and zoneless drivers are skipped", func(t *testing.T) {
		o := newOrderAt(t, point, ledger.PaymentCash, 1)
		busy := circleDriver(t, "busy", point, 5)
		require.NoError(t, busy.Occupy(kernel.NewUUID()))
		manual := circleDriver(t, "manual", point, 5)
		manual.SetAutoAssign(false)
		zoneless, _ := driver.NewDriver(kernel.NewUUID(), "zoneless", "", nil)
		free := circleDriver(t, "free", point, 5)

		got, err := services.NewOrderDispatcher().Dispatch(o, []*driver.Driver{busy, manual, zoneless, free}, dispatcher, now)

		require.NoError(t, err)
		assert.True(t, got.IsEqual(free))
	})

	t.Run("no match leaves the order unassigned", func(t *testing.T) {
		o := newOrderAt(t, point, ledger.PaymentCash, 1)
		far := circleDriver(t, "far", loc(t, 31.52, 74.35), 20)

		got, err := services.NewOrderDispatcher().Dispatch(o, []*driver.Driver{far}, dispatcher, now)

		require.ErrorIs(t, err, services.ErrDriverUnavailable)
		assert.Nil(t, got)
		assert.Equal(t, order.Pending, o.Status())
		assert.Nil(t, o.DriverID())
	})

	t.Run("order that needs no driver", func(t *testing.T) {
		o := newOrderAt(t, point, ledger.PaymentCash, 1)
		d := circleDriver(t, "d", point, 5)
		require.NoError(t, o.Assign(kernel.NewUUID(), dispatcher, now))

		_, err := services.NewOrderDispatcher().Dispatch(o, []*driver.Driver{d}, dispatcher, now)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, driver.StatusAvailable, d.Status())
	})

	t.Run("invalid driver in list", func(t *testing.T) {
		o := newOrderAt(t, point, ledger.PaymentCash, 1)
		_, err := services.NewOrderDispatcher().Dispatch(o, []*driver.Driver{nil}, dispatcher, now)
		require.ErrorIs(t, err, driver.ErrDriverIsNotConstructed)
	})
}

func TestBind_ManualAssignment(t *testing.T) {
	point := loc(t, 24.86, 67.00)

	t.Run("busy driver is rejected", func(t *testing.T) {
		o := newOrderAt(t, point, ledger.PaymentCash, 1)
		d := circleDriver(t, "d", point, 5)
		require.NoError(t, d.Occupy(kernel.NewUUID()))

		require.ErrorIs(t, services.Bind(o, d, dispatcher, now), driver.ErrDriverNotAvailable)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("driver outside any zone can still be assigned by hand", func(t *testing.T) {
		o := newOrderAt(t, point, ledger.PaymentCash, 1)
		d, _ := driver.NewDriver(kernel.NewUUID(), "walk-in", "", nil)

		require.NoError(t, services.Bind(o, d, kernel.Actor{ID: "admin", Role: kernel.RoleAdmin}, now))
		assert.Equal(t, order.Assigned, o.Status())
	})
}
