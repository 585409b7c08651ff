package driver_test

import (
	"testing"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T) *driver.Driver {
	t.Helper()
	zone, err := driver.NewCircleZone(loc(t, 24.86, 67.00), 10)
	require.NoError(t, err)
	d, err := driver.NewDriver(kernel.NewUUID(), "Imran", "+92300000000", &zone)
	require.NoError(t, err)
	return d
}

func TestNewDriver(t *testing.T) {
	d := newDriver(t)

	require.NoError(t, d.Validate())
	assert.Equal(t, driver.StatusAvailable, d.Status())
	assert.True(t, d.AutoAssignOrders())
	assert.True(t, d.IsDispatchable())
	assert.True(t, d.Covers(loc(t, 24.87, 67.01)))
	assert.False(t, d.Covers(loc(t, 31.52, 74.35)))
}

func TestNewDriver_Invalid(t *testing.T) {
	_, err := driver.NewDriver(kernel.UUID{}, "", "", nil)

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, driver.ErrNameIsRequired)

	var zero *driver.Driver
	require.ErrorIs(t, zero.Validate(), driver.ErrDriverIsNotConstructed)
}

func TestDriver_IsDispatchable(t *testing.T) {
	noZone, err := driver.NewDriver(kernel.NewUUID(), "Asad", "", nil)
	require.NoError(t, err)
	assert.False(t, noZone.IsDispatchable())
	assert.False(t, noZone.Covers(loc(t, 1, 1)))

	manual := newDriver(t)
	manual.SetAutoAssign(false)
	assert.False(t, manual.IsDispatchable())

	offline := newDriver(t)
	require.NoError(t, offline.GoOffline())
	assert.False(t, offline.IsDispatchable())
	offline.GoOnline()
	assert.True(t, offline.IsDispatchable())
}

func TestDriver_OccupyAndRelease(t *testing.T) {
	d := newDriver(t)
	orderID := kernel.NewUUID()

	require.NoError(t, d.Occupy(orderID))
	assert.Equal(t, driver.StatusBusy, d.Status())
	assert.True(t, d.CurrentOrderID().IsEqual(orderID))
	assert.False(t, d.IsDispatchable())

	require.ErrorIs(t, d.Occupy(kernel.NewUUID()), driver.ErrDriverNotAvailable)
	require.ErrorIs(t, d.GoOffline(), driver.ErrDriverNotAvailable)

	assert.False(t, d.Release(kernel.NewUUID()), "other order does not free the driver")
	assert.True(t, d.Release(orderID))
	assert.Equal(t, driver.StatusAvailable, d.Status())
	assert.Nil(t, d.CurrentOrderID())
	assert.False(t, d.Release(orderID))
}
