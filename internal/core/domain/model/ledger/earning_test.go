package ledger_test

import (
	"testing"
	"time"

	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/core/domain/model/ledger"
	"gasdelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverEarning(t *testing.T) {
	driverID := kernel.NewUUID()
	fee := mustEntry(t, ledger.TypePickupFee, ledger.CausePickupCharges, 250)

	earning, err := ledger.NewDriverEarning(driverID, fee, now)
	require.NoError(t, err)
	assert.Equal(t, ledger.EarningPending, earning.Status())
	assert.True(t, earning.DriverID().IsEqual(driverID))
	assert.True(t, earning.TimelineID().IsEqual(fee.TimelineID()))
	assert.True(t, earning.Amount().Equal(decimal.NewFromInt(250)))

	require.NoError(t, earning.Pay(now.Add(time.Hour)))
	assert.Equal(t, ledger.EarningPaid, earning.Status())
	require.NotNil(t, earning.PaidAt())

	require.ErrorIs(t, earning.Pay(now), ledger.ErrEarningAlreadyPaid)
}

func TestDriverEarning_Invalid(t *testing.T) {
	fee := mustEntry(t, ledger.TypeDeliveryFee, ledger.CauseDeliveryCharges, 350)

	_, err := ledger.NewDriverEarning(kernel.UUID{}, fee, now)
	require.Error(t, err)

	_, err = ledger.NewDriverEarning(kernel.NewUUID(), nil, now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	sale := mustEntry(t, ledger.TypeSale, ledger.CauseGasAndAddons, 4000)
	_, err = ledger.NewDriverEarning(kernel.NewUUID(), sale, now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = ledger.RestoreDriverEarning(kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{}, decimal.NewFromInt(1), ledger.EarningPending, now, nil)
	require.Error(t, err, "unlinked earning")

	_, err = ledger.RestoreDriverEarning(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), decimal.NewFromInt(-1), ledger.EarningPending, now, nil)
	require.Error(t, err)

	_, err = ledger.RestoreDriverEarning(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), decimal.Zero, "void", now, nil)
	require.Error(t, err)
}
