package driver_test

import (
	"testing"

	"gasdelivery/internal/core/domain/model/driver"
	"gasdelivery/internal/core/domain/model/kernel"
	"gasdelivery/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(t *testing.T, lat, lng float64) kernel.Location {
	t.Helper()
	l, err := kernel.NewLocation(lat, lng)
	require.NoError(t, err)
	return l
}

func TestCircleZone_Contains(t *testing.T) {
	zone, err := driver.NewCircleZone(loc(t, 24.8607, 67.0011), 5)
	require.NoError(t, err)

	assert.True(t, zone.Contains(loc(t, 24.8607, 67.0011)), "center")
	assert.True(t, zone.Contains(loc(t, 24.88, 67.02)), "about 2.8km away")
	assert.False(t, zone.Contains(loc(t, 24.95, 67.10)), "about 14km away")
	assert.False(t, zone.Contains(kernel.Location{}), "zero point")
}

func TestNewCircleZone_Invalid(t *testing.T) {
	_, err := driver.NewCircleZone(loc(t, 0, 0), 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = driver.NewCircleZone(kernel.Location{}, 3)
	require.Error(t, err)
}

func TestPolygonZone_Contains(t *testing.T) {
	square := []kernel.Location{
		loc(t, 24.80, 66.95),
		loc(t, 24.80, 67.05),
		loc(t, 24.90, 67.05),
		loc(t, 24.90, 66.95),
	}

	t.Run("open ring", func(t *testing.T) {
		zone, err := driver.NewPolygonZone(square)
		require.NoError(t, err)

		assert.True(t, zone.Contains(loc(t, 24.85, 67.00)))
		assert.False(t, zone.Contains(loc(t, 24.95, 67.00)))
		assert.False(t, zone.Contains(loc(t, 24.85, 67.10)))
	})

	t.Run("closed ring drops the repeated vertex", func(t *testing.T) {
		closed := append(append([]kernel.Location{}, square...), square[0])
		zone, err := driver.NewPolygonZone(closed)
		require.NoError(t, err)

		assert.Len(t, zone.Ring(), 4)
		assert.True(t, zone.Contains(loc(t, 24.85, 67.00)))
	})

	t.Run("concave ring", func(t *testing.T) {
		// U shape open to the north
		u := []kernel.Location{
			loc(t, 0, 0), loc(t, 0, 3), loc(t, 3, 3), loc(t, 3, 2),
			loc(t, 1, 2), loc(t, 1, 1), loc(t, 3, 1), loc(t, 3, 0),
		}
		zone, err := driver.NewPolygonZone(u)
		require.NoError(t, err)

		assert.True(t, zone.Contains(loc(t, 0.5, 1.5)), "bottom of the U")
		assert.True(t, zone.Contains(loc(t, 2, 0.5)), "left arm")
		assert.False(t, zone.Contains(loc(t, 2, 1.5)), "inside the notch")
	})

	t.Run("too few vertices", func(t *testing.T) {
		_, err := driver.NewPolygonZone(square[:2])
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestZone_ZeroValue(t *testing.T) {
	var zone driver.Zone
	require.ErrorIs(t, zone.Validate(), driver.ErrZoneIsNotConstructed)
	assert.False(t, zone.Contains(loc(t, 1, 1)))
}
