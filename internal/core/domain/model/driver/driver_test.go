package driver_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDriver(t *testing.T) {
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "  Bobur ")
	require.NoError(t, err)
	require.NoError(t, d.Validate())

	assert.Equal(t, "Bobur", d.Name())
	assert.False(t, d.IsAvailable())
	assert.Nil(t, d.Position())
}

func TestNewDriver_Validation(t *testing.T) {
	_, err := driver.NewDriver(kernel.UUID{}, kernel.UUID{}, "")
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "branchId")
}

func TestDriver_MoveTo(t *testing.T) {
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Bobur")
	require.NoError(t, err)

	p, err := kernel.NewGeoPoint(41.3, 69.2)
	require.NoError(t, err)
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.FixedZone("UZT", 5*3600))

	require.NoError(t, d.MoveTo(p, at))
	require.NotNil(t, d.Position())
	assert.InDelta(t, 41.3, d.Position().Lat(), 1e-9)
	assert.Equal(t, time.UTC, d.PositionAt().Location())

	require.Error(t, d.MoveTo(kernel.GeoPoint{}, at))
}

func TestRestoreDriver(t *testing.T) {
	p, err := kernel.NewGeoPoint(1, 2)
	require.NoError(t, err)
	at := time.Now()

	d, err := driver.RestoreDriver(kernel.NewUUID(), kernel.NewUUID(), "Bobur", true, &p, &at)
	require.NoError(t, err)
	assert.True(t, d.IsAvailable())

	var zero kernel.GeoPoint
	_, err = driver.RestoreDriver(kernel.NewUUID(), kernel.NewUUID(), "Bobur", true, &zero, &at)
	require.Error(t, err)
}

func TestDriver_ZeroValue(t *testing.T) {
	var d *driver.Driver
	require.ErrorIs(t, d.Validate(), driver.ErrDriverIsNotConstructed)
	require.ErrorIs(t, (&driver.Driver{}).Validate(), driver.ErrDriverIsNotConstructed)
}
