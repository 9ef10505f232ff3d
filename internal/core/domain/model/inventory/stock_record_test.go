package inventory_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/inventory"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, stock, reserved int) *inventory.StockRecord {
	t.Helper()
	r, err := inventory.NewStockRecord(kernel.NewUUID(), kernel.NewUUID(), stock, reserved)
	require.NoError(t, err)
	return r
}

func TestNewStockRecord_Validation(t *testing.T) {
	_, err := inventory.NewStockRecord(kernel.NewUUID(), kernel.NewUUID(), -1, 0)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = inventory.NewStockRecord(kernel.NewUUID(), kernel.NewUUID(), 3, 4)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = inventory.NewStockRecord(kernel.UUID{}, kernel.NewUUID(), 3, 0)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestStockRecord_Reserve(t *testing.T) {
	r := mustRecord(t, 10, 2)

	require.NoError(t, r.Reserve(5))
	assert.Equal(t, 7, r.Reserved())
	assert.Equal(t, 3, r.Available())

	err := r.Reserve(4)
	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, r.ProductID().String(), stockErr.ProductID)
	assert.Equal(t, 7, r.Reserved())

	require.NoError(t, r.Reserve(3))
	assert.Zero(t, r.Available())
}

func TestStockRecord_RejectsNonPositiveQuantity(t *testing.T) {
	r := mustRecord(t, 10, 2)

	require.ErrorIs(t, r.Reserve(0), errs.ErrValueIsInvalid)
	require.ErrorIs(t, r.Deduct(-1), errs.ErrValueIsInvalid)
	require.ErrorIs(t, r.Release(0), errs.ErrValueIsInvalid)
	assert.Equal(t, 10, r.Stock())
	assert.Equal(t, 2, r.Reserved())
}

func TestStockRecord_Deduct(t *testing.T) {
	r := mustRecord(t, 10, 7)

	require.NoError(t, r.Deduct(5))
	assert.Equal(t, 5, r.Stock())
	assert.Equal(t, 2, r.Reserved())

	require.NoError(t, r.Deduct(9))
	assert.Zero(t, r.Stock())
	assert.Zero(t, r.Reserved())
}

func TestStockRecord_Release(t *testing.T) {
	r := mustRecord(t, 10, 4)

	require.NoError(t, r.Release(3))
	assert.Equal(t, 1, r.Reserved())
	assert.Equal(t, 10, r.Stock())

	require.NoError(t, r.Release(3))
	assert.Zero(t, r.Reserved())
}

func TestStockRecord_InvariantHoldsForAnySequence(t *testing.T) {
	r := mustRecord(t, 20, 0)
	ops := []struct {
		op  string
		qty int
	}{
		{"reserve", 8}, {"reserve", 15}, {"deduct", 3}, {"release", 10},
		{"reserve", 12}, {"deduct", 30}, {"reserve", 1}, {"release", 1},
	}

	for _, step := range ops {
		switch step.op {
		case "reserve":
			_ = r.Reserve(step.qty)
		case "deduct":
			_ = r.Deduct(step.qty)
		case "release":
			_ = r.Release(step.qty)
		}
		assert.GreaterOrEqual(t, r.Reserved(), 0)
		assert.LessOrEqual(t, r.Reserved(), r.Stock())
	}
}

func TestMissingRowPolicy_String(t *testing.T) {
	assert.Equal(t, "allow", inventory.AllowUnconstrained.String())
	assert.Equal(t, "reject", inventory.RejectMissing.String())
}
