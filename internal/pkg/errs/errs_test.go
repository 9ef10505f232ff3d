package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderCode", "ORD-7KQ2ZP")

		assert.Equal(t, "orderCode", err.ParamName)
		assert.Equal(t, "ORD-7KQ2ZP", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: ORD-7KQ2ZP", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("orders table unavailable")
		err := errs.NewObjectNotFoundErrorWithCause("orderCode", "ORD-7KQ2ZP", cause)

		assert.Equal(t, "orderCode", err.ParamName)
		assert.Equal(t, "ORD-7KQ2ZP", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderCode, ID is: ORD-7KQ2ZP (cause: orders table unavailable)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("slotId", 456)
		assert.Equal(t, "object not found: %!s(int=456)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("paymentMethod")

		assert.Equal(t, "paymentMethod", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: paymentMethod", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("unknown method")
		err := errs.NewValueIsInvalidErrorWithCause("paymentMethod", cause)

		assert.Equal(t, "paymentMethod", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: paymentMethod (cause: unknown method)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("quantity", 150, 1, 99)

		assert.Equal(t, "quantity", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 1, err.Min)
		assert.Equal(t, 99, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 150 is quantity, min value is 1, max value is 99", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := errs.NewValueIsOutOfRangeErrorWithCause("limit", -5, 1, 100, cause)

		assert.Equal(t, "limit", err.ParamName)
		assert.Equal(t, -5, err.Value)
		assert.Equal(t, 1, err.Min)
		assert.Equal(t, 100, err.Max)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"value is invalid: -5 is limit, min value is 1, max value is 100 (cause: validation failed)",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("notes", "leave at\ndoor", 0, 10)
		assert.Contains(t, err.Error(), "leave at door")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("branchId")

		assert.Equal(t, "branchId", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: branchId", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("empty uuid")
		err := errs.NewValueIsRequiredErrorWithCause("branchId", cause)

		assert.Equal(t, "branchId", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: branchId (cause: empty uuid)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsOutOfRange)
		require.Error(t, errs.ErrValueIsRequired)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		objectNotFoundErr := errs.NewObjectNotFoundError("orderCode", "ORD-7KQ2ZP")
		require.ErrorIs(t, objectNotFoundErr, errs.ErrObjectNotFound)

		valueInvalidErr := errs.NewValueIsInvalidError("paymentMethod")
		require.ErrorIs(t, valueInvalidErr, errs.ErrValueIsInvalid)

		valueOutOfRangeErr := errs.NewValueIsOutOfRangeError("quantity", 150, 1, 99)
		require.ErrorIs(t, valueOutOfRangeErr, errs.ErrValueIsOutOfRange)

		valueRequiredErr := errs.NewValueIsRequiredError("branchId")
		require.ErrorIs(t, valueRequiredErr, errs.ErrValueIsRequired)

		stockErr := errs.NewInsufficientStockError("A", 4, 3)
		require.ErrorIs(t, stockErr, errs.ErrInsufficientStock)

		slotErr := errs.NewSlotFullError("slot-1")
		require.ErrorIs(t, slotErr, errs.ErrSlotFull)

		transitionErr := errs.NewInvalidTransitionError("delivered", "pending")
		require.ErrorIs(t, transitionErr, errs.ErrInvalidTransition)
	})
}

func TestBusinessErrors(t *testing.T) {
	t.Run("InsufficientStockError keeps the available quantity", func(t *testing.T) {
		err := errs.NewInsufficientStockError("A", 4, 3)

		var stockErr *errs.InsufficientStockError
		require.ErrorAs(t, fmt.Errorf("reserve: %w", err), &stockErr)
		assert.Equal(t, 3, stockErr.Available)
		assert.Equal(t, 4, stockErr.Requested)
		assert.Equal(t, "insufficient stock: product A, requested 4, available 3", err.Error())
	})

	t.Run("InvalidTransitionError", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("delivered", "pending")
		assert.Equal(t, "invalid status transition: delivered -> pending", err.Error())
	})

	t.Run("SlotFullError", func(t *testing.T) {
		err := errs.NewSlotFullError("slot-1")
		assert.Equal(t, "delivery slot is full: slot-1", err.Error())
	})
}

func TestIsValidation(t *testing.T) {
	assert.True(t, errs.IsValidation(errs.NewValueIsRequiredError("items")))
	assert.True(t, errs.IsValidation(errs.NewValueIsInvalidError("total")))
	assert.True(t, errs.IsValidation(errs.NewValueIsOutOfRangeError("lat", 200, -90, 90)))
	assert.True(t, errs.IsValidation(errors.Join(errs.NewValueIsRequiredError("a"), errors.New("other"))))
	assert.False(t, errs.IsValidation(errs.NewSlotFullError("slot")))
	assert.False(t, errs.IsValidation(errs.ErrObjectNotFound))
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		err  error
		want errs.Code
	}{
		{errs.NewValueIsRequiredError("items"), errs.CodeValidation},
		{errs.NewInsufficientStockError("p1", 4, 3), errs.CodeInsufficientStock},
		{errs.NewSlotFullError("s1"), errs.CodeSlotFull},
		{errs.NewInvalidTransitionError("delivered", "pending"), errs.CodeInvalidTransition},
		{errs.NewObjectNotFoundError("orderCode", "ORD-ZZZZZZ"), errs.CodeNotFound},
		{fmt.Errorf("%w: no token", errs.ErrAuthRequired), errs.CodeAuthRequired},
		{errs.ErrUnauthorized, errs.CodeUnauthorized},
		{errs.ErrRateLimited, errs.CodeRateLimited},
		{errors.New("connection reset"), errs.CodeInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, errs.CodeOf(tt.err), tt.err.Error())
	}
}
