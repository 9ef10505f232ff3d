package guard_test

import (
	"errors"
	"sync"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type quantity struct {
	value int
	guard guard.ConstructorGuard
}

var errQuantityNotConstructed = errors.New("quantity must be created via newQuantity")

func newQuantity(value int) (quantity, error) {
	if value < 1 {
		return quantity{}, errors.New("quantity must be positive")
	}
	return quantity{value: value, guard: guard.NewConstructorGuard()}, nil
}

func (q quantity) Validate() error {
	return q.guard.Validate(errQuantityNotConstructed)
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("constructed_guard_passes", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_returns_given_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expected := errors.New("order not constructed")

		assert.Equal(t, expected, g.Validate(expected))
	})

	t.Run("zero_value_falls_back_to_default_error", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

func TestConstructorGuard_InValueObject(t *testing.T) {
	q, err := newQuantity(3)
	require.NoError(t, err)
	require.NoError(t, q.Validate())
	assert.Equal(t, 3, q.value)

	_, err = newQuantity(0)
	assert.EqualError(t, err, "quantity must be positive")

	var zero quantity
	assert.ErrorIs(t, zero.Validate(), errQuantityNotConstructed)
}

func TestConstructorGuard_ConcurrentValidate(t *testing.T) {
	g := guard.NewConstructorGuard()
	notConstructed := errors.New("not constructed")

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				assert.NoError(t, g.Validate(notConstructed))
			}
		}()
	}
	wg.Wait()
}
