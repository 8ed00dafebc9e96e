package guard_test

import (
	"errors"
	"testing"

	"foodrelay/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("command not constructed")

		// When
		err := g.Validate(expected)

		// Then
		assert.Equal(t, expected, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

func TestConstructorGuard_EmbeddedInValueObject(t *testing.T) {
	type eta struct {
		minutes int
		guard   guard.ConstructorGuard
	}
	errETANotConstructed := errors.New("eta must be created via newETA")

	newETA := func(minutes int) (eta, error) {
		if minutes <= 0 {
			return eta{}, errors.New("eta must be positive")
		}
		return eta{minutes: minutes, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_validates", func(t *testing.T) {
		e, err := newETA(20)

		require.NoError(t, err)
		require.NoError(t, e.guard.Validate(errETANotConstructed))
		assert.Equal(t, 20, e.minutes)
	})

	t.Run("zero_value_is_rejected", func(t *testing.T) {
		var e eta

		assert.Equal(t, errETANotConstructed, e.guard.Validate(errETANotConstructed))
	})

	t.Run("constructor_rejects_invalid_input", func(t *testing.T) {
		_, err := newETA(0)

		require.EqualError(t, err, "eta must be positive")
	})
}
