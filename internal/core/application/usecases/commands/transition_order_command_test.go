package commands_test

import (
	"testing"

	"foodrelay/internal/core/application/usecases/commands"
	"foodrelay/internal/core/domain/model/order"
	"foodrelay/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand(t *testing.T) {
	partner, err := order.NewPartner(42, "Anna", "anna")
	require.NoError(t, err)

	t.Run("should build a valid command", func(t *testing.T) {
		cmd, err := commands.NewTransitionOrderCommand(7, order.Accepted, partner, 20)

		require.NoError(t, err)
		require.NoError(t, cmd.Validate())
		assert.Equal(t, int64(7), cmd.OrderID())
		assert.Equal(t, order.Accepted, cmd.Target())
		assert.Equal(t, int64(42), cmd.Partner().ID())
		assert.Equal(t, 20, cmd.ETAMinutes())
	})

	t.Run("should leave target checks to the lifecycle", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(7, order.Pending, partner, 0)
		assert.NoError(t, err)
	})

	t.Run("should reject invalid order id and missing partner", func(t *testing.T) {
		_, err := commands.NewTransitionOrderCommand(0, order.Accepted, order.Partner{}, 20)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("zero value is not constructed", func(t *testing.T) {
		var cmd commands.TransitionOrderCommand
		assert.ErrorIs(t, cmd.Validate(), commands.ErrTransitionOrderCommandIsNotConstructed)
	})
}
