package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
)

func TestNewClaimOrderCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		orderID := kernel.NewUUID()
		driverID := kernel.NewUUID()

		cmd, err := commands.NewClaimOrderCommand(orderID, driverID, "Jo Driver")

		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
		assert.True(t, cmd.OrderID().IsEqual(orderID))
		assert.True(t, cmd.DriverID().IsEqual(driverID))
		assert.Equal(t, "Jo Driver", cmd.DriverName())
	})

	t.Run("zero order id", func(t *testing.T) {
		_, err := commands.NewClaimOrderCommand(kernel.UUID{}, kernel.NewUUID(), "Jo Driver")
		assert.Error(t, err)
	})

	t.Run("zero driver id", func(t *testing.T) {
		_, err := commands.NewClaimOrderCommand(kernel.NewUUID(), kernel.UUID{}, "Jo Driver")
		assert.Error(t, err)
	})

	t.Run("empty driver name", func(t *testing.T) {
		_, err := commands.NewClaimOrderCommand(kernel.NewUUID(), kernel.NewUUID(), "")
		assert.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.ClaimOrderCommand
		assert.ErrorIs(t, cmd.Validate(), commands.ErrClaimOrderCommandIsNotConstructed)
	})
}
