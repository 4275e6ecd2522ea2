package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/identity"
)

func TestNewLoginCommand(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cmd, err := commands.NewLoginCommand("driver-jo", "secret", identity.ScopeDriver)

		require.NoError(t, err)
		assert.NoError(t, cmd.Validate())
		assert.Equal(t, "driver-jo", cmd.Username())
		assert.Equal(t, identity.ScopeDriver, cmd.Scope())
	})

	t.Run("empty username", func(t *testing.T) {
		_, err := commands.NewLoginCommand("", "secret", identity.ScopeDriver)
		assert.Error(t, err)
	})

	t.Run("empty password", func(t *testing.T) {
		_, err := commands.NewLoginCommand("driver-jo", "", identity.ScopeDriver)
		assert.Error(t, err)
	})

	t.Run("unknown scope", func(t *testing.T) {
		_, err := commands.NewLoginCommand("driver-jo", "secret", identity.TokenScope("manager"))
		assert.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var cmd commands.LoginCommand
		assert.ErrorIs(t, cmd.Validate(), commands.ErrLoginCommandIsNotConstructed)
	})
}
