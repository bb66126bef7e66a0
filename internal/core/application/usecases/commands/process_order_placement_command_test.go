package commands_test

import (
	"testing"

	"hatid/internal/core/application/usecases/commands"
	"hatid/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessOrderPlacementCommand(t *testing.T) {
	t.Run("valid_order_id", func(t *testing.T) {
		id := kernel.NewUUID()

		cmd, err := commands.NewProcessOrderPlacementCommand(id)

		require.NoError(t, err)
		assert.True(t, cmd.OrderID().IsEqual(id))
		assert.NoError(t, cmd.Validate())
	})

	t.Run("empty_order_id", func(t *testing.T) {
		_, err := commands.NewProcessOrderPlacementCommand(kernel.UUID{})

		require.Error(t, err)
	})
}

func TestProcessOrderPlacementCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.ProcessOrderPlacementCommand

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrProcessOrderPlacementCommandIsNotConstructed)
}
