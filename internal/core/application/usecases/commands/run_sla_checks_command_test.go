package commands_test

import (
	"testing"
	"time"

	"hatid/internal/core/application/usecases/commands"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunSLAChecksCommand(t *testing.T) {
	t.Run("valid_time", func(t *testing.T) {
		now := time.Now()

		cmd, err := commands.NewRunSLAChecksCommand(now)

		require.NoError(t, err)
		assert.True(t, cmd.Now().Equal(now))
		assert.NoError(t, cmd.Validate())
	})

	t.Run("zero_time", func(t *testing.T) {
		_, err := commands.NewRunSLAChecksCommand(time.Time{})

		require.ErrorIs(t, err, commands.ErrCheckTimeIsRequired)
	})
}

func TestRunSLAChecksCommand_Validate_NotConstructed(t *testing.T) {
	var cmd commands.RunSLAChecksCommand

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrRunSLAChecksCommandIsNotConstructed)
}
