package order_test

import (
	"testing"

	"hatid/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Validate(t *testing.T) {
	t.Run("valid_statuses", func(t *testing.T) {
		for _, s := range []order.Status{
			order.StatusPending, order.StatusConfirmed, order.StatusPreparing,
			order.StatusReady, order.StatusPickedUp, order.StatusInTransit,
			order.StatusDelivered, order.StatusCancelled,
		} {
			require.NoError(t, s.Validate(), s)
		}
	})

	t.Run("invalid_status", func(t *testing.T) {
		require.Error(t, order.Status("shipped").Validate())
		require.Error(t, order.Status("").Validate())
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.StatusDelivered.IsTerminal())
	assert.True(t, order.StatusCancelled.IsTerminal())
	assert.False(t, order.StatusPending.IsTerminal())
	assert.False(t, order.StatusInTransit.IsTerminal())
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Run("happy_path_advances_one_step", func(t *testing.T) {
		steps := []order.Status{
			order.StatusPending, order.StatusConfirmed, order.StatusPreparing,
			order.StatusReady, order.StatusPickedUp, order.StatusInTransit,
			order.StatusDelivered,
		}
		for i := 0; i < len(steps)-1; i++ {
			assert.True(t, steps[i].CanTransitionTo(steps[i+1]),
				"%s -> %s should be allowed", steps[i], steps[i+1])
		}
	})

	t.Run("no_skipping", func(t *testing.T) {
		assert.False(t, order.StatusPending.CanTransitionTo(order.StatusPreparing))
		assert.False(t, order.StatusConfirmed.CanTransitionTo(order.StatusDelivered))
	})

	t.Run("no_going_back", func(t *testing.T) {
		assert.False(t, order.StatusPreparing.CanTransitionTo(order.StatusConfirmed))
		assert.False(t, order.StatusDelivered.CanTransitionTo(order.StatusInTransit))
	})

	t.Run("cancel_from_any_non_terminal", func(t *testing.T) {
		for _, s := range []order.Status{
			order.StatusPending, order.StatusConfirmed, order.StatusPreparing,
			order.StatusReady, order.StatusPickedUp, order.StatusInTransit,
		} {
			assert.True(t, s.CanTransitionTo(order.StatusCancelled), s)
		}
	})

	t.Run("terminal_states_are_final", func(t *testing.T) {
		assert.False(t, order.StatusDelivered.CanTransitionTo(order.StatusCancelled))
		assert.False(t, order.StatusCancelled.CanTransitionTo(order.StatusPending))
		assert.False(t, order.StatusCancelled.CanTransitionTo(order.StatusConfirmed))
	})
}

func TestStatus_TransitionTo(t *testing.T) {
	t.Run("valid_transition_returns_target", func(t *testing.T) {
		next, err := order.StatusPending.TransitionTo(order.StatusConfirmed)

		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, next)
	})

	t.Run("invalid_transition_returns_error", func(t *testing.T) {
		_, err := order.StatusDelivered.TransitionTo(order.StatusCancelled)

		require.Error(t, err)
	})

	t.Run("unknown_target_is_rejected", func(t *testing.T) {
		_, err := order.StatusPending.TransitionTo(order.Status("lost"))

		require.Error(t, err)
	})
}

func TestStatusFromString(t *testing.T) {
	s, err := order.StatusFromString("picked_up")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPickedUp, s)

	_, err = order.StatusFromString("unknown")
	require.Error(t, err)
}
