package queries_test

import (
	"testing"
	"time"

	"hatid/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetSLABreachesQuery(t *testing.T) {
	t.Run("valid_since", func(t *testing.T) {
		since := time.Now().Add(-24 * time.Hour)

		query, err := queries.NewGetSLABreachesQuery(since)

		require.NoError(t, err)
		assert.True(t, query.Since().Equal(since))
		assert.NoError(t, query.Validate())
	})

	t.Run("zero_since", func(t *testing.T) {
		_, err := queries.NewGetSLABreachesQuery(time.Time{})

		require.ErrorIs(t, err, queries.ErrSinceIsRequired)
	})
}

func TestGetSLABreachesQuery_Validate_NotConstructed(t *testing.T) {
	var query queries.GetSLABreachesQuery

	err := query.Validate()

	require.ErrorIs(t, err, queries.ErrGetSLABreachesQueryIsNotConstructed)
}
