package queries_test

import (
	"testing"

	"hatid/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetUnassignedOrdersQuery(t *testing.T) {
	query := queries.NewGetUnassignedOrdersQuery()

	assert.NoError(t, query.Validate())
}

func TestGetUnassignedOrdersQuery_Validate_NotConstructed(t *testing.T) {
	var query queries.GetUnassignedOrdersQuery

	err := query.Validate()

	require.ErrorIs(t, err, queries.ErrGetUnassignedOrdersQueryIsNotConstructed)
}
