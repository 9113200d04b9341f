package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "decisio/pkg/domain-errors"
)

func TestParseDecisionID(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseDecisionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseDecisionID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseDecisionID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, DecisionID(validUUID), id)
	})

	t.Run("round-trips through String", func(t *testing.T) {
		id := NewDecisionID()
		parsed, err := ParseDecisionID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

func TestDecisionIDIsNil(t *testing.T) {
	assert.True(t, DecisionID(uuid.Nil).IsNil())
	assert.False(t, NewDecisionID().IsNil())
}
