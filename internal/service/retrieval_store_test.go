package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := uuid.NewRandom()
	require.NoError(t, err)
	return id
}

func TestMemoryStoreIgnoresInvalidUserId(t *testing.T) {
	store := NewMemoryStore(nil)

	chunks, err := store.SearchSimilarForUser(context.Background(), "not-a-uuid", []float32{0.1}, 4)
	require.NoError(t, err)
	assert.Nil(t, chunks)
}
