package mapstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, ok, err := s.Get(ctx, "Q1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, "Q1", "ev-1"))

	id, ok, err := s.Get(ctx, "Q1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ev-1", id)

	require.NoError(t, s.Remove(ctx, "Q1"))
	_, ok, _ = s.Get(ctx, "Q1")
	require.False(t, ok)

	// removing an absent mapping is not an error
	require.NoError(t, s.Remove(ctx, "Q1"))
}
