package storage

import (
	"context"
	"testing"

	"reviewguard/internal/storage/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(16)

	require.NoError(t, s.Set(ctx, "spam_protection:dev1:submissions", []byte(`[{"timestamp":1}]`)))
	val, err := s.Get(ctx, "spam_protection:dev1:submissions")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"timestamp":1}]`, string(val))
}

func TestMemoryStore_Miss(t *testing.T) {
	s := NewMemoryStore(16)
	val, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	assert.Nil(t, val)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(16)

	require.NoError(t, s.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, s.Set(ctx, "k", []byte(`2`)))

	val, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`2`), val)
}

func TestMemoryStore_Remove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(16)

	require.NoError(t, s.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "never-set"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestMemoryStore_ListKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(16)

	for _, k := range []string{"p:dev2:behavior", "p:dev1:submissions", "p:dev1:behavior", "other:dev1"} {
		require.NoError(t, s.Set(ctx, k, []byte(`{}`)))
	}

	keys, err := s.ListKeys(ctx, "p:dev1:")
	require.NoError(t, err)
	assert.Equal(t, []string{"p:dev1:behavior", "p:dev1:submissions"}, keys)

	keys, err = s.ListKeys(ctx, "p:")
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func TestMemoryStore_RejectsOversizedValue(t *testing.T) {
	s := NewMemoryStore(1)
	big := make([]byte, 2*1024*1024)
	assert.Error(t, s.Set(context.Background(), "big", big))
}
