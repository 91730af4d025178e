package storage

import (
	"context"
	"testing"

	"reviewguard/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedStore_CountsHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	metrics := &testutil.MockMetrics{}
	s := NewInstrumentedStore(testutil.NewMockStore(), metrics)

	_, _ = s.Get(ctx, "missing")
	require.NoError(t, s.Set(ctx, "k", []byte(`1`)))
	_, _ = s.Get(ctx, "k")
	_, _ = s.Get(ctx, "k")

	assert.Equal(t, 2, metrics.StoreHits)
	assert.Equal(t, 1, metrics.StoreMisses)
}

func TestInstrumentedStore_Delegates(t *testing.T) {
	ctx := context.Background()
	inner := testutil.NewMockStore()
	s := NewInstrumentedStore(inner, &testutil.MockMetrics{})

	require.NoError(t, s.Set(ctx, "p:a", []byte(`1`)))
	keys, err := s.ListKeys(ctx, "p:")
	require.NoError(t, err)
	assert.Equal(t, []string{"p:a"}, keys)

	require.NoError(t, s.Remove(ctx, "p:a"))
	assert.Empty(t, inner.Data)
	assert.Same(t, inner, s.Unwrap())
}
