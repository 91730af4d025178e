package storage

import (
	"context"
	"testing"

	"reviewguard/internal/storage/interfaces"
	"reviewguard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	rs, err := NewRedisStore(mr.Addr(), "", 0, &testutil.MockLogger{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rs.Close() })
	return rs, mr
}

func TestRedisStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	rs, mr := newTestRedisStore(t)

	require.NoError(t, rs.Set(ctx, "p:dev1:submissions", []byte(`[{"timestamp":1}]`)))
	got, err := mr.Get("p:dev1:submissions")
	require.NoError(t, err)
	assert.Equal(t, `[{"timestamp":1}]`, got)

	val, err := rs.Get(ctx, "p:dev1:submissions")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"timestamp":1}]`), val)

	require.NoError(t, rs.Remove(ctx, "p:dev1:submissions"))
	_, err = rs.Get(ctx, "p:dev1:submissions")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestRedisStore_ListKeys(t *testing.T) {
	ctx := context.Background()
	rs, _ := newTestRedisStore(t)

	for _, k := range []string{"p:dev1:behavior", "p:dev1:submissions", "p:dev2:behavior", "p:dev1*:x"} {
		require.NoError(t, rs.Set(ctx, k, []byte(`{}`)))
	}

	keys, err := rs.ListKeys(ctx, "p:dev1:")
	require.NoError(t, err)
	assert.Equal(t, []string{"p:dev1:behavior", "p:dev1:submissions"}, keys)

	keys, err = rs.ListKeys(ctx, "p:dev1*")
	require.NoError(t, err)
	assert.Equal(t, []string{"p:dev1*:x"}, keys)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(addr, "", 0, &testutil.MockLogger{})
	assert.Error(t, err)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
	assert.Equal(t, "plain:key", escapeGlob("plain:key"))
}
