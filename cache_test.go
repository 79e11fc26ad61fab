package crossdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey(t *testing.T) {
	k := CacheKey{Table: "users", Statement: `SELECT * FROM "users"`, Args: "[1]"}
	assert.Equal(t, `users:SELECT * FROM "users":[1]`, k.String())
}

func TestEncodeDecodeRows(t *testing.T) {
	rows := []map[string]any{
		{"id": int64(1), "name": "Ada", "active": true},
		{"id": int64(2), "name": "Grace", "active": false},
	}
	data, err := EncodeRows(rows)
	require.NoError(t, err)
	got, err := DecodeRows(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Ada", got[0]["name"])
	assert.Equal(t, int64(2), got[1]["id"])
}

func TestDecodeRowsGarbage(t *testing.T) {
	_, err := DecodeRows([]byte("not msgpack at all"))
	assert.Error(t, err)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "users:q1:", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "users:q2:", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "teams:q1:", []byte("c"), 0))
	assert.Equal(t, 3, c.Len())

	got, err = c.Get(ctx, "users:q1:")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	require.NoError(t, c.Delete(ctx, "users:q1:"))
	got, err = c.Get(ctx, "users:q1:")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.DeletePrefix(ctx, "users:"))
	assert.Equal(t, 1, c.Len())
	got, err = c.Get(ctx, "teams:q1:")
	require.NoError(t, err)
	assert.Equal(t, []byte("c"), got)
}

func TestMemoryCacheTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}
