package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgcache "books-api/pkg/cache"
)

var _ pkgcache.Cache = (*RedisClient)(nil)

func newTestClient(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Connect(context.Background()))
	return client, mr
}

type cachedAuthor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestGetSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	var miss cachedAuthor
	found, err := client.Get(ctx, "author:1", &miss)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, client.Set(ctx, "author:1", cachedAuthor{ID: 1, Name: "Ursula"}, time.Minute))

	var hit cachedAuthor
	found, err = client.Get(ctx, "author:1", &hit)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedAuthor{ID: 1, Name: "Ursula"}, hit)

	mr.FastForward(2 * time.Minute)
	found, err = client.Get(ctx, "author:1", &hit)
	require.NoError(t, err)
	assert.False(t, found, "entry expires after its TTL")
}

func TestGetCorruptEntry(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)
	require.NoError(t, mr.Set("author:2", "{not json"))

	var dest cachedAuthor
	found, err := client.Get(ctx, "author:2", &dest)
	assert.Error(t, err)
	assert.False(t, found)
}

func TestDeleteAndDeletePattern(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestClient(t)

	for i := 0; i < 250; i++ {
		require.NoError(t, mr.Set(fmt.Sprintf("authors:list:%d:10", i), "[]"))
	}
	require.NoError(t, mr.Set("author:1", "{}"))
	require.NoError(t, mr.Set("author:2", "{}"))

	require.NoError(t, client.Delete(ctx, "author:1"))
	assert.False(t, mr.Exists("author:1"))
	assert.True(t, mr.Exists("author:2"))

	require.NoError(t, client.DeletePattern(ctx, "authors:list:*"))
	assert.Len(t, mr.Keys(), 1)
	assert.True(t, mr.Exists("author:2"))

	require.NoError(t, client.Delete(ctx))
}

func TestHealthCheck(t *testing.T) {
	client, mr := newTestClient(t)
	require.NoError(t, client.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, client.HealthCheck(context.Background()))
}
