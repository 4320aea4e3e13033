package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

type page struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func TestFetch_Noop_AlwaysLoads(t *testing.T) {
	calls := 0
	load := func() (page, error) {
		calls++
		return page{Total: 3}, nil
	}

	for i := 0; i < 2; i++ {
		got, err := Fetch(context.Background(), Noop{}, "ns", "k", load)
		require.NoError(t, err)
		assert.EqualValues(t, 3, got.Total)
	}
	assert.Equal(t, 2, calls)
}

func TestFetch_LoadErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	_, err := Fetch(context.Background(), Noop{}, "ns", "k", func() (page, error) {
		return page{}, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRedisCache_FetchAndInvalidate(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, time.Minute, zap.NewNop())
	ns := RevisionsNamespace(uuid.New())
	defer client.Del(ctx, versionKey(ns))

	calls := 0
	load := func() (page, error) {
		calls++
		return page{Items: []string{"a", "b"}, Total: int64(calls)}, nil
	}

	first, err := Fetch(ctx, c, ns, "p1", load)
	require.NoError(t, err)
	second, err := Fetch(ctx, c, ns, "p1", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	require.NoError(t, c.Invalidate(ctx, ns))

	third, err := Fetch(ctx, c, ns, "p1", load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.EqualValues(t, 2, third.Total)
}

func TestRedisCache_InvalidateBumpsVersion(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, time.Minute, zap.NewNop())
	owner := uuid.New()
	revs, dash := RevisionsNamespace(owner), DashboardNamespace(owner)
	defer client.Del(ctx, versionKey(revs), versionKey(dash))

	v0, err := c.Version(ctx, revs)
	require.NoError(t, err)
	assert.EqualValues(t, 0, v0)

	require.NoError(t, c.Invalidate(ctx, revs, dash))

	v1, err := c.Version(ctx, revs)
	require.NoError(t, err)
	d1, err := c.Version(ctx, dash)
	require.NoError(t, err)
	assert.EqualValues(t, 1, v1)
	assert.EqualValues(t, 1, d1)
}

func TestRedisCache_StaleGenerationIsNotServed(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	c := NewRedisCache(client, time.Minute, zap.NewNop())
	ns := DashboardNamespace(uuid.New())
	defer client.Del(ctx, versionKey(ns))

	// A writer that read generation 0 before an invalidation lands late.
	require.NoError(t, c.Invalidate(ctx, ns))
	require.NoError(t, c.Set(ctx, ns, 0, "summary", page{Total: 99}))
	defer client.Del(ctx, entryKey(ns, 0, "summary"))

	v, err := c.Version(ctx, ns)
	require.NoError(t, err)

	var got page
	hit, err := c.Get(ctx, ns, v, "summary", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
