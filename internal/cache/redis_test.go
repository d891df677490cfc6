package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonesrussell/cardfeed/internal/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) (*cache.Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := cache.NewRedisClient(cache.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedis(client, nil), mr
}

func TestRedis_GetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	c.Set(ctx, "og:https://ex.com", []byte(`{"title":"x"}`), time.Hour)

	got, ok := c.Get(ctx, "og:https://ex.com")
	require.True(t, ok)
	assert.JSONEq(t, `{"title":"x"}`, string(got))
	assert.True(t, mr.Exists(cache.KeyPrefix+"og:https://ex.com"))
}

func TestRedis_Expiry(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	c.Set(ctx, "k", []byte("v"), time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedis_BackendFailureIsMiss(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedis(client, nil)

	mr.Close()

	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewRedisClient_EmptyAddress(t *testing.T) {
	_, err := cache.NewRedisClient(cache.RedisConfig{})
	require.ErrorIs(t, err, cache.ErrEmptyAddress)
}
