package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teashop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func TestInMemoryThrottle(t *testing.T) {
	th := NewInMemoryThrottle()
	defer th.Close()
	ctx := context.Background()

	ok, err := th.Allow(ctx, "user-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = th.Allow(ctx, "user-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = th.Allow(ctx, "user-2", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, th.Size())

	ok, err = th.Allow(ctx, "short", time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok)
	time.Sleep(5 * time.Millisecond)
	ok, err = th.Allow(ctx, "short", time.Millisecond)
	require.NoError(t, err)
	assert.True(t, ok, "a new window opens after expiry")

	th.cleanup()
	assert.Equal(t, 2, th.Size())

	require.NoError(t, th.Close())
	require.NoError(t, th.Close())
}

func TestRedisThrottle(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	th := NewRedisThrottle(client, "")
	ctx := context.Background()

	ok, err := th.Allow(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("teashop:throttle:user-1"))

	ok, err = th.Allow(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = th.Allow(ctx, "user-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewStores(t *testing.T) {
	ctx := context.Background()

	t.Run("uses redis when reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{}
		cfg.Redis.Enabled = true
		cfg.Redis.Host = mr.Host()
		cfg.Redis.Port = mustPort(t, mr.Port())

		stores, err := NewStores(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer stores.Close()
		assert.IsType(t, &RedisThrottle{}, stores.Throttle)
		assert.NotNil(t, stores.Redis)
	})

	t.Run("falls back outside production", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Redis.Enabled = true
		cfg.Redis.Host = "127.0.0.1"
		cfg.Redis.Port = 1

		stores, err := NewStores(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer stores.Close()
		assert.IsType(t, &InMemoryThrottle{}, stores.Throttle)
		assert.Nil(t, stores.Redis)
	})

	t.Run("production requires redis", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.App.Env = "production"
		cfg.Redis.Enabled = true
		cfg.Redis.Host = "127.0.0.1"
		cfg.Redis.Port = 1

		_, err := NewStores(ctx, cfg, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("disabled redis uses memory", func(t *testing.T) {
		stores, err := NewStores(ctx, &config.Config{}, zap.NewNop())
		require.NoError(t, err)
		defer stores.Close()
		assert.IsType(t, &InMemoryThrottle{}, stores.Throttle)
		assert.Nil(t, stores.Redis)
	})
}

func mustPort(t *testing.T, s string) int {
	t.Helper()
	p, err := strconv.Atoi(s)
	require.NoError(t, err)
	return p
}
