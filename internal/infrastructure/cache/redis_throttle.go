package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisThrottle implements Throttle with SETNX so every instance shares one window
type RedisThrottle struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisThrottle creates a throttle on an existing client
func NewRedisThrottle(client redis.UniversalClient, keyPrefix string) *RedisThrottle {
	if keyPrefix == "" {
		keyPrefix = "teashop:throttle:"
	}
	return &RedisThrottle{client: client, keyPrefix: keyPrefix}
}

// Allow implements Throttle
func (t *RedisThrottle) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	ok, err := t.client.SetNX(ctx, t.keyPrefix+key, "1", window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check throttle: %w", err)
	}
	return ok, nil
}

var _ Throttle = (*RedisThrottle)(nil)
