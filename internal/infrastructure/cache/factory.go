package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/teashop/backend/internal/infrastructure/auth"
	"github.com/teashop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// Stores groups the shared-state stores the HTTP layer needs
type Stores struct {
	Revocations auth.Revocations
	Throttle    Throttle
	// Redis is nil when the stores are in memory
	Redis   *redis.Client
	closers []func() error
}

// Close releases the stores
func (s *Stores) Close() error {
	var firstErr error
	for _, c := range s.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// WindowLimiter returns a request limiter on the same backend as the other
// stores. name keeps the windows of different limiters apart.
func (s *Stores) WindowLimiter(name string, limit int, window time.Duration) WindowLimiter {
	if s.Redis != nil {
		return NewRedisWindowLimiter(s.Redis, "teashop:ratelimit:"+name+":", limit, window)
	}
	return NewInMemoryWindowLimiter(limit, window)
}

// NewStores builds Redis-backed stores when Redis is enabled and reachable.
// Otherwise it falls back to in-memory stores, which production refuses.
func NewStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	if cfg.Redis.Enabled {
		client, err := NewRedisClient(ctx, cfg.Redis)
		if err == nil {
			logger.Info("Using Redis for token revocation and throttling", zap.String("addr", cfg.Redis.Addr()))
			return &Stores{
				Revocations: auth.NewRedisRevocations(client),
				Throttle:    NewRedisThrottle(client, ""),
				Redis:       client,
				closers:     []func() error{client.Close},
			}, nil
		}
		if cfg.App.IsProduction() {
			return nil, err
		}
		logger.Warn("Redis unavailable, falling back to in-memory stores", zap.Error(err))
	}

	throttle := NewInMemoryThrottle()
	return &Stores{
		Revocations: auth.NewMemoryRevocations(),
		Throttle:    throttle,
		closers:     []func() error{throttle.Close},
	}, nil
}
