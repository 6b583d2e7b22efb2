package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Quota is the outcome of counting one request against a fixed window.
type Quota struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// WindowLimiter counts requests per key in fixed windows.
type WindowLimiter interface {
	Take(ctx context.Context, key string) (Quota, error)
}

func quotaFor(count int64, limit int) Quota {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Quota{Allowed: count <= int64(limit), Limit: limit, Remaining: remaining}
}

// RedisWindowLimiter shares its windows between every server instance.
type RedisWindowLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int
	window time.Duration
}

func NewRedisWindowLimiter(client redis.UniversalClient, prefix string, limit int, window time.Duration) *RedisWindowLimiter {
	return &RedisWindowLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Take increments the key's counter. The first hit of a window sets the expiry.
func (l *RedisWindowLimiter) Take(ctx context.Context, key string) (Quota, error) {
	k := l.prefix + key
	count, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		return Quota{}, fmt.Errorf("count request: %w", err)
	}
	if count == 1 {
		if err := l.client.PExpire(ctx, k, l.window).Err(); err != nil {
			return Quota{}, fmt.Errorf("start rate window: %w", err)
		}
	}
	return quotaFor(count, l.limit), nil
}

type window struct {
	count int64
	ends  time.Time
}

// InMemoryWindowLimiter keeps windows in process memory.
type InMemoryWindowLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	length  time.Duration
	now     func() time.Time
}

func NewInMemoryWindowLimiter(limit int, length time.Duration) *InMemoryWindowLimiter {
	return &InMemoryWindowLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		length:  length,
		now:     time.Now,
	}
}

func (l *InMemoryWindowLimiter) Take(_ context.Context, key string) (Quota, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.ends) {
		if len(l.windows) > 4096 {
			l.evict(now)
		}
		w = &window{ends: now.Add(l.length)}
		l.windows[key] = w
	}
	w.count++
	return quotaFor(w.count, l.limit), nil
}

// evict drops finished windows; called with mu held
func (l *InMemoryWindowLimiter) evict(now time.Time) {
	for k, w := range l.windows {
		if !now.Before(w.ends) {
			delete(l.windows, k)
		}
	}
}

var (
	_ WindowLimiter = (*RedisWindowLimiter)(nil)
	_ WindowLimiter = (*InMemoryWindowLimiter)(nil)
)
