package cache

import (
	"context"
	"time"
)

// Throttle lets an action through at most once per window for each key
type Throttle interface {
	// Allow reports whether the action for key may run now.
	// A true result starts a new window.
	Allow(ctx context.Context, key string, window time.Duration) (bool, error)
}
