package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryThrottle implements Throttle with an in-process map.
// It suits single-instance deployments and tests.
type InMemoryThrottle struct {
	mu        sync.Mutex
	entries   map[string]time.Time // key -> window end
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryThrottle creates a throttle and starts its cleanup goroutine
func NewInMemoryThrottle() *InMemoryThrottle {
	t := &InMemoryThrottle{
		entries:  make(map[string]time.Time),
		stopChan: make(chan struct{}),
	}
	t.wg.Add(1)
	go t.cleanupLoop()
	return t
}

// Allow implements Throttle
func (t *InMemoryThrottle) Allow(_ context.Context, key string, window time.Duration) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if end, ok := t.entries[key]; ok && now.Before(end) {
		return false, nil
	}
	t.entries[key] = now.Add(window)
	return true, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (t *InMemoryThrottle) Close() error {
	t.closeOnce.Do(func() {
		close(t.stopChan)
		t.wg.Wait()
	})
	return nil
}

func (t *InMemoryThrottle) cleanupLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.cleanup()
		}
	}
}

func (t *InMemoryThrottle) cleanup() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	for key, end := range t.entries {
		if now.After(end) {
			delete(t.entries, key)
		}
	}
}

// Size returns the number of tracked keys
func (t *InMemoryThrottle) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

var _ Throttle = (*InMemoryThrottle)(nil)
