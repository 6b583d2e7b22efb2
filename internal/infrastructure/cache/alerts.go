package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultAlertChannel is the pub/sub channel stock alerts are sent to
const DefaultAlertChannel = "teashop:alerts"

// RedisAlertChannel publishes alerts as JSON on a Redis pub/sub channel so
// that dashboards and other instances can subscribe to them
type RedisAlertChannel[T any] struct {
	client  redis.UniversalClient
	channel string
}

// NewRedisAlertChannel creates a publisher for alerts of type T
func NewRedisAlertChannel[T any](client redis.UniversalClient, channel string) *RedisAlertChannel[T] {
	if channel == "" {
		channel = DefaultAlertChannel
	}
	return &RedisAlertChannel[T]{client: client, channel: channel}
}

// SendAlert publishes one alert
func (p *RedisAlertChannel[T]) SendAlert(ctx context.Context, alert T) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Channel returns the channel name
func (p *RedisAlertChannel[T]) Channel() string {
	return p.channel
}
