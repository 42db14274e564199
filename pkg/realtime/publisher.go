package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher pushes events to per-recipient topics consumed by the SPA over
// websockets. Delivery is fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, recipientID string, event any) error
}

// RedisPublisher publishes JSON events on Redis pub/sub channels.
type RedisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher constructs a publisher with the given channel prefix.
func NewRedisPublisher(client *redis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "notify:user:"
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Publish serializes the event and publishes it on the recipient's channel.
func (p *RedisPublisher) Publish(ctx context.Context, recipientID string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal realtime event: %w", err)
	}
	channel := p.prefix + recipientID
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("publish realtime event: %w", err)
	}
	return nil
}
