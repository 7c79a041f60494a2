package events

import (
	"context"
	"encoding/json"
	"fmt"

	"mediavault/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisBus implements Bus on Redis pub/sub.
type RedisBus struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisBus(client *redis.Client, l *logger.Logger) *RedisBus {
	return &RedisBus{client: client, logger: l}
}

func userChannel(userID string) string {
	return ChannelPrefixUser + userID
}

// Publish sends the event on the owning user's channel. Events are
// fire-and-forget; a dropped notification is recovered by the client's
// next fetch, since the record state is already persisted.
func (b *RedisBus) Publish(ctx context.Context, event FileStatusEvent) error {
	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return b.client.Publish(ctx, userChannel(event.UserID), data).Err()
}

// Subscribe listens on every user channel and dispatches decoded events
// to the handler. Blocks until ctx is cancelled.
func (b *RedisBus) Subscribe(ctx context.Context, handler Handler) error {
	pubsub := b.client.PSubscribe(ctx, ChannelPrefixUser+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event FileStatusEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				if b.logger != nil {
					b.logger.Errorf("events: decoding message on %s: %s", msg.Channel, err)
				}
				continue
			}
			handler(event)
		}
	}
}
