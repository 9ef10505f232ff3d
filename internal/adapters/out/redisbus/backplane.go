package redisbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Backplane relays room frames between gateway nodes. Every node publishes to
// one channel per room and subscribes to all of them with a pattern.
type Backplane struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

func NewBackplane(client *redis.Client, prefix string, logger *slog.Logger) *Backplane {
	return &Backplane{
		client: client,
		prefix: prefix,
		logger: logger.With("component", "redis_backplane"),
	}
}

func (b *Backplane) Publish(ctx context.Context, room string, payload []byte) error {
	return b.client.Publish(ctx, b.prefix+room, payload).Err()
}

// Run delivers every relayed frame, including the ones this node published,
// until ctx is cancelled.
func (b *Backplane) Run(ctx context.Context, deliver func(room string, payload []byte)) error {
	pubsub := b.client.PSubscribe(ctx, b.prefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to rooms: %w", err)
	}
	b.logger.InfoContext(ctx, "Subscribed to room channels", "pattern", b.prefix+"*")

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			deliver(strings.TrimPrefix(msg.Channel, b.prefix), []byte(msg.Payload))
		}
	}
}
