// Package notifications provides real-time notification delivery and management.
package notifications

import (
	"context"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Notifier provides helpers to publish feed events into Redis channels.
// With a nil Redis client every method is a no-op, which keeps single-node
// deployments and tests free of a Redis dependency.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishUser sends an event payload to a single user's channel.
func (n *Notifier) PublishUser(
	ctx context.Context, userID uint, payload string,
) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// PublishBroadcast sends an event payload to all connected users.
func (n *Notifier) PublishBroadcast(ctx context.Context, payload string) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, "feed:broadcast", payload).Err()
}

// StartPatternSubscriber subscribes to pattern `feed:user:*` plus the broadcast
// channel and calls onMessage for each incoming message. onMessage receives
// channel and payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "feed:user:*", "feed:broadcast")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in PatternSubscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// PublishModeration publishes a moderation outcome to the recipe owner's
// channel in addition to the broadcast feed.
func (n *Notifier) PublishModeration(
	ctx context.Context, ownerID uint, payload string,
) error {
	if n.rdb == nil {
		return nil
	}
	if err := n.rdb.Publish(ctx, UserChannel(ownerID), payload).Err(); err != nil {
		return fmt.Errorf("publish moderation: %w", err)
	}
	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "feed:user:" + strconv.FormatUint(uint64(userID), 10)
}
