package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Feed event types pushed over the websocket.
const (
	EventRecipeCreated  = "recipeCreated"
	EventRecipeApproved = "recipeApproved"
	EventRecipeRejected = "recipeRejected"
	EventPendingCount   = "pendingCount"
)

// Event is the envelope every feed message is wrapped in.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Broadcaster fans feed events out to every connected observer. When a Redis
// client is configured the event takes the pub/sub path so that observers on
// other server instances receive it too; otherwise it goes straight to the
// local hub. Both paths deliver events to each observer in publish order.
type Broadcaster struct {
	hub      *Hub
	notifier *Notifier
	logger   *slog.Logger
}

// NewBroadcaster wires a hub and notifier into a Broadcaster.
func NewBroadcaster(hub *Hub, notifier *Notifier, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{hub: hub, notifier: notifier, logger: logger}
}

// PublishEvent delivers an event to all connected observers.
func (b *Broadcaster) PublishEvent(ctx context.Context, eventType string, payload interface{}) error {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	message := string(data)

	if b.notifier != nil && b.notifier.rdb != nil {
		if err := b.notifier.PublishBroadcast(ctx, message); err != nil {
			b.logger.Error("feed publish failed, falling back to local hub",
				"event", eventType, "error", err)
			b.hub.BroadcastAll(message)
		}
		return nil
	}

	b.hub.BroadcastAll(message)
	return nil
}

// PublishUserEvent delivers an event to a single user's connections only.
func (b *Broadcaster) PublishUserEvent(ctx context.Context, userID uint, eventType string, payload interface{}) error {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	message := string(data)

	if b.notifier != nil && b.notifier.rdb != nil {
		if err := b.notifier.PublishUser(ctx, userID, message); err != nil {
			b.logger.Error("feed user publish failed, falling back to local hub",
				"event", eventType, "user_id", userID, "error", err)
			b.hub.Broadcast(userID, message)
		}
		return nil
	}

	b.hub.Broadcast(userID, message)
	return nil
}
