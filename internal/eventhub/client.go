package eventhub

import "groupmod/backend/internal/models"

// Client is the interface for any moderation-event subscriber (a WebSocket
// consumer, the Telegram notifier). It abstracts the delivery mechanism so
// the hub can manage different subscriber types uniformly.
type Client interface {
	// GetID returns the unique identifier for this subscriber.
	GetID() string

	// GetSendChannel returns the channel the hub delivers events on. It is
	// a send-only channel from the hub's perspective.
	GetSendChannel() chan<- models.ModerationEvent

	// Run starts whatever pumps the subscriber needs to drain its channel.
	Run()
	// Close shuts the subscriber down and releases its channel.
	Close()
}
