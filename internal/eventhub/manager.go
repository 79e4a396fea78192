// Package eventhub fans moderation events out to live subscribers. Events
// arrive over Redis Pub/Sub (published by whichever process applied the
// change) and are delivered to every registered client.
package eventhub

import (
	"encoding/json"
	"log"

	"groupmod/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// EventSource provides the Redis subscription the hub listens on.
// *storage.Service satisfies it.
type EventSource interface {
	SubscribeEvents() *redis.PubSub
}

// Manager owns the set of connected subscribers and the fanout loop.
type Manager struct {
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	// EventCh feeds the fanout loop. The Redis listener writes to it; tests
	// may write to it directly.
	EventCh chan models.ModerationEvent

	Source EventSource
}

// NewManager creates a hub. A nil source disables the Redis listener, which
// leaves EventCh as the only input.
func NewManager(source EventSource) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		EventCh:      make(chan models.ModerationEvent),
		Source:       source,
	}
}

// startListener subscribes to the moderation event channel and pipes decoded
// events into EventCh.
func (m *Manager) startListener() {
	if m.Source == nil {
		return
	}

	go func() {
		pubsub := m.Source.SubscribeEvents()
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var evt models.ModerationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				log.Printf("Error unmarshalling moderation event: %v", err)
				continue
			}
			m.EventCh <- evt
		}
	}()
}

// Run is the hub's main goroutine: it serves registrations and fans incoming
// events out to every subscriber.
func (m *Manager) Run() {
	m.startListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.Clients[client.GetID()] = client
			log.Printf("Event subscriber %s registered", client.GetID())

		case client := <-m.UnregisterCh:
			if _, ok := m.Clients[client.GetID()]; ok {
				delete(m.Clients, client.GetID())
				client.Close()
				log.Printf("Event subscriber %s unregistered", client.GetID())
			}

		case evt := <-m.EventCh:
			for id, client := range m.Clients {
				select {
				case client.GetSendChannel() <- evt:
				default:
					// Slow subscriber: drop it rather than stall the fanout.
					delete(m.Clients, id)
					client.Close()
					log.Printf("Dropped slow event subscriber %s", id)
				}
			}
		}
	}
}
