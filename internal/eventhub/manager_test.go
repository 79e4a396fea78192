package eventhub_test

import (
	"testing"
	"time"

	"groupmod/backend/internal/eventhub"
	"groupmod/backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestManager_RegisterUnregister(t *testing.T) {
	hub := eventhub.NewManager(nil) // nil source: no Redis listener in tests

	clientA := newMockClient("subscriber_A")

	go hub.Run()

	hub.RegisterCh <- clientA
	time.Sleep(100 * time.Millisecond)
	assert.Contains(t, hub.Clients, "subscriber_A")

	hub.UnregisterCh <- clientA
	time.Sleep(100 * time.Millisecond)
	assert.NotContains(t, hub.Clients, "subscriber_A")
	assert.True(t, clientA.closed, "unregister must close the subscriber")
}

func TestManager_FanoutDeliversToAllSubscribers(t *testing.T) {
	hub := eventhub.NewManager(nil)

	clientA := newMockClient("subscriber_A")
	clientB := newMockClient("subscriber_B")

	go hub.Run()

	hub.RegisterCh <- clientA
	hub.RegisterCh <- clientB
	time.Sleep(100 * time.Millisecond)

	evt := models.ModerationEvent{
		Type:      models.EventRoleAdded,
		RoomToken: "xyz",
		SessionID: "0500",
		Actor:     "system",
	}
	hub.EventCh <- evt
	time.Sleep(100 * time.Millisecond)

	for _, c := range []*mockClient{clientA, clientB} {
		select {
		case got := <-c.RecvChannel:
			assert.Equal(t, models.EventRoleAdded, got.Type)
			assert.Equal(t, "xyz", got.RoomToken)
		default:
			t.Errorf("subscriber %s did not receive the event", c.GetID())
		}
	}
}

func TestManager_SlowSubscriberIsDropped(t *testing.T) {
	hub := eventhub.NewManager(nil)

	slow := newMockClient("slow")
	// Fill the buffer so the next fanout cannot deliver.
	for i := 0; i < cap(slow.RecvChannel); i++ {
		slow.RecvChannel <- models.ModerationEvent{Type: models.EventRoleAdded}
	}

	go hub.Run()

	hub.RegisterCh <- slow
	time.Sleep(100 * time.Millisecond)

	hub.EventCh <- models.ModerationEvent{Type: models.EventRoomDeleted}
	time.Sleep(100 * time.Millisecond)

	assert.NotContains(t, hub.Clients, "slow")
	assert.True(t, slow.closed)
}
