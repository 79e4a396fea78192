package eventhub_test

import "groupmod/backend/internal/models"

// mockClient is a test double for the eventhub.Client interface. Its receive
// channel is buffered so hub fanout never blocks in tests.
type mockClient struct {
	id          string
	RecvChannel chan models.ModerationEvent
	closed      bool
}

func newMockClient(id string) *mockClient {
	return &mockClient{
		id:          id,
		RecvChannel: make(chan models.ModerationEvent, 10),
	}
}

func (c *mockClient) GetID() string { return c.id }

func (c *mockClient) GetSendChannel() chan<- models.ModerationEvent { return c.RecvChannel }

func (c *mockClient) Run() {}

func (c *mockClient) Close() {
	if !c.closed {
		c.closed = true
		close(c.RecvChannel)
	}
}
