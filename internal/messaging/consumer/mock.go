package consumer

import (
	"context"
	"errors"
	"log"

	"scrublog/internal/models"
)

// MockConsumer serves fixed predefined messages for local runs and
// testing without a broker.
type MockConsumer struct {
	logger   *log.Logger
	messages chan *models.RawMessage
}

// PredefinedMessages stores the messages to be simulated.
var PredefinedMessages []*models.RawMessage

// init generates fixed test data when the package is loaded.
func init() {
	PredefinedMessages = []*models.RawMessage{
		{
			MessageID: "mock-msg-0001",
			Body:      `{"tenant_id":"mock-tenant-1","log_id":"11111111-aaaa-bbbb-cccc-000000000001","text":"user signed in from 10.0.0.4, contact ops@example.com","source":"json_upload","received_at":"2024-01-01T00:00:00Z","text_length":55}`,
		},
		{
			MessageID: "mock-msg-0002",
			Body:      `{"tenant_id":"mock-tenant-2","log_id":"11111111-aaaa-bbbb-cccc-000000000002","text":"callback requested at 555-123-4567","source":"text_upload","received_at":"2024-01-01T00:01:00Z","text_length":34}`,
		},
		// Message 3 is malformed on purpose: it must surface as a batch
		// item failure, not crash the batch.
		{
			MessageID: "mock-msg-0003",
			Body:      `{"tenant_id":"mock-tenant-3","log_id":`,
		},
	}
}

// NewMockConsumer creates a MockConsumer and loads predefined messages.
func NewMockConsumer(logger *log.Logger) *MockConsumer {
	mc := &MockConsumer{
		logger:   logger,
		messages: make(chan *models.RawMessage, len(PredefinedMessages)+5),
	}
	logger.Println("[MockConsumer] Initializing with predefined messages...")
	for _, msg := range PredefinedMessages {
		mc.messages <- msg
		logger.Printf("[MockConsumer] Added predefined message: message_id=%s", msg.MessageID)
	}
	logger.Println("[MockConsumer] Predefined messages loaded")
	return mc
}

// Consume reads predefined messages from the channel.
func (m *MockConsumer) Consume(ctx context.Context) (*models.RawMessage, func(success bool), error) {
	select {
	case <-ctx.Done():
		m.logger.Println("[MockConsumer] Context cancelled, stopping consumption")
		return nil, nil, ctx.Err()
	case msg := <-m.messages:
		if msg == nil {
			m.logger.Println("[MockConsumer] Message channel closed")
			return nil, nil, errors.New("message channel closed")
		}
		m.logger.Printf("[MockConsumer] Consumed message: message_id=%s", msg.MessageID)

		ackCallback := func(success bool) {
			if success {
				m.logger.Printf("[MockConsumer] ACK received for message: message_id=%s", msg.MessageID)
				return
			}
			m.logger.Printf("[MockConsumer] NACK received for message: message_id=%s. Re-queueing (mock)", msg.MessageID)
			select {
			case m.messages <- msg:
			default:
				m.logger.Printf("[MockConsumer] Warning: Failed to re-queue message (channel full?): message_id=%s", msg.MessageID)
			}
		}
		return msg, ackCallback, nil
	}
}

// Close closes the message channel.
func (m *MockConsumer) Close() error {
	m.logger.Println("[MockConsumer] Closing...")
	close(m.messages)
	return nil
}

var _ Consumer = (*MockConsumer)(nil)
