package consumer

import (
	"context"

	"scrublog/internal/models"
)

// Consumer defines the interface for message queue consumers.
//
// Consume hands the message body through unparsed: validation and
// parsing failures belong to the batch processor, which reports them
// per message, not to the transport.
type Consumer interface {
	// Consume blocks until a message is received or the context is
	// cancelled. It returns the raw message, an acknowledgement
	// callback, and any error that occurred.
	// The ack callback: ack(true) marks the message successfully
	// processed (it will not be redelivered); ack(false) leaves it for
	// redelivery.
	Consume(ctx context.Context) (msg *models.RawMessage, ack func(success bool), err error)

	// Close gracefully shuts down the consumer connection.
	Close() error
}
