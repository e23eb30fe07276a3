package producer

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"scrublog/internal/fault"
	"scrublog/internal/models"
)

// localIDPrefix marks message ids synthesized without a live queue, so
// the degraded state stays observable in responses and logs.
const localIDPrefix = "local-"

// LocalProducer is the degraded-mode producer used when no queue
// endpoint is configured. Enqueue logs the would-be payload and
// reports success with a locally-tagged message id; the network is
// never touched. This keeps the ingestion API functional during
// bring-up or a queue outage.
type LocalProducer struct {
	logger *log.Logger
}

// NewLocalProducer creates a new LocalProducer
func NewLocalProducer(logger *log.Logger) *LocalProducer {
	return &LocalProducer{logger: logger}
}

// Enqueue logs the serialized record and synthesizes a local message id.
func (p *LocalProducer) Enqueue(ctx context.Context, rec *models.LogRecord) (string, *fault.Detail) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fault.Unclassifiedf("Queue unavailable", "failed to serialize log record: %v", err)
	}

	p.logger.Printf("[LOCAL MODE] Would enqueue: %s", payload)
	return localIDPrefix + uuid.NewString(), nil
}

// Mode reports the degraded mode.
func (p *LocalProducer) Mode() string { return ModeLocal }

// Close is a no-op for the local producer.
func (p *LocalProducer) Close() error { return nil }

var _ Producer = (*LocalProducer)(nil) // Compile-time interface check
