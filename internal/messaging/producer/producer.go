package producer

import (
	"context"
	"log"

	"scrublog/config"
	"scrublog/internal/fault"
	"scrublog/internal/models"
)

// Producer modes reported through Mode().
const (
	ModeKafka = "kafka"
	ModeLocal = "local"
)

// Producer defines the interface for the queue hand-off. Enqueue
// serializes the record and submits it; on success it returns the
// message identifier assigned to the submission, otherwise a
// classified failure detail.
type Producer interface {
	Enqueue(ctx context.Context, rec *models.LogRecord) (messageID string, detail *fault.Detail)

	// Mode reports whether this producer delivers to a live queue
	// ("kafka") or operates in local/degraded mode ("local").
	Mode() string

	// Close closes the producer connection
	Close() error
}

// New builds the producer variant selected by configuration: a Kafka
// producer when brokers and topic are set, otherwise the local
// degraded-mode producer. The degraded path is a first-class state so
// the ingestion API keeps functioning without a live queue.
func New(cfg config.KafkaProducerConfig, logger *log.Logger) (Producer, error) {
	if !cfg.Configured() {
		logger.Println("Queue endpoint not configured - running in local/degraded mode")
		return NewLocalProducer(logger), nil
	}
	return NewKafkaProducer(cfg, logger)
}
