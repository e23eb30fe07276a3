package producer

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"scrublog/config"
	"scrublog/internal/fault"
	"scrublog/internal/models"
)

// HeaderMessageID carries the producer-assigned message identifier on
// the wire so the consumer can report partial-batch failures with the
// same identifier the producer returned to the caller.
const HeaderMessageID = "message_id"

// messageWriter is the slice of kafka.Writer the producer needs.
// Narrowed to an interface so the retry path is testable without a broker.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaProducer implements the Producer interface on a Kafka topic
type KafkaProducer struct {
	writer      messageWriter
	closer      func() error
	logger      *log.Logger
	topic       string
	maxAttempts int
	baseBackoff time.Duration
}

// NewKafkaProducer creates a new KafkaProducer
func NewKafkaProducer(cfg config.KafkaProducerConfig, logger *log.Logger) (*KafkaProducer, error) {
	if !cfg.Configured() {
		return nil, errors.New("kafka producer configuration incomplete: both brokers and topic are required")
	}

	// Parse required_acks setting
	var requiredAcks kafka.RequiredAcks
	switch cfg.RequiredAcks {
	case "none":
		requiredAcks = kafka.RequireNone
	case "all":
		requiredAcks = kafka.RequireAll
	default:
		requiredAcks = kafka.RequireOne // Default to wait for leader
	}

	// Configure Kafka Writer. Synchronous: the enqueue result must
	// reflect actual submission before the HTTP response is written.
	w := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},

		RequiredAcks: requiredAcks,
		Async:        false,

		WriteTimeout: config.Duration(cfg.WriteTimeout, 5*time.Second),
		ReadTimeout:  config.Duration(cfg.ReadTimeout, 5*time.Second),

		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			logger.Printf("Kafka Writer Error: "+msg, args...)
		}),
	}

	logger.Printf("Kafka producer created, connected to Brokers: %v, Topic: %s", cfg.Brokers, cfg.Topic)

	return &KafkaProducer{
		writer:      w,
		closer:      w.Close,
		logger:      logger,
		topic:       cfg.Topic,
		maxAttempts: cfg.MaxAttempts,
		baseBackoff: config.Duration(cfg.RetryBackoff, 100*time.Millisecond),
	}, nil
}

// Enqueue serializes the record and submits it to the topic with the
// tenant_id and source routing attributes attached as headers.
//
// Transient failures are retried up to the configured bound with
// exponential backoff (base, 2*base, ...); permanent failures fail
// immediately. A panic anywhere in the send path is recovered and
// reported as an unclassified failure so the caller can still return
// a uniform error response.
func (p *KafkaProducer) Enqueue(ctx context.Context, rec *models.LogRecord) (messageID string, detail *fault.Detail) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("Kafka producer: recovered panic during enqueue (log_id: %s): %v", rec.LogID, r)
			messageID = ""
			detail = fault.Unclassifiedf("Queue unavailable", "unexpected enqueue failure: %v", r)
		}
	}()

	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fault.Permanentf("Queue unavailable", "failed to serialize log record: %v", err)
	}

	messageID = uuid.NewString()
	msg := kafka.Message{
		// Key by log_id so retried submissions of the same record land
		// on the same partition.
		Key:   []byte(rec.LogID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "tenant_id", Value: []byte(rec.TenantID)},
			{Key: "source", Value: []byte(rec.Source)},
			{Key: HeaderMessageID, Value: []byte(messageID)},
		},
	}

	var last *fault.Detail
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if attempt > 0 {
			// 100ms, 200ms, ... doubling after each failed attempt
			delay := p.baseBackoff << (attempt - 1)
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fault.Transientf("Queue unavailable", "enqueue aborted: %v", ctx.Err())
			case <-timer.C:
			}
		}

		err := p.writer.WriteMessages(ctx, msg)
		if err == nil {
			return messageID, nil
		}

		last = classifySendError(err)
		p.logger.Printf("Kafka producer: send failed (attempt %d/%d, log_id: %s, kind: %s): %v",
			attempt+1, p.maxAttempts, rec.LogID, last.Kind, err)

		if !last.Retryable() {
			return "", last
		}
	}

	return "", fault.Transientf("Queue unavailable", "send failed after %d attempts: %s", p.maxAttempts, last.Reason)
}

// Mode reports the live-queue mode.
func (p *KafkaProducer) Mode() string { return ModeKafka }

// Close closes the producer
func (p *KafkaProducer) Close() error {
	p.logger.Println("Closing Kafka producer...")
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

// classifySendError sorts a Kafka send error into the retry taxonomy.
// Protocol errors the broker marks temporary, context deadlines and
// transport errors are transient; everything the broker rejects
// outright (bad request shape, authorization) is permanent.
func classifySendError(err error) *fault.Detail {
	var kerr kafka.Error
	if errors.As(err, &kerr) {
		if kerr.Temporary() {
			return fault.Transientf("Queue unavailable", "kafka error: %v", kerr)
		}
		return fault.Permanentf("Queue unavailable", "kafka error: %v", kerr)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fault.Transientf("Queue unavailable", "%v", err)
	}
	// Network-level failures (connection refused, reset) surface as
	// plain errors from the transport; treat them as transient.
	return fault.Transientf("Queue unavailable", "send error: %v", err)
}

var _ Producer = (*KafkaProducer)(nil) // Compile-time interface check
