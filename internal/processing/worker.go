package processing

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"scrublog/config"
	"scrublog/internal/messaging/consumer"
	"scrublog/internal/models"
)

// Worker consumes queued messages in batches and acknowledges them
// according to the partial-failure result: failed identifiers are
// nacked for redelivery, everything else is acked.
type Worker struct {
	processingConfig   config.ProcessingConfig
	batchTimeout       time.Duration // Parsed from processingConfig.BatchTimeout
	consumerRetryDelay time.Duration // Parsed from processingConfig.ConsumerRetryDelay

	logger    *log.Logger
	processor *Processor
	consumer  consumer.Consumer
}

// New creates a new Worker instance
func New(cfg config.ProcessingConfig, logger *log.Logger, p *Processor, c consumer.Consumer) *Worker {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}

	batchTimeout, err := time.ParseDuration(cfg.BatchTimeout)
	if err != nil {
		logger.Printf("Warning: Invalid batch_timeout '%s', using default 1s", cfg.BatchTimeout)
		batchTimeout = 1 * time.Second
	}

	consumerRetryDelay, err := time.ParseDuration(cfg.ConsumerRetryDelay)
	if err != nil {
		logger.Printf("Warning: Invalid consumer_retry_delay '%s', using default 5s", cfg.ConsumerRetryDelay)
		consumerRetryDelay = 5 * time.Second
	}

	return &Worker{
		processingConfig:   cfg,
		batchTimeout:       batchTimeout,
		consumerRetryDelay: consumerRetryDelay,
		logger:             logger,
		processor:          p,
		consumer:           c,
	}
}

// Run starts the worker pool and blocks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Printf("Starting worker pool with concurrency: %d, BatchSize: %d, BatchTimeout: %s",
		w.processingConfig.Concurrency, w.processingConfig.BatchSize, w.batchTimeout)
	var wg sync.WaitGroup
	for i := 0; i < w.processingConfig.Concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			w.logger.Printf("Worker %d started", workerID)
			w.consumeInBatches(ctx, workerID)
			w.logger.Printf("Worker %d stopped", workerID)
		}(i + 1)
	}
	wg.Wait()
	w.logger.Println("Worker pool stopped.")
}

// consumeInBatches is the main loop for a worker goroutine: accumulate
// up to BatchSize messages or BatchTimeout, then process and ack.
func (w *Worker) consumeInBatches(ctx context.Context, workerID int) {
	batch := make([]*models.RawMessage, 0, w.processingConfig.BatchSize)
	acks := make([]func(success bool), 0, w.processingConfig.BatchSize)
	batchTimer := time.NewTimer(0) // Start with stopped timer
	if !batchTimer.Stop() {
		select {
		case <-batchTimer.C:
		default:
		}
	}

	// Helper function to submit the accumulated batch
	processBatch := func() {
		if len(batch) == 0 {
			return
		}

		// Stop and drain timer
		if !batchTimer.Stop() {
			select {
			case <-batchTimer.C:
			default:
			}
		}

		w.processAndAckBatch(ctx, workerID, batch, acks)

		// Reset for next batch
		batch = make([]*models.RawMessage, 0, w.processingConfig.BatchSize)
		acks = make([]func(success bool), 0, w.processingConfig.BatchSize)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Printf("Worker %d: Context cancelled, stopping.", workerID)
			// Undelivered messages go back to the queue
			for _, ack := range acks {
				ack(false)
			}
			return

		case <-batchTimer.C:
			// Batch timeout reached
			processBatch()

		default:
			consumeCtx, consumeCancel := context.WithTimeout(ctx, 100*time.Millisecond)
			msg, ack, err := w.consumer.Consume(consumeCtx)
			consumeCancel()

			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
					continue
				}
				// Only log real consumer errors
				w.logger.Printf("Worker %d: Consumer error: %v", workerID, err)
				time.Sleep(w.consumerRetryDelay)
				continue
			}

			if msg != nil {
				// Start batch timer on first message
				if len(batch) == 0 {
					batchTimer.Reset(w.batchTimeout)
				}

				batch = append(batch, msg)
				acks = append(acks, ack)

				// Process immediately if batch is full
				if len(batch) >= w.processingConfig.BatchSize {
					processBatch()
				}
			}
		}
	}
}

// processAndAckBatch maps the partial-failure result onto per-message
// acknowledgements: failed ids are nacked so the queue redelivers only
// those messages, the rest are acked.
func (w *Worker) processAndAckBatch(ctx context.Context, workerID int, batch []*models.RawMessage, acks []func(success bool)) {
	result := w.processor.ProcessBatch(ctx, batch)

	failed := make(map[string]bool, len(result.FailedIDs))
	for _, id := range result.FailedIDs {
		failed[id] = true
	}

	if len(result.FailedIDs) > 0 {
		w.logger.Printf("Worker %d: Batch of %d had %d failures (nacking for redelivery)",
			workerID, len(batch), len(result.FailedIDs))
	}

	for i, msg := range batch {
		acks[i](!failed[msg.MessageID])
	}
}
