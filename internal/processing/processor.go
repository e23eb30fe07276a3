// Package processing drives queued messages through redaction and
// persistence, reporting per-message partial failures.
package processing

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"scrublog/internal/fault"
	"scrublog/internal/models"
	"scrublog/internal/redact"
	"scrublog/internal/storage/store"
)

// Processor turns raw queue messages into persisted, redacted records.
type Processor struct {
	store  store.Store
	logger *log.Logger
}

// NewProcessor creates a Processor writing to the given store.
func NewProcessor(s store.Store, logger *log.Logger) *Processor {
	return &Processor{store: s, logger: logger}
}

// ProcessBatch processes every message in the batch independently and
// returns the identifiers of the messages that were NOT successfully
// processed. Isolation: one message's failure never blocks or corrupts
// processing of another; the remaining messages are implicitly
// acknowledged as done and only the listed ones are redelivered.
func (p *Processor) ProcessBatch(ctx context.Context, msgs []*models.RawMessage) models.BatchResult {
	var failedIDs []string

	for _, msg := range msgs {
		if detail := p.processMessage(ctx, msg); detail != nil {
			p.logger.Printf("Failed message %s (kind: %s): %v", msg.MessageID, detail.Kind, detail)
			failedIDs = append(failedIDs, msg.MessageID)
		}
	}

	p.logger.Printf("Batch complete: %d success, %d failures", len(msgs)-len(failedIDs), len(failedIDs))
	return models.BatchResult{FailedIDs: failedIDs}
}

// processMessage runs one message through parse, validate, redact and
// persist. A panic in any step is recovered into the unclassified arm
// so a poisoned message cannot take its siblings down with it.
func (p *Processor) processMessage(ctx context.Context, msg *models.RawMessage) (detail *fault.Detail) {
	defer func() {
		if r := recover(); r != nil {
			detail = fault.Unclassifiedf("Processing error", "recovered panic: %v", r)
		}
	}()

	// 1. Parse the message body into the normalized record shape
	var rec models.LogRecord
	if err := json.Unmarshal([]byte(msg.Body), &rec); err != nil {
		return fault.Validation("Invalid JSON", err.Error())
	}

	// 2. Validate required fields
	if rec.TenantID == "" {
		return fault.Validation("Missing tenant_id", "tenant_id is required")
	}
	if rec.LogID == "" {
		return fault.Validation("Missing log_id", "log_id is required")
	}

	source := rec.Source
	if source == "" {
		source = models.SourceUnknown
	}

	// 3. Redact sensitive data
	redacted := redact.Redact(rec.Text)

	// 4. Persist the derived record. The LogRecord itself stays
	// untouched; retries overwrite with an identical row.
	processed := &models.ProcessedRecord{
		TenantID:     rec.TenantID,
		LogID:        rec.LogID,
		Source:       source,
		OriginalText: rec.Text,
		RedactedText: redacted,
		ProcessedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}

	if d := p.store.Save(ctx, processed); d != nil {
		return d
	}

	return nil
}
