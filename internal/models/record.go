package models

import "encoding/json"

// Ingestion sources identify which channel a record arrived through.
const (
	SourceJSONUpload = "json_upload"
	SourceTextUpload = "text_upload"
	SourceUnknown    = "unknown"
)

// LogRecord is the normalized form of one ingested log entry.
// It is created once by the normalizer and never mutated afterwards;
// the worker derives a ProcessedRecord from it instead of editing it.
type LogRecord struct {
	TenantID   string `json:"tenant_id"`
	LogID      string `json:"log_id"`
	Text       string `json:"text"`
	Source     string `json:"source"`
	ReceivedAt string `json:"received_at"` // UTC, RFC3339Nano
	TextLength int    `json:"text_length"`
}

// ProcessedRecord is the durable, redacted form of a LogRecord.
// The persisted layout keeps the historical column name "modified_data"
// for the redacted text. Keyed by (tenant_id, log_id); writes are
// idempotent full-row replacements.
type ProcessedRecord struct {
	TenantID     string `json:"tenant_id"`
	LogID        string `json:"log_id"`
	Source       string `json:"source"`
	OriginalText string `json:"original_text"`
	RedactedText string `json:"modified_data"`
	ProcessedAt  string `json:"processed_at"` // UTC, RFC3339Nano
}

// RawMessage is one queued message as delivered to the worker: the
// queue-assigned identifier plus the serialized LogRecord body.
type RawMessage struct {
	MessageID string `json:"messageId"`
	Body      string `json:"body"`
}

// BatchResult reports the identifiers of messages that were NOT
// successfully processed. Everything else in the batch is implicitly
// acknowledged; the queue redelivers only the listed identifiers.
type BatchResult struct {
	FailedIDs []string
}

// BatchItemFailure is the wire form of one failed identifier.
type BatchItemFailure struct {
	ItemIdentifier string `json:"itemIdentifier"`
}

// MarshalJSON renders the partial-batch response shape:
// {"batchItemFailures":[{"itemIdentifier":...},...]}.
func (r BatchResult) MarshalJSON() ([]byte, error) {
	failures := make([]BatchItemFailure, 0, len(r.FailedIDs))
	for _, id := range r.FailedIDs {
		failures = append(failures, BatchItemFailure{ItemIdentifier: id})
	}
	return json.Marshal(map[string][]BatchItemFailure{"batchItemFailures": failures})
}
