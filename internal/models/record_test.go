package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchResultWireShape(t *testing.T) {
	result := BatchResult{FailedIDs: []string{"m-2", "m-4"}}

	b, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"batchItemFailures":[{"itemIdentifier":"m-2"},{"itemIdentifier":"m-4"}]}`, string(b))
}

func TestBatchResultEmpty(t *testing.T) {
	b, err := json.Marshal(BatchResult{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"batchItemFailures":[]}`, string(b))
}

func TestLogRecordJSONTags(t *testing.T) {
	rec := LogRecord{
		TenantID:   "acme-1",
		LogID:      "log-1",
		Text:       "hello",
		Source:     SourceJSONUpload,
		ReceivedAt: "2024-01-01T00:00:00Z",
		TextLength: 5,
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"tenant_id": "acme-1",
		"log_id": "log-1",
		"text": "hello",
		"source": "json_upload",
		"received_at": "2024-01-01T00:00:00Z",
		"text_length": 5
	}`, string(b))
}

func TestProcessedRecordUsesModifiedDataField(t *testing.T) {
	rec := ProcessedRecord{
		TenantID:     "acme-1",
		LogID:        "log-1",
		Source:       SourceTextUpload,
		OriginalText: "call 555-123-4567",
		RedactedText: "call [REDACTED]",
		ProcessedAt:  "2024-01-01T00:00:00Z",
	}

	b, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "call [REDACTED]", m["modified_data"])
	assert.Equal(t, "call 555-123-4567", m["original_text"])
}
