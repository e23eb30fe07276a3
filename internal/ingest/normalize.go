// Package ingest validates raw tenant input and normalizes it into a
// canonical LogRecord. It owns LogRecord creation: records leave this
// package fully stamped and are never mutated downstream.
package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"scrublog/internal/fault"
	"scrublog/internal/models"
)

const (
	// HeaderTenantID carries the tenant for text/plain uploads.
	HeaderTenantID = "X-Tenant-ID"
	// HeaderLogID optionally carries a caller-supplied log id.
	HeaderLogID = "X-Log-ID"

	maxTenantIDLength = 64
)

var tenantIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateTenantID checks the tenant identifier rules: non-empty after
// trimming, at most 64 characters, charset [A-Za-z0-9_-]. It returns
// the trimmed id, or a validation detail naming the violated rule.
func ValidateTenantID(tenantID string) (string, *fault.Detail) {
	if tenantID == "" {
		return "", fault.Validation("Invalid tenant_id", "tenant_id is required")
	}
	trimmed := strings.TrimSpace(tenantID)
	if trimmed == "" {
		return "", fault.Validation("Invalid tenant_id", "tenant_id cannot be empty")
	}
	if len(trimmed) > maxTenantIDLength {
		return "", fault.Validation("Invalid tenant_id", "tenant_id must be less than 64 characters")
	}
	if !tenantIDPattern.MatchString(trimmed) {
		return "", fault.Validation("Invalid tenant_id", "tenant_id must only contain alphanumeric characters, hyphens, or underscores")
	}
	return trimmed, nil
}

// NormalizeJSON validates an application/json ingest body and produces
// a LogRecord with source json_upload.
//
// Rules: text is required and must be a JSON string (may be empty);
// log_id, if present, must be a string and is trimmed; a blank or
// absent log_id is replaced with a generated token.
func NormalizeJSON(body []byte) (*models.LogRecord, *fault.Detail) {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fault.Validation("Invalid JSON", "request body must be valid JSON")
	}

	tenantID, detail := tenantFromValue(data["tenant_id"])
	if detail != nil {
		return nil, detail
	}

	rawText, ok := data["text"]
	if !ok || rawText == nil {
		return nil, fault.Validation("Missing text", "text field is required")
	}
	text, ok := rawText.(string)
	if !ok {
		return nil, fault.Validation("Invalid text", "text must be a string")
	}

	logID := ""
	if rawLogID, ok := data["log_id"]; ok && rawLogID != nil {
		s, ok := rawLogID.(string)
		if !ok {
			return nil, fault.Validation("Invalid log_id", "log_id must be a string")
		}
		logID = strings.TrimSpace(s)
	}
	if logID == "" {
		logID = uuid.NewString()
	}

	return newRecord(tenantID, logID, text, models.SourceJSONUpload), nil
}

// NormalizeText validates a text/plain ingest request and produces a
// LogRecord with source text_upload. The tenant comes from the
// X-Tenant-ID header (matched case-insensitively), the log id from the
// optional X-Log-ID header, and the body text defaults to empty.
func NormalizeText(rawText string, headers http.Header) (*models.LogRecord, *fault.Detail) {
	tenantID, detail := ValidateTenantID(headers.Get(HeaderTenantID))
	if detail != nil {
		reason := detail.Reason
		if reason == "" {
			reason = fmt.Sprintf("%s header is required for text/plain content", HeaderTenantID)
		}
		return nil, fault.Validation("Missing or invalid X-Tenant-ID header", reason)
	}

	logID := strings.TrimSpace(headers.Get(HeaderLogID))
	if logID == "" {
		logID = uuid.NewString()
	}

	return newRecord(tenantID, logID, rawText, models.SourceTextUpload), nil
}

func tenantFromValue(raw interface{}) (string, *fault.Detail) {
	if raw == nil {
		return "", fault.Validation("Invalid tenant_id", "tenant_id is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", fault.Validation("Invalid tenant_id", "tenant_id must be a string")
	}
	return ValidateTenantID(s)
}

func newRecord(tenantID, logID, text, source string) *models.LogRecord {
	return &models.LogRecord{
		TenantID:   tenantID,
		LogID:      logID,
		Text:       text,
		Source:     source,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339Nano),
		TextLength: len(text),
	}
}
