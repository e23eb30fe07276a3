// Package httpapi exposes the ingestion HTTP surface: health checks
// and the /ingest endpoint feeding the queue producer.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"scrublog/config"
	"scrublog/internal/fault"
	"scrublog/internal/ingest"
	"scrublog/internal/messaging/producer"
	"scrublog/internal/models"
)

const (
	serviceName = "scrublog-ingestion"
	maxBodySize = 10 * 1024 * 1024 // 10MB limit
)

var supportedContentTypes = []string{"application/json", "text/plain"}

// Handler encapsulates the logic for handling HTTP ingest requests
type Handler struct {
	producer producer.Producer
	limiter  *rate.Limiter // nil when rate limiting is disabled
	logger   *log.Logger
}

// NewHandler creates a new Handler
func NewHandler(p producer.Producer, rl config.RateLimitConfig, l *log.Logger) *Handler {
	var limiter *rate.Limiter
	if rl.RequestsPerSecond > 0 {
		burst := rl.Burst
		if burst <= 0 {
			burst = int(rl.RequestsPerSecond)
		}
		limiter = rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst)
	}
	return &Handler{producer: p, limiter: limiter, logger: l}
}

// Routes returns the handler's route table.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.HealthCheck)
	mux.HandleFunc("/ingest", h.Ingest)
	mux.HandleFunc("/", h.notFound)
	return mux
}

// Ingest handles POST /ingest requests: validate and normalize by
// content type, then hand off to the queue producer.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	// Unexpected panics become a uniform 500 rather than a crash
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Printf("HTTP Handler: recovered panic in /ingest: %v", rec)
			h.respondJSON(w, map[string]interface{}{
				"error":       "Internal server error",
				"message":     "An unexpected error occurred. Please retry.",
				"retry_after": 5,
			}, http.StatusInternalServerError)
		}
	}()

	if r.Method != http.MethodPost {
		h.methodNotAllowed(w, r)
		return
	}

	if h.limiter != nil && !h.limiter.Allow() {
		h.respondJSON(w, map[string]interface{}{
			"error":       "Too Many Requests",
			"message":     "Request rate limit exceeded",
			"retry_after": 1,
		}, http.StatusTooManyRequests)
		return
	}

	// Request size limit
	if r.ContentLength > maxBodySize {
		h.respondError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	contentType := r.Header.Get("Content-Type")

	var record *models.LogRecord
	var detail *fault.Detail

	switch {
	case strings.Contains(contentType, "application/json"):
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			h.respondError(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		record, detail = ingest.NormalizeJSON(body)

	case strings.Contains(contentType, "text/plain"):
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
		if err != nil {
			h.respondError(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		record, detail = ingest.NormalizeText(string(body), r.Header)

	default:
		h.respondJSON(w, map[string]interface{}{
			"error":           "Unsupported Content-Type",
			"details":         fmt.Sprintf("Expected 'application/json' or 'text/plain', got '%s'", contentType),
			"supported_types": supportedContentTypes,
		}, http.StatusUnsupportedMediaType)
		return
	}
	defer r.Body.Close()

	if detail != nil {
		h.respondJSON(w, map[string]interface{}{
			"error":   detail.Message,
			"details": detail.Reason,
		}, http.StatusBadRequest)
		return
	}

	// Hand off to the queue. The producer's bounded retry loop blocks
	// this request, so worst-case added latency is the backoff sum.
	messageID, detail := h.producer.Enqueue(r.Context(), record)
	if detail != nil {
		h.logger.Printf("HTTP Handler: enqueue failed for log_id=%s: %v", record.LogID, detail)
		h.respondJSON(w, map[string]interface{}{
			"error":       "Queue unavailable",
			"message":     "Please retry your request",
			"retry_after": 5,
			"details":     detail.Reason,
		}, http.StatusInternalServerError)
		return
	}

	h.logger.Printf("Accepted: tenant=%s, log=%s", record.TenantID, record.LogID)

	h.respondJSON(w, map[string]interface{}{
		"status":     "accepted",
		"log_id":     record.LogID,
		"tenant_id":  record.TenantID,
		"message":    "Processing queued successfully",
		"message_id": messageID,
	}, http.StatusAccepted)
}

// HealthCheck handles GET /health requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.methodNotAllowed(w, r)
		return
	}

	resp := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"service":   serviceName,
		"config": map[string]interface{}{
			"queue_configured": h.producer.Mode() != producer.ModeLocal,
			"mode":             h.producer.Mode(),
		},
	}

	h.respondJSON(w, resp, http.StatusOK)
}

// notFound handles requests for unknown endpoints
func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]interface{}{
		"error":               "Not Found",
		"message":             "The requested endpoint does not exist",
		"available_endpoints": []string{"GET /health", "POST /ingest"},
	}, http.StatusNotFound)
}

// methodNotAllowed rejects unsupported methods on known endpoints
func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]interface{}{
		"error":   "Method Not Allowed",
		"message": fmt.Sprintf("The %s method is not allowed for this endpoint", r.Method),
	}, http.StatusMethodNotAllowed)
}

// respondJSON sends JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("HTTP Handler: Failed to encode JSON response: %v", err)
		// Cannot send error to client at this point
	}
}

// respondError sends a generic error response
func (h *Handler) respondError(w http.ResponseWriter, message string, statusCode int) {
	h.respondJSON(w, map[string]interface{}{
		"error":   message,
		"status":  statusCode,
		"message": http.StatusText(statusCode),
	}, statusCode)
}
