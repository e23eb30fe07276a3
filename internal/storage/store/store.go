// Package store owns the durable copy of processed records.
package store

import (
	"context"
	"log"

	"scrublog/internal/fault"
	"scrublog/internal/models"
)

// Store persists processed records. Save is a full-row replacement
// keyed by (tenant_id, log_id), so redeliveries that reprocess the
// same message overwrite with an identical value: writes are
// idempotent. Save never retries internally; redelivery is the
// queue's job, driven by the batch item failure the caller reports.
type Store interface {
	Save(ctx context.Context, rec *models.ProcessedRecord) *fault.Detail

	// Close releases the underlying connections.
	Close()
}

// UnconfiguredStore is the typed variant used when no backing store is
// configured. Every Save fails with a configuration error: persistence
// failure must be visible and drive a batch item failure, never a
// silent local mode.
type UnconfiguredStore struct {
	logger *log.Logger
}

// NewUnconfiguredStore creates the unconfigured store variant.
func NewUnconfiguredStore(logger *log.Logger) *UnconfiguredStore {
	logger.Println("WARNING: no database DSN configured - all persistence attempts will fail")
	return &UnconfiguredStore{logger: logger}
}

// Save always fails with a configuration-kind detail.
func (s *UnconfiguredStore) Save(ctx context.Context, rec *models.ProcessedRecord) *fault.Detail {
	return fault.Configf("Store not configured", "no database DSN configured; cannot persist tenant=%s log=%s", rec.TenantID, rec.LogID)
}

// Close is a no-op.
func (s *UnconfiguredStore) Close() {}

var _ Store = (*UnconfiguredStore)(nil)
