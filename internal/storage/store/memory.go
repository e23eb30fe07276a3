package store

import (
	"context"
	"sync"

	"scrublog/internal/fault"
	"scrublog/internal/models"
)

// MemoryStore is a map-backed Store for tests and local bring-up. It
// mirrors the upsert semantics of the Postgres store: full-row
// replacement keyed by (tenant_id, log_id).
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]models.ProcessedRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.ProcessedRecord)}
}

// Save stores a copy of the record, replacing any previous row with
// the same key.
func (s *MemoryStore) Save(ctx context.Context, rec *models.ProcessedRecord) *fault.Detail {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.TenantID+"/"+rec.LogID] = *rec
	return nil
}

// Get returns the stored record for (tenantID, logID), if any.
func (s *MemoryStore) Get(tenantID, logID string) (models.ProcessedRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[tenantID+"/"+logID]
	return rec, ok
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Close is a no-op.
func (s *MemoryStore) Close() {}

var _ Store = (*MemoryStore)(nil)
