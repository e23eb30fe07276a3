package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"

	"scrublog/internal/fault"
	"scrublog/internal/models"
)

// Upsert keyed by (tenant_id, log_id): reprocessing a redelivered
// message replaces the row with an identical value.
const upsertProcessedRecord = `
INSERT INTO processed_records (tenant_id, log_id, source, original_text, modified_data, processed_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (tenant_id, log_id) DO UPDATE SET
    source = EXCLUDED.source,
    original_text = EXCLUDED.original_text,
    modified_data = EXCLUDED.modified_data,
    processed_at = EXCLUDED.processed_at`

// PostgresStore implements Store on a pgx connection pool
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgresStore creates a PostgresStore with a configured pool
func NewPostgresStore(ctx context.Context, dsn string, maxConns, minConns int, logger *log.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database DSN: %w", err)
	}
	poolCfg.MaxConns = int32(maxConns)
	poolCfg.MinConns = int32(minConns)

	pool, err := pgxpool.ConnectConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.Printf("Postgres store connected (max_conns: %d, min_conns: %d)", maxConns, minConns)

	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Save durably stores one processed record.
func (s *PostgresStore) Save(ctx context.Context, rec *models.ProcessedRecord) *fault.Detail {
	_, err := s.pool.Exec(ctx, upsertProcessedRecord,
		rec.TenantID, rec.LogID, rec.Source, rec.OriginalText, rec.RedactedText, rec.ProcessedAt)
	if err != nil {
		detail := classifyStoreError(err)
		s.logger.Printf("Postgres store: save failed (tenant: %s, log: %s, kind: %s): %v",
			rec.TenantID, rec.LogID, detail.Kind, err)
		return detail
	}
	return nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.logger.Println("Closing Postgres store...")
	s.pool.Close()
}

// classifyStoreError sorts a backend error by SQLSTATE class: data and
// constraint violations are validation errors, connection and
// shutdown/insufficient-resource classes mean the backend is
// unavailable, and everything else is unclassified.
func classifyStoreError(err error) *fault.Detail {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		class := ""
		if len(pgErr.Code) >= 2 {
			class = pgErr.Code[:2]
		}
		switch class {
		case "22", "23": // data exception, integrity constraint violation
			return fault.Validation("Store rejected record", fmt.Sprintf("database error %s: %s", pgErr.Code, pgErr.Message))
		case "08", "53", "57": // connection, resources, operator intervention
			return fault.Transientf("Store unavailable", "database error %s: %s", pgErr.Code, pgErr.Message)
		default:
			return fault.Unclassifiedf("Store error", "database error %s: %s", pgErr.Code, pgErr.Message)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fault.Transientf("Store unavailable", "network error: %v", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fault.Transientf("Store unavailable", "%v", err)
	}

	return fault.Unclassifiedf("Store error", "%v", err)
}

var _ Store = (*PostgresStore)(nil)
