// Package usage records external provider calls for quota and cost
// observability. Recording is best-effort: failures are logged by the
// caller, never surfaced to the search.
package usage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kurosh87/optimalflight/internal/models"
)

type Recorder interface {
	Record(ctx context.Context, rec models.UsageRecord) error
}

// NewRecord stamps a usage record with an ID and creation time.
func NewRecord(provider, endpoint, params string, statusCode int, durationMs int64, credits *int) models.UsageRecord {
	return models.UsageRecord{
		ID:            uuid.NewString(),
		Provider:      provider,
		Endpoint:      endpoint,
		RequestParams: params,
		StatusCode:    statusCode,
		DurationMs:    durationMs,
		Credits:       credits,
		CreatedAt:     time.Now().UTC(),
	}
}

// PostgresRecorder persists usage rows.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

func NewPostgresRecorder(pool *pgxpool.Pool) *PostgresRecorder {
	return &PostgresRecorder{pool: pool}
}

func (r *PostgresRecorder) Record(ctx context.Context, rec models.UsageRecord) error {
	const q = `
		INSERT INTO provider_usage
			(id, provider, endpoint, request_params, status_code, duration_ms, credits, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, q,
		rec.ID, rec.Provider, rec.Endpoint, rec.RequestParams,
		rec.StatusCode, rec.DurationMs, rec.Credits, rec.CreatedAt,
	)
	return err
}

// MemoryRecorder collects records in process, for tests and no-database runs.
type MemoryRecorder struct {
	mu      sync.Mutex
	records []models.UsageRecord
}

func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{}
}

func (r *MemoryRecorder) Record(_ context.Context, rec models.UsageRecord) error {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
	return nil
}

// Records returns a copy of everything recorded so far.
func (r *MemoryRecorder) Records() []models.UsageRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.UsageRecord, len(r.records))
	copy(out, r.records)
	return out
}
