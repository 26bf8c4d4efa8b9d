package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"companydb/internal/importlog"
)

// HistoryStore is a Postgres-backed importlog.Store.
type HistoryStore struct {
	pool *pgxpool.Pool
}

// NewHistoryStore wraps a caller-owned pool.
func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

// Insert writes one history record and returns its generated id.
func (s *HistoryStore) Insert(ctx context.Context, rec importlog.Record) (int64, error) {
	const q = `
		INSERT INTO public.import_history
			(database_name, table_name, file_name, size_bytes, checksum,
			 row_count, status, error_text, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id int64
	err := s.pool.QueryRow(ctx, q,
		rec.Database, nilIfEmpty(rec.TableName), rec.FileName, rec.SizeBytes,
		nilIfEmpty(rec.Checksum), rec.Rows, rec.Status, nilIfEmpty(rec.Error),
		nilIfZero(rec.StartedAt), nilIfZero(rec.FinishedAt),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("postgres: insert history: %w", err)
	}
	return id, nil
}

// List returns the most recent records, newest first. When database is
// non-empty the listing is restricted to that company database.
func (s *HistoryStore) List(ctx context.Context, database string, limit int) ([]importlog.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	const base = `
		SELECT id, database_name, COALESCE(table_name, ''), file_name,
		       size_bytes, COALESCE(checksum, ''), row_count, status,
		       COALESCE(error_text, ''), started_at, finished_at
		FROM public.import_history`

	q := base + " ORDER BY id DESC LIMIT $1"
	args := []any{limit}
	if database != "" {
		q = base + " WHERE database_name = $1 ORDER BY id DESC LIMIT $2"
		args = []any{database, limit}
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: list history: %w", err)
	}
	defer rows.Close()

	var out []importlog.Record
	for rows.Next() {
		var rec importlog.Record
		var started, finished *time.Time
		if err := rows.Scan(
			&rec.ID, &rec.Database, &rec.TableName, &rec.FileName,
			&rec.SizeBytes, &rec.Checksum, &rec.Rows, &rec.Status,
			&rec.Error, &started, &finished,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan history: %w", err)
		}
		if started != nil {
			rec.StartedAt = *started
		}
		if finished != nil {
			rec.FinishedAt = *finished
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list history: %w", err)
	}
	return out, nil
}

// nilIfEmpty maps "" to NULL so optional text columns stay NULL-able.
func nilIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// nilIfZero maps the zero time to NULL.
func nilIfZero(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
