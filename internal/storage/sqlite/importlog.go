// Package sqlite implements the import-history store on a local SQLite file
// via database/sql. It exists for development and tests, where spinning up a
// Postgres server is overkill; the schema mirrors the Postgres
// import_history table in SQLite's dialect.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure-Go driver, registers as "sqlite"

	"companydb/internal/importlog"
)

// HistoryStore is a SQLite-backed importlog.Store.
type HistoryStore struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at dsn and returns the store
// plus a close function. DSN is passed to database/sql directly, e.g.
// "file:companydb.db?cache=shared" or a bare path.
func Open(ctx context.Context, dsn string) (*HistoryStore, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	return &HistoryStore{db: db}, func() { db.Close() }, nil
}

// Init creates the history table if it is missing. SQLite has no BIGSERIAL
// or TIMESTAMPTZ, so the table is declared here in its own dialect rather
// than through the Postgres DDL generator.
func (s *HistoryStore) Init(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS import_history (
		  id            INTEGER PRIMARY KEY AUTOINCREMENT,
		  database_name TEXT NOT NULL,
		  table_name    TEXT,
		  file_name     TEXT NOT NULL,
		  size_bytes    INTEGER NOT NULL DEFAULT 0,
		  checksum      TEXT,
		  row_count     INTEGER NOT NULL DEFAULT 0,
		  status        TEXT NOT NULL DEFAULT 'ok',
		  error_text    TEXT,
		  started_at    TIMESTAMP,
		  finished_at   TIMESTAMP
		);`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("sqlite: init: %w", err)
	}
	return nil
}

// Insert writes one history record and returns its generated id.
func (s *HistoryStore) Insert(ctx context.Context, rec importlog.Record) (int64, error) {
	const q = `
		INSERT INTO import_history
			(database_name, table_name, file_name, size_bytes, checksum,
			 row_count, status, error_text, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, q,
		rec.Database, rec.TableName, rec.FileName, rec.SizeBytes, rec.Checksum,
		rec.Rows, rec.Status, rec.Error, timeOrNil(rec.StartedAt), timeOrNil(rec.FinishedAt))
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert history: %w", err)
	}
	return id, nil
}

// List returns the most recent records, newest first, optionally filtered by
// company database name.
func (s *HistoryStore) List(ctx context.Context, database string, limit int) ([]importlog.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	const base = `
		SELECT id, database_name, COALESCE(table_name, ''), file_name,
		       size_bytes, COALESCE(checksum, ''), row_count, status,
		       COALESCE(error_text, ''), started_at, finished_at
		FROM import_history`

	q := base + " ORDER BY id DESC LIMIT ?"
	args := []any{limit}
	if database != "" {
		q = base + " WHERE database_name = ? ORDER BY id DESC LIMIT ?"
		args = []any{database, limit}
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list history: %w", err)
	}
	defer rows.Close()

	var out []importlog.Record
	for rows.Next() {
		var rec importlog.Record
		var started, finished sql.NullTime
		if err := rows.Scan(
			&rec.ID, &rec.Database, &rec.TableName, &rec.FileName,
			&rec.SizeBytes, &rec.Checksum, &rec.Rows, &rec.Status,
			&rec.Error, &started, &finished,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan history: %w", err)
		}
		if started.Valid {
			rec.StartedAt = started.Time
		}
		if finished.Valid {
			rec.FinishedAt = finished.Time
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list history: %w", err)
	}
	return out, nil
}

// timeOrNil maps the zero time to NULL.
func timeOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
