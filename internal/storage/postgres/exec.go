// Package postgres implements the execution boundary and the import-history
// store on top of pgx v5.
//
// The pool is owned by the caller and passed in; nothing in this package
// creates, caches, or closes connections behind the caller's back.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Executor runs DDL statement batches inside a single transaction. It
// implements storage.Execer.
type Executor struct {
	pool *pgxpool.Pool
}

// NewExecutor wraps a caller-owned pool.
func NewExecutor(pool *pgxpool.Pool) *Executor {
	return &Executor{pool: pool}
}

// Apply executes every statement in order inside one transaction. On the
// first failure the transaction rolls back and the error is returned with
// the server's detail text when available, so a COMMENT failing after a
// CREATE TABLE cannot leave the table behind.
func (e *Executor) Apply(ctx context.Context, stmts ...string) error {
	if len(stmts) == 0 {
		return nil
	}

	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, stmt := range stmts {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Detail != "" {
				return fmt.Errorf("postgres: exec: %s (%s)", pgErr.Detail, pgErr.SQLState())
			}
			return fmt.Errorf("postgres: exec: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}
