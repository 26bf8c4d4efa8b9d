// Package storage defines the execution boundary between the description
// core (spec/validate/ddl) and a relational store.
//
// The core never opens connections or runs SQL; it only produces statement
// text. Everything that touches a database implements the interfaces below.
// Resource handles (pools, *sql.DB) are owned by the caller and passed in
// explicitly; implementations must not create or hide global connections.
package storage

import "context"

// Execer runs one or more DDL statements against a store inside a single
// transaction. Either every statement takes effect or none do, so a failure
// partway through a multi-statement operation (e.g. CREATE TABLE followed by
// COMMENT ON TABLE) cannot leave a half-created object behind.
type Execer interface {
	Apply(ctx context.Context, stmts ...string) error
}

// ExecFunc adapts a function to the Execer interface. Tests use it to record
// statements without a database.
type ExecFunc func(ctx context.Context, stmts ...string) error

// Apply implements Execer.
func (f ExecFunc) Apply(ctx context.Context, stmts ...string) error {
	return f(ctx, stmts...)
}
