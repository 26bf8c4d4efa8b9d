// Package provision coordinates the full life of a DDL request: validate the
// description, compile it to statement text, and (when an executor is
// supplied) apply the statements atomically.
//
// The split keeps responsibilities clean: the validate and ddl packages stay
// pure, the storage package owns transactions, and this package is the only
// place that sequences them. Passing a nil executor turns every operation
// into a dry run that stops after compilation, which is what the HTTP API
// and the CLI use to show users the statements without running them.
package provision

import (
	"context"
	"time"

	"companydb/internal/ddl"
	"companydb/internal/logger"
	"companydb/internal/metrics"
	"companydb/internal/spec"
	"companydb/internal/storage"
	"companydb/internal/validate"
)

// Result reports what happened to one request. When the description fails
// validation, Verdict carries the problems and Statements stays empty; a
// verdict failure is not a Go error. Applied is true only when an executor
// ran the statements to completion.
type Result struct {
	Verdict    validate.Verdict `json:"verdict"`
	Statements []string         `json:"statements,omitempty"`
	Applied    bool             `json:"applied"`
}

// CreateTable validates and compiles a table description, then applies the
// CREATE TABLE (plus a COMMENT ON TABLE when the description text is set)
// through ex. With a nil ex the compiled statements are returned unexecuted.
func CreateTable(ctx context.Context, ex storage.Execer, t spec.TableSpec) (Result, error) {
	v := validate.TableSpec(t)
	metrics.RecordVerdict("table", v.Valid)
	if !v.Valid {
		logger.Debug("create table %s.%s rejected: %d problem(s)", t.SchemaName(), t.Name, len(v.Errors))
		return Result{Verdict: v}, nil
	}

	stmts := []string{ddl.CreateTable(t)}
	if t.Description != "" {
		stmts = append(stmts, ddl.CommentOnTable(t.SchemaName(), t.Name, t.Description))
	}

	return apply(ctx, ex, "create_table", v, stmts)
}

// DropTable validates the target names and applies a DROP TABLE. RESTRICT is
// the default; cascade removes dependent objects.
func DropTable(ctx context.Context, ex storage.Execer, name, schema string, cascade bool) (Result, error) {
	v := dropVerdict(name, schema)
	metrics.RecordVerdict("table", v.Valid)
	if !v.Valid {
		return Result{Verdict: v}, nil
	}
	return apply(ctx, ex, "drop_table", v, []string{ddl.DropTable(name, schema, cascade)})
}

// CreateSchema validates and applies a CREATE SCHEMA, including the comment
// statement when a description is present.
func CreateSchema(ctx context.Context, ex storage.Execer, s spec.SchemaSpec) (Result, error) {
	v := validate.Schema(s)
	metrics.RecordVerdict("schema", v.Valid)
	if !v.Valid {
		logger.Debug("create schema %s rejected: %d problem(s)", s.Name, len(v.Errors))
		return Result{Verdict: v}, nil
	}
	return apply(ctx, ex, "create_schema", v, []string{ddl.CreateSchema(s)})
}

// DropSchema validates the name shape and applies a DROP SCHEMA. The
// reserved names cannot be dropped any more than they can be created.
func DropSchema(ctx context.Context, ex storage.Execer, name string, cascade bool) (Result, error) {
	v := validate.Schema(spec.SchemaSpec{Name: name})
	metrics.RecordVerdict("schema", v.Valid)
	if !v.Valid {
		return Result{Verdict: v}, nil
	}
	return apply(ctx, ex, "drop_schema", v, []string{ddl.DropSchema(name, cascade)})
}

// apply runs the compiled statements when an executor is present and records
// the outcome. Execution failures are real errors: the statements were
// legal, something at the store went wrong.
func apply(ctx context.Context, ex storage.Execer, op string, v validate.Verdict, stmts []string) (Result, error) {
	res := Result{Verdict: v, Statements: stmts}
	if ex == nil {
		return res, nil
	}

	start := time.Now()
	err := ex.Apply(ctx, stmts...)
	metrics.RecordOperation(op, err, time.Since(start))
	if err != nil {
		logger.Error("%s failed: %v", op, err)
		return res, err
	}
	res.Applied = true
	logger.Info("%s applied (%d statement(s))", op, len(stmts))
	return res, nil
}

// dropVerdict checks the identifiers named by a drop request.
func dropVerdict(name, schema string) validate.Verdict {
	var errs []string
	if err := validate.Identifier(name, validate.KindTable); err != nil {
		errs = append(errs, "table name: "+err.Error())
	}
	if schema != "" {
		if err := validate.Identifier(schema, validate.KindColumn); err != nil {
			errs = append(errs, "schema name: "+err.Error())
		}
	}
	return validate.Verdict{Valid: len(errs) == 0, Errors: errs}
}
