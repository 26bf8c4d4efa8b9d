package provision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"companydb/internal/spec"
)

// recorder is a storage.Execer that captures Apply calls.
type recorder struct {
	calls [][]string
	err   error
}

func (r *recorder) Apply(_ context.Context, stmts ...string) error {
	r.calls = append(r.calls, stmts)
	return r.err
}

func articles() spec.TableSpec {
	return spec.TableSpec{
		Name:        "articles",
		Description: "Published articles",
		Columns: []spec.ColumnSpec{
			{Name: "id", Type: "serial", Primary: true},
			{Name: "title", Type: "varchar", Length: 100, Required: true},
		},
	}
}

// TestCreateTableDryRun: nil executor stops after compilation.
func TestCreateTableDryRun(t *testing.T) {
	t.Parallel()

	res, err := CreateTable(context.Background(), nil, articles())
	if err != nil {
		t.Fatalf("CreateTable() unexpected error = %v", err)
	}
	if !res.Verdict.Valid || res.Applied {
		t.Fatalf("dry run result = %+v", res)
	}
	if len(res.Statements) != 2 {
		t.Fatalf("statements = %q, want CREATE TABLE + COMMENT", res.Statements)
	}
	if !strings.HasPrefix(res.Statements[0], "CREATE TABLE public.articles (") {
		t.Fatalf("first statement = %s", res.Statements[0])
	}
	if !strings.Contains(res.Statements[1], "COMMENT ON TABLE") {
		t.Fatalf("second statement = %s", res.Statements[1])
	}
}

// TestCreateTableApplies: a valid spec reaches the executor as one batch.
func TestCreateTableApplies(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	res, err := CreateTable(context.Background(), rec, articles())
	if err != nil {
		t.Fatalf("CreateTable() unexpected error = %v", err)
	}
	if !res.Applied {
		t.Fatalf("result = %+v, want applied", res)
	}
	if len(rec.calls) != 1 || len(rec.calls[0]) != 2 {
		t.Fatalf("executor calls = %+v, want one batch of two statements", rec.calls)
	}
}

// TestCreateTableInvalidNeverExecutes: validation failure is data, not an
// error, and must not touch the store.
func TestCreateTableInvalidNeverExecutes(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	bad := spec.TableSpec{Name: "articles", Columns: []spec.ColumnSpec{
		{Name: "title", Type: "varchar"}, // no primary key, no length
	}}

	res, err := CreateTable(context.Background(), rec, bad)
	if err != nil {
		t.Fatalf("CreateTable() unexpected error = %v", err)
	}
	if res.Verdict.Valid || res.Applied || len(res.Statements) != 0 {
		t.Fatalf("result = %+v, want invalid verdict only", res)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("executor was called for an invalid spec: %+v", rec.calls)
	}
}

// TestCreateTableExecutionError: store failures propagate as errors while
// the statements stay visible for diagnostics.
func TestCreateTableExecutionError(t *testing.T) {
	t.Parallel()

	rec := &recorder{err: errors.New("connection reset")}
	res, err := CreateTable(context.Background(), rec, articles())
	if err == nil {
		t.Fatal("CreateTable() = nil error, want execution error")
	}
	if res.Applied {
		t.Fatal("result marked applied despite execution error")
	}
	if len(res.Statements) == 0 {
		t.Fatal("statements should be reported even when execution fails")
	}
}

// TestCreateDropRoundTrip checks that the create/drop statement pair refers
// to the same object so executing both leaves a database unchanged.
func TestCreateDropRoundTrip(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	in := articles()
	in.Description = ""

	if _, err := CreateTable(context.Background(), rec, in); err != nil {
		t.Fatalf("CreateTable() unexpected error = %v", err)
	}
	if _, err := DropTable(context.Background(), rec, in.Name, in.SchemaName(), false); err != nil {
		t.Fatalf("DropTable() unexpected error = %v", err)
	}
	if len(rec.calls) != 2 {
		t.Fatalf("calls = %+v", rec.calls)
	}
	if got := rec.calls[0][0]; !strings.Contains(got, "public.articles") {
		t.Fatalf("create statement = %s", got)
	}
	if got := rec.calls[1][0]; got != `DROP TABLE "public"."articles" RESTRICT;` {
		t.Fatalf("drop statement = %s", got)
	}
}

// TestDropTableBadName rejects names that could not have been created.
func TestDropTableBadName(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	res, err := DropTable(context.Background(), rec, "1bad", "public", false)
	if err != nil {
		t.Fatalf("DropTable() unexpected error = %v", err)
	}
	if res.Verdict.Valid || len(rec.calls) != 0 {
		t.Fatalf("result = %+v, calls = %+v", res, rec.calls)
	}
}

// TestCreateSchema covers both forms and the reserved-name rejection.
func TestCreateSchema(t *testing.T) {
	t.Parallel()

	t.Run("with description", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		res, err := CreateSchema(context.Background(), rec,
			spec.SchemaSpec{Name: "analytics", Description: "Analytics schema"})
		if err != nil {
			t.Fatalf("CreateSchema() unexpected error = %v", err)
		}
		if !res.Applied || len(res.Statements) != 1 {
			t.Fatalf("result = %+v", res)
		}
		if !strings.Contains(res.Statements[0], "COMMENT ON SCHEMA \"analytics\"") {
			t.Fatalf("statement = %s", res.Statements[0])
		}
	})

	t.Run("reserved name rejected", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		res, err := CreateSchema(context.Background(), rec, spec.SchemaSpec{Name: "pg_catalog"})
		if err != nil {
			t.Fatalf("CreateSchema() unexpected error = %v", err)
		}
		if res.Verdict.Valid || len(rec.calls) != 0 {
			t.Fatalf("result = %+v, calls = %+v", res, rec.calls)
		}
	})
}

// TestDropSchema checks the cascade switch reaches the statement.
func TestDropSchema(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	res, err := DropSchema(context.Background(), rec, "analytics", true)
	if err != nil {
		t.Fatalf("DropSchema() unexpected error = %v", err)
	}
	if res.Statements[0] != `DROP SCHEMA "analytics" CASCADE;` {
		t.Fatalf("statement = %s", res.Statements[0])
	}
}
