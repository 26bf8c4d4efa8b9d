// Package importlog records file imports into company databases: which file
// was loaded, into which table, how large it was, its content checksum, and
// how the import ended. The history is what the account pages list when a
// user asks "what did we load and when".
//
// The package defines the record model, the store interface, and pure
// helpers; the actual persistence lives in internal/storage/postgres and
// internal/storage/sqlite.
package importlog

import (
	"context"
	"fmt"
	"time"

	"companydb/internal/ddl"
	"companydb/internal/spec"
	"companydb/internal/storage"
	"companydb/internal/validate"
)

// Import outcome states stored in the status column.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Record is one row of import history.
type Record struct {
	ID         int64     `json:"id"`
	Database   string    `json:"database"`
	TableName  string    `json:"table_name"`
	FileName   string    `json:"file_name"`
	SizeBytes  int64     `json:"size_bytes"`
	Checksum   string    `json:"checksum"`
	Rows       int64     `json:"rows"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store persists and lists import history records.
type Store interface {
	Insert(ctx context.Context, rec Record) (int64, error)
	List(ctx context.Context, database string, limit int) ([]Record, error)
}

// HistoryTableName is the table the records live in, always under "public"
// of the company database.
const HistoryTableName = "import_history"

// HistoryTable describes the import_history table in the same spec form that
// user-defined tables use, so bootstrapping runs through the ordinary
// validate/ddl path.
func HistoryTable() spec.TableSpec {
	return spec.TableSpec{
		Name:        HistoryTableName,
		Description: "Log of file imports into this database",
		Columns: []spec.ColumnSpec{
			{Name: "id", Type: "bigserial", Primary: true},
			{Name: "database_name", Type: "varchar", Length: 63, Required: true},
			{Name: "table_name", Type: "varchar", Length: 63},
			{Name: "file_name", Type: "varchar", Length: 255, Required: true},
			{Name: "size_bytes", Type: "bigint", Required: true, Default: "0"},
			{Name: "checksum", Type: "char", Length: 16},
			{Name: "row_count", Type: "bigint", Required: true, Default: "0"},
			{Name: "status", Type: "varchar", Length: 16, Required: true, Default: "'ok'"},
			{Name: "error_text", Type: "text"},
			{Name: "started_at", Type: "timestamptz"},
			{Name: "finished_at", Type: "timestamptz"},
		},
	}
}

// Bootstrap creates the import_history table through the execution boundary.
// It is meant for first-time provisioning of a company database; the CREATE
// TABLE is not guarded by IF NOT EXISTS, so running it against an already
// provisioned database fails and rolls back cleanly.
func Bootstrap(ctx context.Context, ex storage.Execer) error {
	t := HistoryTable()
	if v := validate.TableSpec(t); !v.Valid {
		// Only reachable if HistoryTable itself is broken.
		return fmt.Errorf("importlog: history table spec invalid: %v", v.Errors)
	}
	return ex.Apply(ctx,
		ddl.CreateTable(t),
		ddl.CommentOnTable(t.SchemaName(), t.Name, t.Description),
	)
}
