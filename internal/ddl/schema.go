package ddl

import (
	"fmt"

	"companydb/internal/spec"
)

// CreateSchema renders the statement(s) that create a schema. The CREATE is
// idempotent via IF NOT EXISTS. When the description is non-empty a COMMENT
// ON SCHEMA statement follows on its own line:
//
//	CREATE SCHEMA IF NOT EXISTS "analytics";
//	COMMENT ON SCHEMA "analytics" IS 'Analytics schema';
//
// The description is inserted as a literal without escaping; see the package
// comment for the parameter-binding recommendation.
func CreateSchema(s spec.SchemaSpec) string {
	stmt := fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s;", quoteIdent(s.Name))
	if s.Description != "" {
		stmt += "\n" + CommentOnSchema(s.Name, s.Description)
	}
	return stmt
}

// DropSchema renders a DROP SCHEMA statement. RESTRICT is the default and
// fails when the schema is non-empty; cascade must be asked for explicitly.
func DropSchema(name string, cascade bool) string {
	return fmt.Sprintf("DROP SCHEMA %s%s;", quoteIdent(name), dropBehavior(cascade))
}

// CommentOnSchema renders a COMMENT ON SCHEMA statement.
func CommentOnSchema(name, comment string) string {
	return fmt.Sprintf("COMMENT ON SCHEMA %s IS '%s';", quoteIdent(name), comment)
}

// CommentOnTable renders a COMMENT ON TABLE statement for a table's
// description.
func CommentOnTable(schema, table, comment string) string {
	if schema == "" {
		schema = spec.DefaultSchema
	}
	return fmt.Sprintf("COMMENT ON TABLE %s.%s IS '%s';", quoteIdent(schema), quoteIdent(table), comment)
}

// CommentOnColumn renders a COMMENT ON COLUMN statement.
func CommentOnColumn(schema, table, column, comment string) string {
	if schema == "" {
		schema = spec.DefaultSchema
	}
	return fmt.Sprintf("COMMENT ON COLUMN %s.%s.%s IS '%s';",
		quoteIdent(schema), quoteIdent(table), quoteIdent(column), comment)
}
