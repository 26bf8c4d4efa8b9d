// Package ddl turns validated schema, table, and column descriptions into
// Postgres DDL statement text.
//
// Every function in this package is a pure, deterministic string builder: the
// same spec always yields byte-identical output. Nothing here opens a
// connection, executes SQL, or re-validates its input. Callers are expected
// to run a description through the validate package first; compiling an
// invalid spec yields undefined (possibly malformed) statement text, not an
// error.
//
// Identifier handling: CreateTable embeds the already-validated names as-is,
// which preserves the engine's case folding. DROP and COMMENT statements
// double-quote their identifiers so that a later rename to a quoted style
// stays safe. Description text is inserted as a SQL string literal without
// escaping; callers that accept untrusted descriptions should bind them as
// parameters at execution time instead of interpolating.
package ddl

import (
	"fmt"
	"regexp"
	"strings"

	"companydb/internal/spec"
)

// CreateTable renders a single CREATE TABLE statement for the given table
// description:
//
//	CREATE TABLE public.articles (id SERIAL, title VARCHAR(100) NOT NULL, PRIMARY KEY (id));
//
// Rules:
//
//   - Columns appear in spec order as "<name> <TYPE>" with "(<length>)"
//     appended for length-bearing types that carry a length.
//   - NOT NULL is added for required columns and UNIQUE for unique columns,
//     except on primary-key columns, where the PRIMARY KEY constraint already
//     implies both.
//   - Primary-key columns are collected into one trailing
//     "PRIMARY KEY (...)" table constraint. The constraint form is
//     composite-capable even though the table rule engine currently enforces
//     a single primary column.
//   - Each column carrying a references pair contributes a trailing
//     "FOREIGN KEY (col) REFERENCES table(col)" clause, in column order,
//     after the primary-key clause.
//   - Defaults follow renderDefault; serial columns never get one.
func CreateTable(t spec.TableSpec) string {
	parts := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, 1)
	fks := make([]string, 0, 1)

	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(c.Name)
		sb.WriteByte(' ')
		ct := c.ColumnType()
		sb.WriteString(ct.SQL())
		if ct.LengthBearing() && c.Length > 0 {
			fmt.Fprintf(&sb, "(%d)", c.Length)
		}
		if c.Required && !c.Primary {
			sb.WriteString(" NOT NULL")
		}
		if c.Unique && !c.Primary {
			sb.WriteString(" UNIQUE")
		}
		if def := renderDefault(ct, c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		parts = append(parts, sb.String())

		if c.Primary {
			pks = append(pks, c.Name)
		}
		if r := c.References; r != nil {
			fks = append(fks, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)", c.Name, r.Table, r.Column))
		}
	}

	if len(pks) > 0 {
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}
	parts = append(parts, fks...)

	return fmt.Sprintf(
		"CREATE TABLE %s.%s (%s);",
		t.SchemaName(), t.Name,
		strings.Join(parts, ", "),
	)
}

// DropTable renders a DROP TABLE statement with quoted identifiers. The
// default behavior is RESTRICT, which fails when dependent objects exist;
// cascade must be requested explicitly.
func DropTable(name, schema string, cascade bool) string {
	if schema == "" {
		schema = spec.DefaultSchema
	}
	return fmt.Sprintf("DROP TABLE %s.%s%s;", quoteIdent(schema), quoteIdent(name), dropBehavior(cascade))
}

// numericLiteral matches integer and decimal literals, optionally signed.
var numericLiteral = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// renderDefault decides how a raw default string is embedded:
//
//   - serial-family types never get a DEFAULT clause (the type implies
//     auto-generation), so the result is empty;
//   - numeric-looking values are emitted unquoted;
//   - values already wrapped in single quotes pass through as-is;
//   - everything else is wrapped into a single-quoted string literal.
//
// The last rule is a best-effort heuristic, not type-aware literal
// formatting. In particular a bare function default such as
// CURRENT_TIMESTAMP is emitted as the string 'CURRENT_TIMESTAMP', which is
// almost certainly not what the author meant. This is a known limitation
// kept for compatibility; authors who need function defaults must use an
// opaque type or manage the column outside this tool.
func renderDefault(ct spec.ColumnType, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || ct.SerialFamily() {
		return ""
	}
	if numericLiteral.MatchString(raw) {
		return raw
	}
	if strings.HasPrefix(raw, "'") && strings.HasSuffix(raw, "'") && len(raw) >= 2 {
		return raw
	}
	return "'" + raw + "'"
}

// dropBehavior renders the trailing CASCADE/RESTRICT keyword.
func dropBehavior(cascade bool) string {
	if cascade {
		return " CASCADE"
	}
	return " RESTRICT"
}

// quoteIdent double-quotes a single identifier segment, doubling any
// embedded quote characters.
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
