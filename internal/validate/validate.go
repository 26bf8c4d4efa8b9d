// Package validate implements the rule engines that check schema, table, and
// column descriptions before any DDL is generated or executed.
//
// The package follows one convention throughout: invalidity is data, not a
// fault. Every engine returns a Verdict carrying the complete set of
// human-readable problems found, so a caller (typically an HTTP handler) can
// surface every issue in one round trip instead of one at a time. Nothing in
// this package panics or returns a Go error for a spec that is merely wrong.
//
// The engines are layered: Table runs Column on every column, and Column runs
// the identifier rules on the column name. All of them are pure functions
// over their arguments; there is no shared state and no I/O.
package validate

import (
	"fmt"
	"strings"

	"companydb/internal/spec"
)

// Verdict is the result of validating a description. Errors holds every
// problem found, in check order; Valid is true iff Errors is empty.
type Verdict struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// verdict wraps an error list into a Verdict.
func verdict(errs []string) Verdict {
	return Verdict{Valid: len(errs) == 0, Errors: errs}
}

// Column checks a single column description and collects every violation.
// Checks never short-circuit, so one call surfaces all problems with the
// column.
func Column(c spec.ColumnSpec) Verdict {
	var errs []string

	if err := Identifier(c.Name, KindColumn); err != nil {
		errs = append(errs, err.Error())
	}

	ct := c.ColumnType()
	switch ct.Kind {
	case spec.KindVarchar:
		// Length is mandatory for VARCHAR; absence is an error, never a
		// silent default.
		if c.Length < 1 || c.Length > maxVarcharLength {
			errs = append(errs, fmt.Sprintf("VARCHAR length must be between 1 and %d", maxVarcharLength))
		}
	case spec.KindChar:
		// CHAR defaults to length 1 in the engine, so length is optional
		// here, but an explicit value must still be in range.
		if c.Length != 0 && (c.Length < 1 || c.Length > maxVarcharLength) {
			errs = append(errs, fmt.Sprintf("CHAR length must be between 1 and %d", maxVarcharLength))
		}
	}

	if c.Default != "" && ct.CharacterFamily() {
		if !isQuotedLiteral(c.Default) {
			errs = append(errs, fmt.Sprintf("default value for %s must be wrapped in single quotes", ct.SQL()))
		}
	}

	return verdict(errs)
}

const maxVarcharLength = 65535

// isQuotedLiteral reports whether s is a single-quoted SQL string literal.
func isQuotedLiteral(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")
}

// Table checks whole-table invariants over an ordered column list:
//
//  1. at least one column
//  2. exactly one primary-key column
//  3. no duplicate column names under case-insensitive comparison
//  4. every column individually passes Column, with each resulting message
//     prefixed by the column's 1-based position
//
// An empty column list short-circuits; there is no point running per-column
// checks on nothing.
func Table(cols []spec.ColumnSpec) Verdict {
	if len(cols) == 0 {
		return verdict([]string{"at least one column required"})
	}

	var errs []string

	primaries := 0
	for _, c := range cols {
		if c.Primary {
			primaries++
		}
	}
	switch {
	case primaries == 0:
		errs = append(errs, "exactly one primary key required")
	case primaries > 1:
		errs = append(errs, "only one primary key permitted")
	}

	if dups := duplicateNames(cols); len(dups) > 0 {
		errs = append(errs, "duplicate column names: "+strings.Join(dups, ", "))
	}

	for i, c := range cols {
		for _, msg := range Column(c).Errors {
			errs = append(errs, fmt.Sprintf("Column %d: %s", i+1, msg))
		}
	}

	return verdict(errs)
}

// duplicateNames returns, in first-collision order, the lowercased names that
// appear more than once. Each duplicated name is reported exactly once no
// matter how many times it recurs.
func duplicateNames(cols []spec.ColumnSpec) []string {
	seen := make(map[string]bool, len(cols))
	reported := make(map[string]bool)
	var dups []string
	for _, c := range cols {
		key := strings.ToLower(c.Name)
		if seen[key] && !reported[key] {
			dups = append(dups, key)
			reported[key] = true
		}
		seen[key] = true
	}
	return dups
}

// TableSpec validates a complete table description: table name, containing
// schema name, and the column list. The containing schema only needs a legal
// shape; "public" and the catalog schemas are acceptable targets for a table
// even though they are reserved as newly created schema names.
func TableSpec(t spec.TableSpec) Verdict {
	var errs []string

	if err := Identifier(t.Name, KindTable); err != nil {
		errs = append(errs, fmt.Sprintf("table name: %s", err))
	}
	if err := Identifier(t.SchemaName(), KindColumn); err != nil {
		errs = append(errs, fmt.Sprintf("schema name: %s", err))
	}
	errs = append(errs, Table(t.Columns).Errors...)

	return verdict(errs)
}

// Schema validates a schema description. The reserved-name rule applies here:
// creating "public", "information_schema", "pg_catalog", or "pg_toast" is
// always rejected.
func Schema(s spec.SchemaSpec) Verdict {
	var errs []string
	if err := Identifier(s.Name, KindSchema); err != nil {
		errs = append(errs, err.Error())
	}
	return verdict(errs)
}
