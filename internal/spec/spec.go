// Package spec defines the canonical, JSON-serializable description model for
// database objects managed by the application: schemas, tables, and columns.
//
// A spec value is a transient description of a desired object. It carries no
// connection to a live database: callers build one (typically by decoding a
// request body or a file), run it through the validate package, and hand it to
// the ddl package to obtain statement text. The model itself holds no state
// and performs no I/O.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure accepted by the
//     HTTP API and the CLI.
//  3. Minimalism: decoding is performed by the standard library; column types
//     are modeled as a closed set of variants in types.go.
package spec

import "encoding/json"

// DefaultSchema is the schema a TableSpec belongs to when none is given.
const DefaultSchema = "public"

// Reference names the target of a column-level foreign key. The pair is
// purely structural: no existence check is made against a live catalog.
type Reference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// ColumnSpec describes a single column of a table to be created.
//
// Fields:
//   - Name: column name, subject to identifier rules.
//   - Type: SQL type spelling (e.g., "VARCHAR", "serial"); compared
//     case-insensitively and parsed via ParseColumnType.
//   - Length: optional length for length-bearing types (VARCHAR/CHAR).
//   - Primary: the column is part of the primary key. Primary implies NOT
//     NULL and unique regardless of Required/Unique.
//   - Required: render NOT NULL (ignored for primary columns).
//   - Unique: render UNIQUE (ignored for primary columns).
//   - Default: optional default literal; interpretation depends on Type.
//   - References: optional foreign-key target.
type ColumnSpec struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Length     int        `json:"length,omitempty"`
	Primary    bool       `json:"primary,omitempty"`
	Required   bool       `json:"required,omitempty"`
	Unique     bool       `json:"unique,omitempty"`
	Default    string     `json:"default,omitempty"`
	References *Reference `json:"references,omitempty"`
}

// ColumnType parses the column's declared type into its variant form.
func (c ColumnSpec) ColumnType() ColumnType {
	return ParseColumnType(c.Type)
}

// TableSpec describes a table to be created. Column order is significant: it
// determines the column order of the generated statement, and validation
// messages refer to columns by their 1-based position.
type TableSpec struct {
	Schema      string       `json:"schema,omitempty"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Columns     []ColumnSpec `json:"columns"`
}

// SchemaName returns the containing schema, defaulting to "public".
func (t TableSpec) SchemaName() string {
	if t.Schema == "" {
		return DefaultSchema
	}
	return t.Schema
}

// SchemaSpec describes a schema (namespace) to be created.
type SchemaSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// DecodeTable decodes a TableSpec from JSON bytes.
func DecodeTable(b []byte) (TableSpec, error) {
	var t TableSpec
	err := json.Unmarshal(b, &t)
	return t, err
}

// DecodeSchema decodes a SchemaSpec from JSON bytes.
func DecodeSchema(b []byte) (SchemaSpec, error) {
	var s SchemaSpec
	err := json.Unmarshal(b, &s)
	return s, err
}
