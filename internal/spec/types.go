package spec

import "strings"

// TypeKind enumerates the column types the application understands. The set
// is deliberately closed: every supported type carries its own length and
// default-rendering behavior, and KindOpaque is the explicit escape hatch for
// engine-native types we do not specially handle. Opaque types are accepted
// structurally; length and default checks simply do not apply to them.
type TypeKind int

const (
	KindOpaque TypeKind = iota
	KindVarchar
	KindChar
	KindText
	KindSmallInt
	KindInteger
	KindBigInt
	KindSerial
	KindBigSerial
	KindNumeric
	KindBoolean
	KindDate
	KindTimestamptz
)

// ColumnType is the parsed form of a ColumnSpec.Type string. It pairs the
// recognized kind with the raw spelling so opaque types can be rendered
// verbatim.
type ColumnType struct {
	Kind TypeKind
	raw  string
}

// kindNames maps canonical spellings to kinds. Lookup is case-insensitive;
// a handful of common aliases map onto the same kind.
var kindNames = map[string]TypeKind{
	"varchar":     KindVarchar,
	"char":        KindChar,
	"text":        KindText,
	"smallint":    KindSmallInt,
	"integer":     KindInteger,
	"int":         KindInteger,
	"bigint":      KindBigInt,
	"serial":      KindSerial,
	"bigserial":   KindBigSerial,
	"numeric":     KindNumeric,
	"decimal":     KindNumeric,
	"boolean":     KindBoolean,
	"bool":        KindBoolean,
	"date":        KindDate,
	"timestamptz": KindTimestamptz,
	"timestamp":   KindTimestamptz,
}

// canonical SQL spellings per kind, used when rendering known types.
var kindSQL = map[TypeKind]string{
	KindVarchar:     "VARCHAR",
	KindChar:        "CHAR",
	KindText:        "TEXT",
	KindSmallInt:    "SMALLINT",
	KindInteger:     "INTEGER",
	KindBigInt:      "BIGINT",
	KindSerial:      "SERIAL",
	KindBigSerial:   "BIGSERIAL",
	KindNumeric:     "NUMERIC",
	KindBoolean:     "BOOLEAN",
	KindDate:        "DATE",
	KindTimestamptz: "TIMESTAMPTZ",
}

// ParseColumnType normalizes a loosely-specified type spelling into a
// ColumnType. Matching is case-insensitive and whitespace-tolerant. Unknown
// spellings produce an opaque type carrying the trimmed raw string, so the
// caller can still render it as-is.
func ParseColumnType(s string) ColumnType {
	raw := strings.TrimSpace(s)
	if k, ok := kindNames[strings.ToLower(raw)]; ok {
		return ColumnType{Kind: k, raw: raw}
	}
	return ColumnType{Kind: KindOpaque, raw: raw}
}

// SQL returns the spelling to embed in generated statements: the canonical
// uppercase form for known kinds, the raw spelling for opaque types.
func (t ColumnType) SQL() string {
	if s, ok := kindSQL[t.Kind]; ok {
		return s
	}
	return t.raw
}

// LengthBearing reports whether the type accepts a (n) length suffix.
func (t ColumnType) LengthBearing() bool {
	return t.Kind == KindVarchar || t.Kind == KindChar
}

// SerialFamily reports whether the type auto-generates its values. Serial
// columns never receive a DEFAULT clause.
func (t ColumnType) SerialFamily() bool {
	return t.Kind == KindSerial || t.Kind == KindBigSerial
}

// CharacterFamily reports whether default literals for the type must be
// single-quoted strings.
func (t ColumnType) CharacterFamily() bool {
	return t.Kind == KindVarchar || t.Kind == KindChar || t.Kind == KindText
}
