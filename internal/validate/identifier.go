package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind selects which lexical rules apply to an identifier.
type Kind int

const (
	// KindColumn applies the shape rules only.
	KindColumn Kind = iota
	// KindTable additionally enforces the engine's 63-character limit.
	KindTable
	// KindSchema additionally rejects the reserved schema names.
	KindSchema
)

// maxIdentifierLength is the Postgres NAMEDATALEN-1 identifier limit.
const maxIdentifierLength = 63

// identPattern is the accepted identifier shape: a letter followed by
// letters, digits, or underscores. Quoted exotic identifiers are deliberately
// not supported; generated DDL embeds these names directly.
var identPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// reservedSchemas are names that may never be created as new schemas. They
// are still legal as the containing schema of a table ("public" in
// particular), which is why the check is tied to KindSchema only.
var reservedSchemas = map[string]bool{
	"public":             true,
	"information_schema": true,
	"pg_catalog":         true,
	"pg_toast":           true,
}

// Identifier checks a single name against the lexical rules for its kind.
// A nil return means the name is acceptable. The returned error text is
// end-user facing and is embedded verbatim in rule-engine verdicts.
func Identifier(name string, kind Kind) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name required")
	}
	if !identPattern.MatchString(name) {
		return errors.New("must start with a letter and contain only letters, digits, underscore")
	}
	switch kind {
	case KindTable:
		if len(name) > maxIdentifierLength {
			return errors.New("name too long")
		}
	case KindSchema:
		if reservedSchemas[strings.ToLower(name)] {
			return fmt.Errorf("schema name %q is reserved", name)
		}
	}
	return nil
}
