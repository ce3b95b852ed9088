package domain

import (
	"regexp"
	"strings"
)

// identifierRe allows alphanumeric + underscores, starting with a letter or
// underscore. Anything else (quotes, semicolons, whitespace, comments) is
// rejected before an identifier can reach SQL text.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// maxIdentifierLen is the maximum length allowed for a SQL identifier.
// PostgreSQL truncates at 63 bytes; longer names cannot name a real object.
const maxIdentifierLen = 63

// ValidateIdentifier checks that name is a safe SQL identifier:
//   - Non-empty
//   - At most 63 characters
//   - Matches [a-zA-Z_][a-zA-Z0-9_]*
func ValidateIdentifier(name string) error {
	if name == "" {
		return ErrValidation("identifier is required")
	}
	if len(name) > maxIdentifierLen {
		return ErrValidation("identifier %q must be at most %d characters", name, maxIdentifierLen)
	}
	if !identifierRe.MatchString(name) {
		return ErrValidation("identifier %q must match [a-zA-Z_][a-zA-Z0-9_]*", name)
	}
	return nil
}

// QuoteIdentifier wraps a SQL identifier in double quotes, escaping any
// embedded double-quote characters by doubling them (standard SQL).
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
