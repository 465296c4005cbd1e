package sql

import (
	"strings"

	"github.com/spendlens/spendlens/pkg/apperrors"
)

// StripFences removes markdown code-fence markers that completion models
// wrap SQL in, then trims whitespace.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"```sql", "```SQL", "```"} {
		s = strings.ReplaceAll(s, marker, "")
	}
	return strings.TrimSpace(s)
}

// ValidateAndNormalize strips a trailing semicolon and rejects input that
// still contains a semicolon outside string literals, which indicates a
// chained second statement.
func ValidateAndNormalize(sqlQuery string) (string, error) {
	sqlQuery = strings.TrimSpace(sqlQuery)
	if sqlQuery == "" {
		return "", apperrors.ErrInvalidInput
	}

	normalized := stripTrailingSemicolon(sqlQuery)

	if hasSemicolonOutsideStrings(normalized) {
		return "", apperrors.ErrUnsafeSQL
	}

	return normalized, nil
}

// hasSemicolonOutsideStrings reports whether the SQL contains any semicolon
// outside of single- or double-quoted literals.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handle both backslash escape (\') and SQL standard escape ('').
			// A doubled quote exits here and immediately re-enters on the
			// next quote, which keeps us inside the literal.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

func stripTrailingSemicolon(sqlQuery string) string {
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}
