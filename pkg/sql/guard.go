package sql

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spendlens/spendlens/pkg/apperrors"
)

// StatementType classifies a SQL statement by its leading keyword.
type StatementType string

const (
	TypeSelect  StatementType = "SELECT"
	TypeInsert  StatementType = "INSERT"
	TypeUpdate  StatementType = "UPDATE"
	TypeDelete  StatementType = "DELETE"
	TypeDDL     StatementType = "DDL" // CREATE, ALTER, DROP, TRUNCATE
	TypeUnknown StatementType = "UNKNOWN"
)

// modifyingCTEPattern matches CTEs that contain data-modifying operations.
// Example: WITH deleted AS (DELETE FROM ...) SELECT * FROM deleted
var modifyingCTEPattern = regexp.MustCompile(`(?i)\bAS\s*\(\s*(INSERT|UPDATE|DELETE|MERGE)\b`)

// DetectStatementType determines the statement type from the first keyword.
// WITH is treated as SELECT only when no CTE modifies data.
func DetectStatementType(sql string) StatementType {
	normalized := strings.ToUpper(strings.TrimSpace(sql))

	switch {
	case strings.HasPrefix(normalized, "SELECT"):
		return TypeSelect

	case strings.HasPrefix(normalized, "WITH"):
		if modifyingCTEPattern.MatchString(sql) {
			return TypeUnknown
		}
		return TypeSelect

	case strings.HasPrefix(normalized, "INSERT"):
		return TypeInsert

	case strings.HasPrefix(normalized, "UPDATE"):
		return TypeUpdate

	case strings.HasPrefix(normalized, "DELETE"):
		return TypeDelete

	case strings.HasPrefix(normalized, "CREATE"),
		strings.HasPrefix(normalized, "ALTER"),
		strings.HasPrefix(normalized, "DROP"),
		strings.HasPrefix(normalized, "TRUNCATE"):
		return TypeDDL

	default:
		return TypeUnknown
	}
}

// forbiddenKeywords are data-modifying or privilege-changing keywords that
// must not appear anywhere in a read-only statement, not just as a prefix.
// SELECT ... INTO and locking clauses are caught separately below.
var forbiddenKeywords = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"MERGE":    true,
	"DROP":     true,
	"ALTER":    true,
	"CREATE":   true,
	"TRUNCATE": true,
	"GRANT":    true,
	"REVOKE":   true,
	"COPY":     true,
	"VACUUM":   true,
	"ANALYZE":  true,
	"REINDEX":  true,
	"CLUSTER":  true,
	"CALL":     true,
	"DO":       true,
	"EXECUTE":  true,
	"PREPARE":  true,
	"LISTEN":   true,
	"NOTIFY":   true,
	"LOCK":     true,
	"SET":      true,
	"RESET":    true,
	"INTO":     true,
}

// GuardResult carries the normalized statement accepted for execution.
type GuardResult struct {
	SQL  string
	Type StatementType
}

// GuardReadOnly is the gate every LLM-generated statement passes before it
// reaches the database:
//
//  1. markdown fences stripped, whitespace trimmed
//  2. trailing semicolon normalized away; any remaining semicolon outside
//     string literals rejects the statement (chaining)
//  3. the statement must classify as SELECT (plain or non-modifying WITH)
//  4. no data-modifying keyword may appear anywhere in the token stream
//     outside string literals
//
// The gate is syntactic defense-in-depth; the executor additionally runs
// the statement inside a read-only transaction.
func GuardReadOnly(candidate string) (*GuardResult, error) {
	normalized, err := ValidateAndNormalize(StripFences(candidate))
	if err != nil {
		return nil, err
	}

	stmtType := DetectStatementType(normalized)
	if stmtType != TypeSelect {
		return nil, fmt.Errorf("%w: statement type %s is not allowed", apperrors.ErrUnsafeSQL, stmtType)
	}

	if kw := firstForbiddenKeyword(normalized); kw != "" {
		return nil, fmt.Errorf("%w: forbidden keyword %s", apperrors.ErrUnsafeSQL, kw)
	}

	return &GuardResult{SQL: normalized, Type: stmtType}, nil
}

// firstForbiddenKeyword tokenizes the statement, skipping string literals
// and quoted identifiers, and returns the first forbidden keyword found.
func firstForbiddenKeyword(sqlQuery string) string {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)
	var token strings.Builder

	checkToken := func() string {
		if token.Len() == 0 {
			return ""
		}
		word := strings.ToUpper(token.String())
		token.Reset()
		if forbiddenKeywords[word] {
			return word
		}
		return ""
	}

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch {
			case char == '\'':
				if kw := checkToken(); kw != "" {
					return kw
				}
				state = stateSingleQuote
			case char == '"':
				if kw := checkToken(); kw != "" {
					return kw
				}
				state = stateDoubleQuote
			case isTokenChar(char):
				token.WriteRune(char)
			default:
				if kw := checkToken(); kw != "" {
					return kw
				}
			}
		case stateSingleQuote:
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

	return checkToken()
}

func isTokenChar(c rune) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	case c == '_':
		return true
	}
	return false
}
