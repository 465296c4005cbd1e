package logging

import (
	"regexp"
)

const (
	// MaxSQLLogLength is the maximum length of a SQL statement to log.
	MaxSQLLogLength = 200
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// Matches password=xxx, pwd=xxx, pass=xxx (until next delimiter).
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Matches potential API keys in key=value form.
	apiKeyPattern = regexp.MustCompile(`(?i)(api[_-]?key|apikey|key)=[A-Za-z0-9-_]{20,}`)

	// Matches connection string credentials (user:pass@host format).
	connStringPattern = regexp.MustCompile(`://[^:/\s]+:[^@\s]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from connection strings.
// Use this before logging any DSN.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeError sanitizes error messages that might contain credentials,
// e.g. pgx connection failures that echo the DSN.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = passwordPattern.ReplaceAllString(msg, "${1}="+RedactedText)
	msg = apiKeyPattern.ReplaceAllString(msg, "${1}="+RedactedText)
	msg = connStringPattern.ReplaceAllString(msg, "://"+RedactedText+"@"+RedactedText)
	return msg
}

// TruncateSQL shortens a SQL statement for logging.
func TruncateSQL(sql string) string {
	if len(sql) <= MaxSQLLogLength {
		return sql
	}
	return sql[:MaxSQLLogLength] + "..."
}
