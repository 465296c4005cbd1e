package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a SQL injection pattern detected in a
// request parameter.
type InjectionCheckResult struct {
	Fingerprint string // libinjection fingerprint of the detected pattern
	ParamName   string // name of the parameter that failed the check
	ParamValue  string // the value that was checked
}

// CheckParameterForInjection uses libinjection to detect SQL injection
// patterns in a request parameter. The builder already binds every value as
// a parameter, so this check never changes the generated SQL; it exists to
// flag and log probing attempts.
//
// Returns nil if no injection pattern is detected.
func CheckParameterForInjection(paramName, value string) *InjectionCheckResult {
	if value == "" {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}

	return &InjectionCheckResult{
		Fingerprint: string(fingerprint),
		ParamName:   paramName,
		ParamValue:  value,
	}
}
