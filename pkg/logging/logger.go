// Package logging provides the zap logger construction and helpers for
// keeping credentials out of log output.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process-wide logger. Production environments get JSON
// output at info level; everything else gets the console encoder at debug
// level for local development.
func New(env string) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)

	switch env {
	case "production", "prod":
		logger, err = zap.NewProduction()
	default:
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
