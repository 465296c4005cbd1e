// Package llm provides completion clients for SQL generation.
package llm

import "context"

// Client is the completion interface the chat service depends on. Use it
// for dependency injection to enable mocking in tests.
type Client interface {
	// Complete generates a single chat completion.
	Complete(ctx context.Context, systemMessage, prompt string, temperature float64) (string, error)

	// Model returns the configured model name.
	Model() string
}
