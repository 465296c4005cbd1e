package llm

import "context"

// MockClient is a configurable mock for testing completion-backed code.
// Set the function field to control behavior in tests.
type MockClient struct {
	// CompleteFunc is called when Complete is invoked.
	// If nil, returns empty string and nil error.
	CompleteFunc func(ctx context.Context, systemMessage, prompt string, temperature float64) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification.
	CompleteCalls int
	LastPrompt    string
	LastSystem    string
}

// NewMockClient creates a new mock with sensible defaults.
func NewMockClient() *MockClient {
	return &MockClient{ModelName: "mock-model"}
}

// Complete implements Client.
func (m *MockClient) Complete(ctx context.Context, systemMessage, prompt string, temperature float64) (string, error) {
	m.CompleteCalls++
	m.LastSystem = systemMessage
	m.LastPrompt = prompt
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemMessage, prompt, temperature)
	}
	return "", nil
}

// Model implements Client.
func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}

var _ Client = (*MockClient)(nil)
