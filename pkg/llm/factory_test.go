package llm

import (
	"testing"

	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/config"
)

func TestNewFromConfigOpenAI(t *testing.T) {
	client, err := NewFromConfig(&config.LLMConfig{
		Provider: "openai",
		Endpoint: "https://api.groq.com/openai/v1",
		Model:    "llama-3.3-70b-versatile",
		APIKey:   "test-key",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	if _, ok := client.(*OpenAIClient); !ok {
		t.Errorf("expected *OpenAIClient, got %T", client)
	}
	if client.Model() != "llama-3.3-70b-versatile" {
		t.Errorf("Model() = %q", client.Model())
	}
}

func TestNewFromConfigAnthropic(t *testing.T) {
	client, err := NewFromConfig(&config.LLMConfig{
		Provider: "anthropic",
		Model:    "claude-sonnet-4-20250514",
		APIKey:   "test-key",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewFromConfig() error = %v", err)
	}

	if _, ok := client.(*AnthropicClient); !ok {
		t.Errorf("expected *AnthropicClient, got %T", client)
	}
}

func TestNewFromConfigUnknownProvider(t *testing.T) {
	if _, err := NewFromConfig(&config.LLMConfig{Provider: "groqqq", Model: "m"}, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestNewOpenAIClientValidation(t *testing.T) {
	if _, err := NewOpenAIClient(&Config{Model: "m"}, zap.NewNop()); err == nil {
		t.Error("expected error for missing endpoint")
	}
	if _, err := NewOpenAIClient(&Config{Endpoint: "http://x"}, zap.NewNop()); err == nil {
		t.Error("expected error for missing model")
	}
}

func TestNewAnthropicClientValidation(t *testing.T) {
	if _, err := NewAnthropicClient(&Config{Model: "m"}, zap.NewNop()); err == nil {
		t.Error("expected error for missing API key")
	}
}
