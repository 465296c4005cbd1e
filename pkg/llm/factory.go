package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/config"
)

// NewFromConfig creates the completion client selected by configuration.
// Returns the Client interface to enable dependency injection of mocks.
func NewFromConfig(cfg *config.LLMConfig, logger *zap.Logger) (Client, error) {
	clientCfg := &Config{
		Endpoint: cfg.Endpoint,
		Model:    cfg.Model,
		APIKey:   cfg.APIKey,
	}

	switch cfg.Provider {
	case "openai":
		return NewOpenAIClient(clientCfg, logger)
	case "anthropic":
		return NewAnthropicClient(clientCfg, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
