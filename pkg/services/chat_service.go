package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/apperrors"
	"github.com/spendlens/spendlens/pkg/llm"
	"github.com/spendlens/spendlens/pkg/logging"
	"github.com/spendlens/spendlens/pkg/prompts"
	"github.com/spendlens/spendlens/pkg/repositories"
	sqlguard "github.com/spendlens/spendlens/pkg/sql"
)

// ChatResult is the outcome of one natural-language query: the generated
// SQL that passed the safety gate, plus its result rows.
type ChatResult struct {
	SQL     string
	Results []map[string]any
}

// ChatService translates natural-language questions into guarded SQL and
// executes them against the invoice schema.
type ChatService interface {
	// ChatWithData answers question by generating a SELECT statement with
	// the configured LLM, gating it, and running it read-only. Returns
	// apperrors.ErrInvalidInput for an empty question and
	// apperrors.ErrUnsafeSQL when generation produced anything but a plain
	// read.
	ChatWithData(ctx context.Context, question string) (*ChatResult, error)
}

type chatService struct {
	llmClient   llm.Client
	executor    repositories.ChatQueryExecutor
	temperature float64
	logger      *zap.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(llmClient llm.Client, executor repositories.ChatQueryExecutor, temperature float64, logger *zap.Logger) ChatService {
	return &chatService{
		llmClient:   llmClient,
		executor:    executor,
		temperature: temperature,
		logger:      logger.Named("chat-service"),
	}
}

var _ ChatService = (*chatService)(nil)

func (s *chatService) ChatWithData(ctx context.Context, question string) (*ChatResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: missing or invalid 'query'", apperrors.ErrInvalidInput)
	}

	// Injection heuristics on the question are advisory only: the question
	// is never spliced into SQL, so a hit is logged and the request
	// proceeds through the statement gate like any other.
	if result := sqlguard.CheckParameterForInjection("query", question); result != nil {
		s.logger.Warn("injection pattern in chat question",
			zap.String("fingerprint", result.Fingerprint))
	}

	prompt := prompts.BuildNL2SQLPrompt(question)

	raw, err := s.llmClient.Complete(ctx, prompts.NL2SQLSystemMessage, prompt, s.temperature)
	if err != nil {
		return nil, fmt.Errorf("generate SQL: %w", err)
	}

	guarded, err := sqlguard.GuardReadOnly(raw)
	if err != nil {
		s.logger.Warn("generated SQL rejected",
			zap.String("sql", logging.TruncateSQL(raw)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("generated SQL accepted",
		zap.String("model", s.llmClient.Model()),
		zap.String("sql", logging.TruncateSQL(guarded.SQL)))

	results, err := s.executor.ExecuteReadOnly(ctx, guarded.SQL)
	if err != nil {
		return nil, fmt.Errorf("execute generated SQL: %w", err)
	}

	return &ChatResult{
		SQL:     guarded.SQL,
		Results: results,
	}, nil
}
