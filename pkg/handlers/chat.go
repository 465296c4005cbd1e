package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spendlens/spendlens/pkg/apperrors"
	"github.com/spendlens/spendlens/pkg/services"
)

// maxErrorDetailLen caps how much upstream error text leaks into a chat
// error response.
const maxErrorDetailLen = 150

// ChatRequest for POST /chat-with-data
type ChatRequest struct {
	Query string `json:"query"`
}

// ChatResponse for POST /chat-with-data
type ChatResponse struct {
	Success bool             `json:"success"`
	SQL     string           `json:"sql"`
	Results []map[string]any `json:"results"`
}

// ChatHandler handles the natural-language query endpoint.
type ChatHandler struct {
	chatService services.ChatService
	logger      *zap.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService services.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      logger,
	}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /chat-with-data", h.ChatWithData)
}

// ChatWithData handles POST /chat-with-data
func (h *ChatHandler) ChatWithData(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Missing or invalid 'query'.")
		return
	}

	result, err := h.chatService.ChatWithData(r.Context(), req.Query)
	if err != nil {
		h.respondError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ChatResponse{
		Success: true,
		SQL:     result.SQL,
		Results: result.Results,
	}); err != nil {
		h.logger.Error("Failed to write chat response", zap.Error(err))
	}
}

func (h *ChatHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, "Missing or invalid 'query'.")
	case errors.Is(err, apperrors.ErrUnsafeSQL):
		h.writeError(w, http.StatusBadRequest, "Generated SQL is not a valid SELECT query for safety.")
	default:
		h.logger.Error("Chat query failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "Query Failed: "+truncateDetail(err.Error())+"...")
	}
}

func (h *ChatHandler) writeError(w http.ResponseWriter, status int, message string) {
	if err := ErrorResponse(w, status, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}

func truncateDetail(s string) string {
	if len(s) <= maxErrorDetailLen {
		return s
	}
	// Postgres error text can carry multibyte characters; back up to a rune
	// boundary so the cut never emits invalid UTF-8.
	cut := maxErrorDetailLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
