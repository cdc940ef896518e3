package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"vibecoding/internal/chat"
	"vibecoding/internal/llm"
	"vibecoding/internal/middleware"

	"log/slog"
)

// ChatService часть chat.Service, нужная HTTP-обработчикам.
type ChatService interface {
	Chat(ctx context.Context, sessionID string, userMessage string) (string, error)
	ClearSession(ctx context.Context, sessionID string) error
	Snapshot(ctx context.Context, sessionID string) (chat.State, error)
}

type HandlerDeps struct {
	Chat     ChatService
	Rotation *llm.Rotation
	Logger   *slog.Logger
}

// Handler набор HTTP-обработчиков сервиса.
// Граница обработки тотальна: любой сбой конвейера превращается
// в валидный JSON с дружелюбным текстом, наружу не уходит ни паника,
// ни технические детали.
type Handler struct {
	chat     ChatService
	rotation *llm.Rotation
	logger   *slog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		chat:     deps.Chat,
		rotation: deps.Rotation,
		logger:   deps.Logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "VibeCoding AI is running",
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteReply(w, http.StatusBadRequest, "⚠️ Could not read your message. Please try again.")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		WriteReply(w, http.StatusBadRequest, "⚠️ Please type a message first.")
		return
	}

	sessionID := middleware.SessionID(r.Context())
	reply, err := h.chat.Chat(r.Context(), sessionID, message)
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	WriteReply(w, http.StatusOK, reply)
}

// writeChatError переводит типизированные сбои конвейера
// в дружелюбные ответы. Текст без технических идентификаторов,
// детали остаются в логах.
func (h *Handler) writeChatError(w http.ResponseWriter, err error) {
	h.logger.Error("chat request failed", slog.String("error", err.Error()))

	var upstreamErr *llm.UpstreamError
	var statusErr *llm.StatusError
	var timeoutErr *llm.TimeoutError
	var networkErr *llm.NetworkError

	switch {
	case errors.Is(err, llm.ErrDailyLimit):
		WriteReply(w, http.StatusTooManyRequests, "⚠️ Daily request limit reached. Please come back tomorrow.")
	case errors.Is(err, llm.ErrModelsExhausted):
		WriteReply(w, http.StatusTooManyRequests, "⚠️ All models are busy right now. Please try again in a few minutes.")
	case errors.Is(err, llm.ErrMissingAPIKey):
		WriteReply(w, http.StatusInternalServerError, "⚠️ API key not configured. Please set OPENROUTER_API_KEY environment variable.")
	case errors.As(err, &timeoutErr):
		WriteReply(w, http.StatusInternalServerError, "⚠️ Request timed out. Please try again.")
	case errors.As(err, &networkErr):
		WriteReply(w, http.StatusInternalServerError, "⚠️ Network error. Please check your connection and try again.")
	case errors.As(err, &upstreamErr):
		WriteReply(w, http.StatusInternalServerError, "⚠️ API Error: "+upstreamErr.Message)
	case errors.As(err, &statusErr):
		WriteReply(w, http.StatusInternalServerError, fmt.Sprintf("⚠️ API Error (Status %d). Please try again later.", statusErr.Code))
	case errors.Is(err, llm.ErrMalformedResponse):
		WriteReply(w, http.StatusInternalServerError, "⚠️ Unexpected API response format. Please try again.")
	case errors.Is(err, llm.ErrEmptyCompletion):
		WriteReply(w, http.StatusInternalServerError, "⚠️ No response generated. Please try again.")
	default:
		WriteReply(w, http.StatusInternalServerError, "⚠️ Something went wrong with the AI response. Please try again later.")
	}
}

func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	if err := h.chat.ClearSession(r.Context(), sessionID); err != nil {
		h.logger.Error("clear chat failed", slog.String("error", err.Error()))
		WriteJSONError(w, http.StatusInternalServerError, "internal", "failed to clear chat history")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	state, err := h.chat.Snapshot(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("chat history failed", slog.String("error", err.Error()))
		WriteJSONError(w, http.StatusInternalServerError, "internal", "failed to load chat history")
		return
	}

	history := state.History
	if history == nil {
		history = []chat.Turn{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"history":        history,
		"user_context":   state.Profile,
		"total_messages": len(history),
	})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.rotation.Status()
	WriteJSON(w, http.StatusOK, map[string]any{
		"requests_today": status.RequestsToday,
		"current_model":  llm.GetModelName(status.CurrentModel),
		"model_index":    status.ModelIndex,
		"date":           status.Date,
	})
}

type analyzeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (h *Handler) AnalyzeCode(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "bad_request", "cannot parse request body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		WriteJSONError(w, http.StatusBadRequest, "bad_request", "code is required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"analysis": chat.AnalyzeCode(req.Code, req.Language),
	})
}
