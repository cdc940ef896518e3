package httpserver

import (
	"net/http"

	"vibecoding/internal/middleware"
	"vibecoding/internal/session"

	"log/slog"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Logger   *slog.Logger
	Sessions *session.Manager
	Handler  *Handler
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(middleware.Session(deps.Sessions))

	r.Get("/health", deps.Handler.Health)
	r.Get("/", deps.Handler.Home)
	r.Post("/chat", deps.Handler.Chat)
	r.Post("/clear-chat", deps.Handler.ClearChat)
	r.Get("/chat-history", deps.Handler.ChatHistory)
	r.Get("/status", deps.Handler.Status)
	r.Post("/analyze-code", deps.Handler.AnalyzeCode)

	return r
}
