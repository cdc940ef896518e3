package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vibecoding/internal/chat"
	"vibecoding/internal/config"
	"vibecoding/internal/httpserver"
	"vibecoding/internal/llm"
	"vibecoding/internal/session"
	"vibecoding/internal/transport"

	"log/slog"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	httpClient := transport.NewHTTPClient(cfg.RequestTimeout)
	llmClient := llm.NewOpenRouterClient(cfg.OpenRouter, httpClient, logger)

	models := cfg.OpenRouter.Models()
	if len(models) == 0 {
		models = llm.ModelIDs(llm.DefaultModels)
	}
	rotation := llm.NewRotation(models, cfg.DailyLimit)

	var store chat.Store
	switch cfg.StoreType {
	case "sqlite":
		sqliteStore, err := chat.NewSQLiteStore(cfg.StorePath, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("failed to init sqlite store: %v", err)
		}
		store = sqliteStore
	default:
		store = chat.NewMemoryStore(cfg.SessionTTL)
	}
	defer store.Close()

	chatService := chat.NewService(chat.ServiceConfig{
		Client:       llmClient,
		Rotation:     rotation,
		Store:        store,
		HistoryLimit: cfg.HistoryLimit,
		Logger:       logger,
	})

	handler := httpserver.NewHandler(httpserver.HandlerDeps{
		Chat:     chatService,
		Rotation: rotation,
		Logger:   logger,
	})

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger:   logger,
		Sessions: session.NewManager(cfg.SessionSecret),
		Handler:  handler,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	// Фоновая уборка истёкших сессий, чтобы хранилище не росло бесконечно.
	go cleanupLoop(ctx, store, logger)

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

func cleanupLoop(ctx context.Context, store chat.Store, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := store.ClearExpired(ctx, time.Now())
			if err != nil {
				logger.Error("session cleanup failed", slog.String("error", err.Error()))
				continue
			}
			if deleted > 0 {
				logger.Info("expired sessions removed", slog.Int("count", deleted))
			}
		}
	}
}

func newLogger(level string) *slog.Logger {
	slogLevel := slog.LevelInfo
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}
