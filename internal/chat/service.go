package chat

import (
	"context"
	"fmt"
	"time"

	"vibecoding/internal/llm"

	"log/slog"
)

// Service связывает конвейер обработки сообщения: извлечение контекста
// и кода, классификацию, сборку промпта, вызов completion-сервиса через
// контроллер ротации и пост-обработку ответа.
type Service struct {
	client       llm.Client
	rotation     *llm.Rotation
	store        Store
	historyLimit int
	logger       *slog.Logger
	now          func() time.Time
}

// ServiceConfig конфигурация для создания Service.
type ServiceConfig struct {
	Client       llm.Client
	Rotation     *llm.Rotation
	Store        Store
	HistoryLimit int
	Logger       *slog.Logger
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		client:       cfg.Client,
		rotation:     cfg.Rotation,
		store:        cfg.Store,
		historyLimit: cfg.HistoryLimit,
		logger:       cfg.Logger,
		now:          time.Now,
	}
}

// Chat обрабатывает одно сообщение пользователя и возвращает ответ модели.
//
// История и профиль сохраняются только при успешном ответе: если вызов
// completion-сервиса провалился, состояние сессии не меняется.
// Ошибка сохранения не скрывает полученный ответ — она логируется,
// а ответ возвращается пользователю.
func (s *Service) Chat(ctx context.Context, sessionID string, userMessage string) (string, error) {
	state, _, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("get session state: %w", err)
	}

	blocks := ExtractCodeBlocks(userMessage)
	profile := UpdateProfile(userMessage, state.Profile)
	if len(blocks) > 0 {
		ts := s.now()
		profile.LastCodeDiscussion = &ts
	}

	intents := DetectIntents(userMessage)
	category := Classify(userMessage, blocks)

	messages := BuildPrompt(category, intents, profile, blocks, state.History, userMessage)

	reply, err := s.complete(ctx, messages, ParamsFor(category))
	if err != nil {
		return "", err
	}
	reply = CleanReply(reply)

	now := s.now()
	state.Profile = profile
	state.History = AppendBounded(state.History, Turn{
		Role:      "user",
		Content:   userMessage,
		Timestamp: now,
		Meta: &TurnMeta{
			RequestType: category,
			Intents:     intents,
			HasCode:     len(blocks) > 0,
		},
	}, s.historyLimit)
	state.History = AppendBounded(state.History, Turn{
		Role:      "assistant",
		Content:   reply,
		Timestamp: now,
	}, s.historyLimit)

	if err := s.store.Set(ctx, sessionID, state); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to save session state",
				slog.String("error", err.Error()),
				slog.String("session_id", sessionID))
		}
	}

	return reply, nil
}

// complete выполняет вызов completion-сервиса под контролем ротации:
// один вызов на модель, на rate limit — немедленный повтор со следующей
// моделью из списка, до исчерпания. Остальные ошибки не повторяются здесь.
func (s *Service) complete(ctx context.Context, messages []llm.Message, params llm.Params) (string, error) {
	if err := s.rotation.Begin(); err != nil {
		return "", err
	}

	for {
		model := s.rotation.Model()
		if model == "" {
			return "", llm.ErrModelsExhausted
		}

		reply, err := s.client.Complete(ctx, model, messages, params)
		if err == nil {
			s.rotation.Success()
			return reply, nil
		}
		if !llm.IsRateLimited(err) {
			return "", err
		}

		if s.logger != nil {
			s.logger.Warn("model rate limited, rotating",
				slog.String("model", model))
		}
		if !s.rotation.RateLimited() {
			return "", llm.ErrModelsExhausted
		}
	}
}

// ClearSession очищает историю сессии. Имя пользователя переживает
// очистку, остальные поля профиля сбрасываются.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	state, found, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session state: %w", err)
	}
	if !found {
		return nil
	}

	state.History = nil
	state.Profile = ResetProfile(state.Profile, true)
	if err := s.store.Set(ctx, sessionID, state); err != nil {
		return fmt.Errorf("save cleared session: %w", err)
	}
	return nil
}

// Snapshot возвращает копию состояния сессии для отчётных эндпоинтов.
func (s *Service) Snapshot(ctx context.Context, sessionID string) (State, error) {
	state, _, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return State{}, fmt.Errorf("get session state: %w", err)
	}
	return state, nil
}
