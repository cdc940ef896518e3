package llm

import "context"

// Message одно сообщение в промпте для модели.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params параметры генерации для одного запроса.
type Params struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Client минимальный публичный интерфейс клиента completion-сервиса.
type Client interface {
	Complete(ctx context.Context, model string, messages []Message, params Params) (string, error)
}
