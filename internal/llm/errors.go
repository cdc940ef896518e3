package llm

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey возвращается, когда клиент сконфигурирован без ключа API.
	ErrMissingAPIKey = errors.New("api key is not configured")

	// ErrMalformedResponse возвращается, когда в 200-ответе нет поля choices.
	ErrMalformedResponse = errors.New("malformed response: missing choices")

	// ErrEmptyCompletion возвращается, когда список choices пуст
	// или первый вариант не содержит текста.
	ErrEmptyCompletion = errors.New("empty completion from model")

	// ErrDailyLimit возвращается контроллером ротации при достижении
	// дневного лимита запросов.
	ErrDailyLimit = errors.New("daily request limit reached")

	// ErrModelsExhausted возвращается, когда все модели из списка
	// ответили rate limit в рамках одного запроса.
	ErrModelsExhausted = errors.New("all models are rate limited")
)

// TimeoutError сигнализирует об истечении таймаута запроса к completion-сервису.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("completion request timed out: %v", e.Cause)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// NetworkError сигнализирует о транспортной ошибке (не таймаут и не HTTP-статус).
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("completion request failed: %v", e.Cause)
}

func (e *NetworkError) Unwrap() error { return e.Cause }

// StatusError неуспешный HTTP-статус от completion-сервиса.
type StatusError struct {
	Code        int
	BodySnippet string
}

func (e *StatusError) Error() string {
	if e.BodySnippet == "" {
		return fmt.Sprintf("upstream status %d", e.Code)
	}
	return fmt.Sprintf("upstream status %d: %s", e.Code, e.BodySnippet)
}

// RateLimited сообщает, вызвана ли ошибка ограничением частоты запросов.
func (e *StatusError) RateLimited() bool {
	return e.Code == http.StatusTooManyRequests
}

// UpstreamError явная ошибка в теле 200-ответа (поле error.message).
// Message сохраняется дословно.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// IsRateLimited проверяет, является ли ошибка сигналом rate limit,
// по которому контроллер ротации переключает модель.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.RateLimited()
}
