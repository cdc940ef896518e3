package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"vibecoding/internal/config"
	"vibecoding/internal/retry"

	"log/slog"
)

// OpenRouterClient клиент completion-сервиса OpenRouter.
// Все ожидаемые сбои возвращаются типизированными ошибками (см. errors.go),
// паник и "сырых" ошибок наружу не выходит.
type OpenRouterClient struct {
	apiKey     string
	baseURL    string
	siteURL    string
	siteTitle  string
	httpClient *http.Client
	policy     retry.Policy
	logger     *slog.Logger
}

func NewOpenRouterClient(cfg config.OpenRouterConfig, httpClient *http.Client, logger *slog.Logger) *OpenRouterClient {
	policy := retry.DefaultPolicy()
	// Ротация моделей сама обрабатывает rate limit, поэтому на транспортном
	// уровне сглаживаем только короткие сбои сети и 5xx.
	policy.MaxAttempts = 3
	policy.BaseDelay = 300 * time.Millisecond

	return &OpenRouterClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		siteURL:    cfg.SiteURL,
		siteTitle:  cfg.SiteTitle,
		httpClient: httpClient,
		policy:     policy,
		logger:     logger,
	}
}

// Complete выполняет один запрос к completion-сервису и классифицирует исход.
func (c *OpenRouterClient) Complete(ctx context.Context, model string, messages []Message, params Params) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	if model == "" {
		return "", errors.New("model is required")
	}

	requestBody := openRouterRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		TopP:        params.TopP,
	}

	buf, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	resp, body, err := retry.DoHTTP(ctx, c.policy, c.logger, func(ctx context.Context) (*http.Response, []byte, error) {
		return c.doRequest(ctx, buf)
	})
	if err != nil {
		return "", classifyTransportError(err)
	}
	if resp == nil {
		return "", &NetworkError{Cause: errors.New("nil response from http client")}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode, BodySnippet: bodySnippet(body)}
	}

	return c.parseResponse(body)
}

func (c *OpenRouterClient) doRequest(ctx context.Context, body []byte) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/chat/completions", c.baseURL), bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.siteTitle != "" {
		req.Header.Set("X-Title", c.siteTitle)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, respBody, nil
}

// parseResponse разбирает 200-ответ completion-сервиса.
// Отсутствие ключа choices и пустой список choices — разные исходы.
func (c *OpenRouterClient) parseResponse(body []byte) (string, error) {
	var parsed openRouterResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		c.logMalformed(body)
		return "", ErrMalformedResponse
	}

	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", &UpstreamError{Message: parsed.Error.Message}
	}

	if parsed.Choices == nil {
		c.logMalformed(body)
		return "", ErrMalformedResponse
	}
	if len(*parsed.Choices) == 0 || (*parsed.Choices)[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return (*parsed.Choices)[0].Message.Content, nil
}

// logMalformed логирует верхнеуровневые ключи неожиданного ответа,
// чтобы сбой можно было диагностировать без дампа всего тела.
func (c *OpenRouterClient) logMalformed(body []byte) {
	if c.logger == nil {
		return
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		c.logger.Error("malformed upstream response", slog.String("reason", "not a json object"))
		return
	}
	keys := make([]string, 0, len(probe))
	for k := range probe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	c.logger.Error("malformed upstream response", slog.String("available_keys", strings.Join(keys, ",")))
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Cause: err}
	}

	var statusErr *retry.HTTPStatusError
	if errors.As(err, &statusErr) {
		return &StatusError{Code: statusErr.StatusCode, BodySnippet: statusErr.BodySnippet}
	}
	return &NetworkError{Cause: err}
}

func bodySnippet(body []byte) string {
	const limit = 200
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit])
}

type openRouterRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	TopP        float64   `json:"top_p,omitempty"`
}

type openRouterResponse struct {
	Choices *[]struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}
