package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"vibecoding/internal/chat"
	"vibecoding/internal/llm"
	"vibecoding/internal/session"

	"log/slog"
)

// mockChatService подменяет конвейер обработки в HTTP-тестах.
type mockChatService struct {
	chatFunc  func(ctx context.Context, sessionID, message string) (string, error)
	clearFunc func(ctx context.Context, sessionID string) error
	state     chat.State
}

func (m *mockChatService) Chat(ctx context.Context, sessionID string, userMessage string) (string, error) {
	return m.chatFunc(ctx, sessionID, userMessage)
}

func (m *mockChatService) ClearSession(ctx context.Context, sessionID string) error {
	if m.clearFunc != nil {
		return m.clearFunc(ctx, sessionID)
	}
	return nil
}

func (m *mockChatService) Snapshot(ctx context.Context, sessionID string) (chat.State, error) {
	return m.state, nil
}

func newTestRouter(t *testing.T, svc ChatService, rotation *llm.Rotation) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	if rotation == nil {
		rotation = llm.NewRotation([]string{"model-a"}, 0)
	}
	handler := NewHandler(HandlerDeps{Chat: svc, Rotation: rotation, Logger: logger})
	return NewRouter(RouterDeps{
		Logger:   logger,
		Sessions: session.NewManager("test-secret"),
		Handler:  handler,
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return rec, payload
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, &mockChatService{}, nil)
	rec, payload := doJSON(t, router, http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if payload["status"] != "ok" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestChatSuccess(t *testing.T) {
	var gotMessage, gotSession string
	svc := &mockChatService{
		chatFunc: func(ctx context.Context, sessionID, message string) (string, error) {
			gotSession = sessionID
			gotMessage = message
			return "hello back", nil
		},
	}
	router := newTestRouter(t, svc, nil)

	rec, payload := doJSON(t, router, http.MethodPost, "/chat", `{"message":"  hello  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if payload["reply"] != "hello back" {
		t.Fatalf("unexpected reply: %v", payload)
	}
	if gotMessage != "hello" {
		t.Fatalf("expected trimmed message, got %q", gotMessage)
	}
	if gotSession == "" {
		t.Fatalf("expected a session id from the middleware")
	}

	// Новому клиенту выставляется cookie сессии.
	if len(rec.Result().Cookies()) == 0 {
		t.Fatalf("expected a session cookie to be set")
	}
}

func TestChatEmptyMessage(t *testing.T) {
	svc := &mockChatService{
		chatFunc: func(ctx context.Context, sessionID, message string) (string, error) {
			t.Fatalf("service must not be called for empty message")
			return "", nil
		},
	}
	router := newTestRouter(t, svc, nil)

	rec, payload := doJSON(t, router, http.MethodPost, "/chat", `{"message":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	reply, _ := payload["reply"].(string)
	if !strings.HasPrefix(reply, "⚠️") {
		t.Fatalf("expected friendly warning reply, got %q", reply)
	}
}

func TestChatInvalidJSON(t *testing.T) {
	router := newTestRouter(t, &mockChatService{
		chatFunc: func(ctx context.Context, sessionID, message string) (string, error) {
			t.Fatalf("service must not be called for bad JSON")
			return "", nil
		},
	}, nil)

	rec, _ := doJSON(t, router, http.MethodPost, "/chat", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestChatErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantPart   string
	}{
		{"daily limit", llm.ErrDailyLimit, http.StatusTooManyRequests, "Daily request limit"},
		{"exhausted", llm.ErrModelsExhausted, http.StatusTooManyRequests, "All models are busy"},
		{"missing key", llm.ErrMissingAPIKey, http.StatusInternalServerError, "OPENROUTER_API_KEY"},
		{"upstream", &llm.UpstreamError{Message: "model offline"}, http.StatusInternalServerError, "API Error: model offline"},
		{"status", &llm.StatusError{Code: 503}, http.StatusInternalServerError, "Status 503"},
		{"malformed", llm.ErrMalformedResponse, http.StatusInternalServerError, "Unexpected API response"},
		{"empty", llm.ErrEmptyCompletion, http.StatusInternalServerError, "No response generated"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockChatService{
				chatFunc: func(ctx context.Context, sessionID, message string) (string, error) {
					return "", tc.err
				},
			}
			router := newTestRouter(t, svc, nil)

			rec, payload := doJSON(t, router, http.MethodPost, "/chat", `{"message":"hi"}`)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			reply, _ := payload["reply"].(string)
			if !strings.HasPrefix(reply, "⚠️") {
				t.Fatalf("error reply must start with warning sign, got %q", reply)
			}
			if !strings.Contains(reply, tc.wantPart) {
				t.Fatalf("expected %q in reply, got %q", tc.wantPart, reply)
			}
		})
	}
}

func TestClearChat(t *testing.T) {
	var cleared bool
	svc := &mockChatService{
		clearFunc: func(ctx context.Context, sessionID string) error {
			cleared = true
			return nil
		},
	}
	router := newTestRouter(t, svc, nil)

	rec, payload := doJSON(t, router, http.MethodPost, "/clear-chat", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !cleared {
		t.Fatalf("ClearSession was not called")
	}
	if payload["message"] != "Chat history cleared" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestChatHistoryEmptySession(t *testing.T) {
	router := newTestRouter(t, &mockChatService{}, nil)

	rec, payload := doJSON(t, router, http.MethodGet, "/chat-history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Пустая история сериализуется как [], а не null.
	history, ok := payload["history"].([]any)
	if !ok {
		t.Fatalf("expected history array, got %T", payload["history"])
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %v", history)
	}
	if payload["total_messages"] != float64(0) {
		t.Fatalf("unexpected total_messages: %v", payload["total_messages"])
	}
}

func TestChatHistoryWithTurns(t *testing.T) {
	svc := &mockChatService{
		state: chat.State{
			Profile: chat.Profile{Name: "Alice"},
			History: []chat.Turn{
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "hello!"},
			},
		},
	}
	router := newTestRouter(t, svc, nil)

	_, payload := doJSON(t, router, http.MethodGet, "/chat-history", "")
	if payload["total_messages"] != float64(2) {
		t.Fatalf("unexpected total_messages: %v", payload["total_messages"])
	}
	profile, ok := payload["user_context"].(map[string]any)
	if !ok {
		t.Fatalf("expected user_context object, got %T", payload["user_context"])
	}
	if profile["name"] != "Alice" {
		t.Fatalf("unexpected profile: %v", profile)
	}
}

func TestStatusEndpoint(t *testing.T) {
	rotation := llm.NewRotation([]string{"model-a", "model-b"}, 0)
	rotation.Success()
	rotation.RateLimited()

	router := newTestRouter(t, &mockChatService{}, rotation)

	rec, payload := doJSON(t, router, http.MethodGet, "/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if payload["requests_today"] != float64(1) {
		t.Fatalf("unexpected requests_today: %v", payload["requests_today"])
	}
	if payload["model_index"] != float64(1) {
		t.Fatalf("unexpected model_index: %v", payload["model_index"])
	}
	if payload["current_model"] == "" {
		t.Fatalf("expected current_model to be set")
	}
	if payload["date"] == "" {
		t.Fatalf("expected date to be set")
	}
}

func TestAnalyzeCodeEndpoint(t *testing.T) {
	router := newTestRouter(t, &mockChatService{}, nil)

	rec, payload := doJSON(t, router, http.MethodPost, "/analyze-code",
		`{"code":"def f():\n    return 1","language":"python"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	analysis, ok := payload["analysis"].(map[string]any)
	if !ok {
		t.Fatalf("expected analysis object, got %T", payload["analysis"])
	}
	if analysis["language"] != "python" {
		t.Fatalf("unexpected language: %v", analysis["language"])
	}
	if analysis["functions"] != float64(1) {
		t.Fatalf("unexpected functions count: %v", analysis["functions"])
	}
}

func TestAnalyzeCodeRequiresCode(t *testing.T) {
	router := newTestRouter(t, &mockChatService{}, nil)

	rec, payload := doJSON(t, router, http.MethodPost, "/analyze-code", `{"code":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if _, ok := payload["error"]; !ok {
		t.Fatalf("expected error envelope, got %v", payload)
	}
}

// Cookie из первого ответа принимается при повторном запросе:
// сессия стабильна между обращениями.
func TestSessionCookieRoundTrip(t *testing.T) {
	var sessions []string
	svc := &mockChatService{
		chatFunc: func(ctx context.Context, sessionID, message string) (string, error) {
			sessions = append(sessions, sessionID)
			return "ok", nil
		},
	}
	router := newTestRouter(t, svc, nil)

	first := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`))
	firstRec := httptest.NewRecorder()
	router.ServeHTTP(firstRec, first)

	cookies := firstRec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected a session cookie on first response")
	}

	second := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"again"}`))
	for _, c := range cookies {
		second.AddCookie(c)
	}
	secondRec := httptest.NewRecorder()
	router.ServeHTTP(secondRec, second)

	if len(sessions) != 2 {
		t.Fatalf("expected 2 chat calls, got %d", len(sessions))
	}
	if sessions[0] != sessions[1] {
		t.Fatalf("expected stable session id, got %q and %q", sessions[0], sessions[1])
	}

	// Валидная cookie не перевыставляется.
	if len(secondRec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie on second response")
	}
}
