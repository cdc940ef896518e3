package middleware

import (
	"context"
	"net/http"

	"vibecoding/internal/session"
)

const sessionCookieName = "vibe_session"

type sessionIDKey struct{}

// Session гарантирует, что у запроса есть валидная сессия.
// Подписанная cookie проверяется; при отсутствии или подделке
// выпускается новая сессия и cookie перевыставляется.
// Идентификатор сессии кладётся в контекст запроса.
func Session(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sid string
			if cookie, err := r.Cookie(sessionCookieName); err == nil {
				if id, ok := manager.Verify(cookie.Value); ok {
					sid = id
				}
			}
			if sid == "" {
				id, value := manager.Issue()
				sid = id
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    value,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionIDKey{}, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID возвращает идентификатор сессии из контекста запроса.
func SessionID(ctx context.Context) string {
	if sid, ok := ctx.Value(sessionIDKey{}).(string); ok {
		return sid
	}
	return ""
}
