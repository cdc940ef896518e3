package httpserver

import (
	_ "embed"
	"html/template"
	"net/http"

	"log/slog"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Parse(indexHTML))

// Home отдаёт страницу чата. Содержимое страницы для сервиса непрозрачно:
// весь обмен идёт через JSON-эндпоинты.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, nil); err != nil {
		h.logger.Error("render index failed", slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
