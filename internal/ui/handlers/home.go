// home.go — главная страница и страница not found.
package handlers

import (
	"log/slog"
	"net/http"

	uimiddleware "github.com/arturkryukov/docverify/web-module/internal/ui/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/ui/routeguard"
)

// HomeHandler — обработчик главной страницы.
type HomeHandler struct {
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewHomeHandler создаёт HomeHandler.
func NewHomeHandler(renderer *pages.Renderer, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.home")),
	}
}

// HandleHome обрабатывает GET /. Не распознанный guard-ом путь
// рендерится как not found с кодом 404.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	identity := uimiddleware.IdentityFromContext(r.Context())

	if uimiddleware.ViewFromContext(r.Context()) == routeguard.ViewNotFound {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		renderPage(w, h.renderer, h.logger, pages.PageNotFound, pages.Base{
			Identity: identity,
			Title:    "Not Found",
		})
		return
	}

	renderPage(w, h.renderer, h.logger, pages.PageHome, pages.Base{
		Identity: identity,
		Title:    "Home",
	})
}

// HandleNotFound обрабатывает все прочие пути.
func (h *HomeHandler) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	renderPage(w, h.renderer, h.logger, pages.PageNotFound, pages.Base{
		Identity: uimiddleware.IdentityFromContext(r.Context()),
		Title:    "Not Found",
	})
}
