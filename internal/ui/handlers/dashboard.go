// dashboard.go — список документов пользователя и детали документа.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	uimiddleware "github.com/arturkryukov/docverify/web-module/internal/ui/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// DocumentReader — операции чтения документов из API.
type DocumentReader interface {
	ListOwnDocuments(ctx context.Context, userID int) ([]verifyclient.DocumentRecord, error)
	GetDocument(ctx context.Context, docID int) (*verifyclient.DocumentDetails, error)
}

// DashboardHandler — обработчик страниц «мои документы» и деталей.
type DashboardHandler struct {
	client   DocumentReader
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewDashboardHandler создаёт DashboardHandler.
func NewDashboardHandler(client DocumentReader, renderer *pages.Renderer, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		client:   client,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.dashboard")),
	}
}

// HandleDashboard обрабатывает GET /dashboard.
// Статусы документов приходят read-only: переходов здесь нет.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	identity := uimiddleware.IdentityFromContext(r.Context())

	data := pages.DashboardData{
		Base: pages.Base{Identity: identity, Title: "My Documents"},
	}

	docs, err := h.client.ListOwnDocuments(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Warn("Ошибка загрузки документов",
			slog.Int("user_id", identity.UserID),
			slog.String("error", err.Error()),
		)
		data.Error = userMessage(err)
	} else {
		data.Documents = docs
	}

	renderPage(w, h.renderer, h.logger, pages.PageDashboard, data)
}

// HandleDocument обрабатывает GET /documents/{id}.
func (h *DashboardHandler) HandleDocument(w http.ResponseWriter, r *http.Request) {
	identity := uimiddleware.IdentityFromContext(r.Context())

	data := pages.DocumentData{
		Base: pages.Base{Identity: identity, Title: "Document"},
	}

	docID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		data.Error = "Unknown document."
		renderPage(w, h.renderer, h.logger, pages.PageDocument, data)
		return
	}

	details, err := h.client.GetDocument(r.Context(), docID)
	if err != nil {
		h.logger.Warn("Ошибка загрузки документа",
			slog.Int("doc_id", docID),
			slog.String("error", err.Error()),
		)
		data.Error = userMessage(err)
	} else {
		data.Details = details
	}

	renderPage(w, h.renderer, h.logger, pages.PageDocument, data)
}
