// admin.go — панель администратора: очередь pending-документов,
// решения и сравнение документов.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	uimiddleware "github.com/arturkryukov/docverify/web-module/internal/ui/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
	"github.com/arturkryukov/docverify/web-module/internal/workflow"
)

// AdminAPI — операции API, нужные панели администратора.
type AdminAPI interface {
	workflow.ReviewAPI
	CompareDocuments(ctx context.Context, doc1, doc2 int) (*verifyclient.ComparisonResult, error)
}

// AdminHandler — обработчики панели администратора. Доступ только для
// роли admin обеспечивает guard; сервер API проверяет решения ещё раз.
type AdminHandler struct {
	client   AdminAPI
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewAdminHandler создаёт AdminHandler.
func NewAdminHandler(client AdminAPI, renderer *pages.Renderer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		client:   client,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.admin")),
	}
}

// HandleAdminPage обрабатывает GET /admin: загружает очередь.
func (h *AdminHandler) HandleAdminPage(w http.ResponseWriter, r *http.Request) {
	data := pages.AdminData{
		Base: pages.Base{
			Identity: uimiddleware.IdentityFromContext(r.Context()),
			Title:    "Admin",
		},
	}

	review := workflow.NewAdminReview(h.client, h.logger)
	defer review.Close()

	snap, err := review.RunLoadPending(r.Context())
	switch {
	case err != nil:
		data.Error = userMessage(err)
	case snap.State == workflow.StateSucceeded:
		data.Pending = snap.Result
	default:
		data.Error = userMessage(snap.Err)
	}

	renderPage(w, h.renderer, h.logger, pages.PageAdmin, data)
}

// HandleDecision обрабатывает POST /admin/decision: отправляет решение
// и показывает перечитанную с сервера очередь. Очередь никогда не
// правится локально.
func (h *AdminHandler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	identity := uimiddleware.IdentityFromContext(r.Context())

	data := pages.AdminData{
		Base: pages.Base{Identity: identity, Title: "Admin"},
	}

	docID, err := strconv.Atoi(r.FormValue("doc_id"))
	if err != nil {
		data.Error = "Unknown document."
		renderPage(w, h.renderer, h.logger, pages.PageAdmin, data)
		return
	}

	decision := model.ReviewDecision{
		DocID:   docID,
		AdminID: identity.UserID,
		Status:  r.FormValue("status"),
		Remarks: r.FormValue("remarks"),
	}

	review := workflow.NewAdminReview(h.client, h.logger)
	defer review.Close()

	snap, err := review.RunDecision(r.Context(), decision)
	switch {
	case err != nil:
		data.Error = userMessage(err)
		h.reloadPending(r.Context(), &data)
	case snap.State == workflow.StateSucceeded:
		data.Notice = snap.Result.Ack.Message
		data.Pending = snap.Result.Pending
		h.logger.Info("Решение по документу принято",
			slog.Int("doc_id", docID),
			slog.Int("admin_id", identity.UserID),
			slog.String("status", decision.Status),
		)
	default:
		data.Error = userMessage(snap.Err)
		h.reloadPending(r.Context(), &data)
	}

	renderPage(w, h.renderer, h.logger, pages.PageAdmin, data)
}

// HandleCompare обрабатывает POST /admin/compare.
func (h *AdminHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	data := pages.AdminData{
		Base: pages.Base{
			Identity: uimiddleware.IdentityFromContext(r.Context()),
			Title:    "Admin",
		},
	}

	doc1, err1 := strconv.Atoi(r.FormValue("doc1"))
	doc2, err2 := strconv.Atoi(r.FormValue("doc2"))
	if err1 != nil || err2 != nil {
		data.Error = "Select two documents to compare."
		h.reloadPending(r.Context(), &data)
		renderPage(w, h.renderer, h.logger, pages.PageAdmin, data)
		return
	}

	result, err := h.client.CompareDocuments(r.Context(), doc1, doc2)
	if err != nil {
		data.Error = userMessage(err)
	} else {
		data.Comparison = result
	}

	h.reloadPending(r.Context(), &data)
	renderPage(w, h.renderer, h.logger, pages.PageAdmin, data)
}

// reloadPending дозагружает очередь для страниц, показывающих её
// вместе с результатом операции. Отказ очереди не затирает основной.
func (h *AdminHandler) reloadPending(ctx context.Context, data *pages.AdminData) {
	pending, err := h.client.ListPendingDocuments(ctx)
	if err != nil {
		h.logger.Warn("Очередь не загружена", slog.String("error", err.Error()))
		return
	}
	data.Pending = pending
}
