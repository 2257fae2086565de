// verify.go — публичная проверка документа по fingerprint.
package handlers

import (
	"log/slog"
	"net/http"

	uimiddleware "github.com/arturkryukov/docverify/web-module/internal/ui/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
	"github.com/arturkryukov/docverify/web-module/internal/workflow"
)

// VerifyHandler — обработчик страницы проверки. Доступна без входа.
type VerifyHandler struct {
	client   workflow.Verifier
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewVerifyHandler создаёт VerifyHandler.
func NewVerifyHandler(client workflow.Verifier, renderer *pages.Renderer, logger *slog.Logger) *VerifyHandler {
	return &VerifyHandler{
		client:   client,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.verify")),
	}
}

// HandleVerifyPage обрабатывает GET /verify.
func (h *VerifyHandler) HandleVerifyPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, h.logger, pages.PageVerify, pages.VerifyData{
		Base: pages.Base{
			Identity: uimiddleware.IdentityFromContext(r.Context()),
			Title:    "Verify",
		},
	})
}

// HandleVerify обрабатывает POST /verify: запускает сценарий проверки.
// «Не найден» — содержательный результат, не сбой.
func (h *VerifyHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	fingerprint := r.FormValue("fingerprint")

	data := pages.VerifyData{
		Base: pages.Base{
			Identity: uimiddleware.IdentityFromContext(r.Context()),
			Title:    "Verify",
		},
		Fingerprint: fingerprint,
	}

	verify := workflow.NewVerify(h.client, h.logger)
	defer verify.Close()

	snap, err := verify.Run(r.Context(), fingerprint)
	switch {
	case err != nil:
		data.Error = userMessage(err)
	case snap.State == workflow.StateSucceeded:
		data.Report = snap.Result
	case verifyclient.IsCode(snap.Err, verifyclient.CodeNotFound):
		data.NotFound = true
	default:
		data.Error = userMessage(snap.Err)
	}

	renderPage(w, h.renderer, h.logger, pages.PageVerify, data)
}
