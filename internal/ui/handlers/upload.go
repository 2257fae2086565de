// upload.go — загрузка документа на fingerprinting.
package handlers

import (
	"io"
	"log/slog"
	"net/http"

	uimiddleware "github.com/arturkryukov/docverify/web-module/internal/ui/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/workflow"
)

// UploadHandler — обработчик страницы загрузки. Тип и размер файла
// не проверяются локально: решает сервер API.
type UploadHandler struct {
	client   workflow.Uploader
	renderer *pages.Renderer
	logger   *slog.Logger
	// maxBytes — предел памяти при разборе multipart-формы.
	maxBytes int64
}

// NewUploadHandler создаёт UploadHandler.
func NewUploadHandler(client workflow.Uploader, renderer *pages.Renderer, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		client:   client,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.upload")),
		maxBytes: maxBytes,
	}
}

// HandleUploadPage обрабатывает GET /upload.
func (h *UploadHandler) HandleUploadPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, h.logger, pages.PageUpload, pages.UploadData{
		Base: pages.Base{
			Identity: uimiddleware.IdentityFromContext(r.Context()),
			Title:    "Upload",
		},
	})
}

// HandleUpload обрабатывает POST /upload: читает файл из формы и
// запускает сценарий загрузки.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	identity := uimiddleware.IdentityFromContext(r.Context())

	data := pages.UploadData{
		Base: pages.Base{Identity: identity, Title: "Upload"},
	}

	var filename string
	var content []byte
	if err := r.ParseMultipartForm(h.maxBytes); err == nil {
		if file, header, err := r.FormFile("file"); err == nil {
			defer file.Close()
			filename = header.Filename
			if content, err = io.ReadAll(file); err != nil {
				h.logger.Warn("Ошибка чтения файла формы", slog.String("error", err.Error()))
				content = nil
			}
		}
	}
	docType := r.FormValue("doc_type")

	upload := workflow.NewUpload(h.client, h.logger)
	defer upload.Close()

	snap, err := upload.Run(r.Context(), identity.UserID, docType, filename, content)
	switch {
	case err != nil:
		data.Error = userMessage(err)
	case snap.State == workflow.StateSucceeded:
		data.Result = snap.Result
		h.logger.Info("Документ загружен",
			slog.Int("user_id", identity.UserID),
			slog.Int("doc_id", snap.Result.Document.DocID),
		)
	default:
		data.Error = userMessage(snap.Err)
	}

	renderPage(w, h.renderer, h.logger, pages.PageUpload, data)
}
