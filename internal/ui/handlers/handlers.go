// Пакет handlers — HTTP-обработчики страниц веб-интерфейса.
// Каждая страница: GET рендерит форму, POST запускает сценарий workflow
// и перерисовывает страницу с результатом.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
	"github.com/arturkryukov/docverify/web-module/internal/workflow"
)

// renderPage рендерит страницу с общим Content-Type и обработкой ошибок.
func renderPage(w http.ResponseWriter, renderer *pages.Renderer, logger *slog.Logger, page pages.Page, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderer.Render(w, page, data); err != nil {
		logger.Error("Ошибка рендеринга страницы",
			slog.String("page", string(page)),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Ошибка рендеринга страницы", http.StatusInternalServerError)
	}
}

// userMessage переводит отказ сценария в сообщение для пользователя.
// Детали транспортных ошибок наружу не выходят.
func userMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, workflow.ErrBusy):
		return "Previous request is still in progress, try again."
	case errors.Is(err, workflow.ErrNoFile):
		return "Select a file to upload."
	case errors.Is(err, workflow.ErrBlankFingerprint):
		return "Enter a document fingerprint."
	case errors.Is(err, workflow.ErrRegisteredLoginFailed):
		return "Account created, but automatic sign-in failed. Please log in."
	}

	var apiErr *verifyclient.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case verifyclient.CodeUnauthorized:
			return "Invalid email or password."
		case verifyclient.CodeConflict:
			return "This email is already registered."
		case verifyclient.CodeUnsupportedType:
			return "This file type is not supported."
		case verifyclient.CodeTooLarge:
			return "The file is too large."
		case verifyclient.CodeNotFound:
			return "Not found."
		case verifyclient.CodeValidation:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "The request was rejected, check the form."
		}
	}
	return "The verification service is unavailable, try again later."
}
