// auth.go — вход, регистрация и выход.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	uimiddleware "github.com/arturkryukov/docverify/web-module/internal/ui/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/ui/routeguard"
	"github.com/arturkryukov/docverify/web-module/internal/workflow"
)

// AuthHandler — обработчики входа, регистрации и выхода.
type AuthHandler struct {
	client   workflow.Authenticator
	renderer *pages.Renderer
	logger   *slog.Logger
}

// NewAuthHandler создаёт AuthHandler.
func NewAuthHandler(client workflow.Authenticator, renderer *pages.Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		client:   client,
		renderer: renderer,
		logger:   logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginPage обрабатывает GET /login.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	// Залогиненному пользователю форма входа не нужна
	if uimiddleware.IdentityFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	renderPage(w, h.renderer, h.logger, pages.PageLogin, pages.LoginData{
		Base: pages.Base{Title: "Login"},
	})
}

// HandleLogin обрабатывает POST /login: запускает сценарий входа и
// при успехе сохраняет Identity в сессию.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	auth := workflow.NewAuth(h.client, h.logger)
	defer auth.Close()

	snap, err := auth.RunLogin(r.Context(), email, password)
	if err != nil || snap.State != workflow.StateSucceeded {
		failure := err
		if failure == nil {
			failure = snap.Err
		}
		h.logger.Info("Вход не выполнен",
			slog.String("email", email),
			slog.String("error", failure.Error()),
		)
		renderPage(w, h.renderer, h.logger, pages.PageLogin, pages.LoginData{
			Base:  pages.Base{Title: "Login"},
			Email: email,
			Error: userMessage(failure),
		})
		return
	}

	store := uimiddleware.StoreFromContext(r.Context())
	if err := store.Set(w, snap.Result); err != nil {
		h.logger.Error("Ошибка записи сессии", slog.String("error", err.Error()))
		http.Error(w, "Ошибка создания сессии", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Пользователь аутентифицирован",
		slog.Int("user_id", snap.Result.UserID),
		slog.String("role", snap.Result.Role),
	)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleRegisterPage обрабатывает GET /register.
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	if uimiddleware.IdentityFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	renderPage(w, h.renderer, h.logger, pages.PageRegister, pages.RegisterData{
		Base: pages.Base{Title: "Register"},
	})
}

// HandleRegister обрабатывает POST /register: регистрация и, только
// после её успеха, вход с теми же учётными данными. Частичный отказ
// (запись создана, вход не удался) отправляет на форму входа.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")
	email := r.FormValue("email")
	password := r.FormValue("password")

	auth := workflow.NewAuth(h.client, h.logger)
	defer auth.Close()

	snap, err := auth.RunRegister(r.Context(), name, email, password)
	if err != nil || snap.State != workflow.StateSucceeded {
		failure := err
		if failure == nil {
			failure = snap.Err
		}

		if errors.Is(failure, workflow.ErrRegisteredLoginFailed) {
			renderPage(w, h.renderer, h.logger, pages.PageLogin, pages.LoginData{
				Base:  pages.Base{Title: "Login"},
				Email: email,
				Error: userMessage(failure),
			})
			return
		}

		renderPage(w, h.renderer, h.logger, pages.PageRegister, pages.RegisterData{
			Base:  pages.Base{Title: "Register"},
			Name:  name,
			Email: email,
			Error: userMessage(failure),
		})
		return
	}

	store := uimiddleware.StoreFromContext(r.Context())
	if err := store.Set(w, snap.Result); err != nil {
		h.logger.Error("Ошибка записи сессии", slog.String("error", err.Error()))
		http.Error(w, "Ошибка создания сессии", http.StatusInternalServerError)
		return
	}

	h.logger.Info("Пользователь зарегистрирован и аутентифицирован",
		slog.Int("user_id", snap.Result.UserID),
	)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleLogout обрабатывает POST /logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	store := uimiddleware.StoreFromContext(r.Context())
	if store != nil {
		store.Clear(w)
	}
	h.logger.Info("Пользователь вышел")
	http.Redirect(w, r, routeguard.LoginPath, http.StatusFound)
}
