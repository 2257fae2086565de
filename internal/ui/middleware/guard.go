// Пакет middleware — HTTP middleware веб-интерфейса.
// guard.go — защита страничных маршрутов: сессия из cookie, решение
// routeguard, redirect на /login для запрещённых страниц.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/arturkryukov/docverify/web-module/internal/domain/model"
	"github.com/arturkryukov/docverify/web-module/internal/session"
	"github.com/arturkryukov/docverify/web-module/internal/ui/routeguard"
)

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeySessionStore — Store текущего обмена в контексте запроса.
	ContextKeySessionStore contextKey = "session_store"
	// ContextKeyView — страница, разрешённая guard-ом.
	ContextKeyView contextKey = "view"
)

// Guard — middleware страничных маршрутов. Для каждого запроса строит
// session.Store (одно чтение cookie), спрашивает routeguard.Decide и
// либо пропускает запрос с Identity в контексте, либо отвечает 302.
type Guard struct {
	manager *session.Manager
	logger  *slog.Logger
}

// NewGuard создаёт Guard.
func NewGuard(manager *session.Manager, logger *slog.Logger) *Guard {
	return &Guard{
		manager: manager,
		logger:  logger.With(slog.String("component", "guard_middleware")),
	}
}

// Middleware возвращает HTTP middleware защиты страниц.
// Повреждённый cookie очищается у клиента и трактуется как отсутствие
// сессии, без ошибки пользователю.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			store := session.NewStore(g.manager, r)

			if store.Corrupt() {
				g.logger.Debug("Повреждённый session cookie очищен",
					slog.String("remote_addr", r.RemoteAddr),
				)
				store.Clear(w)
			}

			decision := routeguard.Decide(r.URL.Path, store.Get())
			if !decision.Allowed() {
				http.Redirect(w, r, decision.Redirect, http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionStore, store)
			ctx = context.WithValue(ctx, ContextKeyView, decision.View)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StoreFromContext извлекает session.Store из контекста запроса.
// Возвращает nil, если запрос не прошёл через Guard.
func StoreFromContext(ctx context.Context) *session.Store {
	store, ok := ctx.Value(ContextKeySessionStore).(*session.Store)
	if !ok {
		return nil
	}
	return store
}

// IdentityFromContext извлекает текущую Identity из контекста запроса.
// Возвращает nil для неаутентифицированного запроса.
func IdentityFromContext(ctx context.Context) *model.Identity {
	store := StoreFromContext(ctx)
	if store == nil {
		return nil
	}
	return store.Get()
}

// ViewFromContext извлекает разрешённую guard-ом страницу.
func ViewFromContext(ctx context.Context) routeguard.View {
	view, ok := ctx.Value(ContextKeyView).(routeguard.View)
	if !ok {
		return routeguard.ViewNotFound
	}
	return view
}
