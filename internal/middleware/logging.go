// logging.go — логирование HTTP-запросов с request id.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// requestIDKey — ключ контекста для request id.
type requestIDKey struct{}

// RequestIDHeader — заголовок, через который request id принимается
// от reverse proxy и возвращается клиенту.
const RequestIDHeader = "X-Request-Id"

// RequestLogger возвращает middleware логирования запросов.
// Каждому запросу присваивается request id (из заголовка или новый UUID);
// уровень записи зависит от статуса ответа: 5xx — ERROR, 4xx — WARN,
// остальное — INFO.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	logger = logger.With(slog.String("component", "http"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r.WithContext(ctx))

			attrs := []any{
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", time.Since(start)),
				slog.String("remote_addr", r.RemoteAddr),
			}

			switch {
			case wrapped.statusCode >= 500:
				logger.Error("HTTP запрос", attrs...)
			case wrapped.statusCode >= 400:
				logger.Warn("HTTP запрос", attrs...)
			default:
				logger.Info("HTTP запрос", attrs...)
			}
		})
	}
}

// RequestIDFromContext возвращает request id текущего запроса.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok {
		return ""
	}
	return id
}
