package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/arturkryukov/docverify/web-module/internal/config"
	"github.com/arturkryukov/docverify/web-module/internal/session"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// setupRouter собирает маршрутизатор против mock API.
func setupRouter(t *testing.T, apiHandler http.HandlerFunc) http.Handler {
	t.Helper()

	api := httptest.NewServer(apiHandler)
	t.Cleanup(api.Close)

	cfg := &config.Config{
		Port:           8080,
		APIURL:         api.URL,
		APITimeout:     5 * time.Second,
		SessionTTL:     time.Hour,
		UploadMaxBytes: 16 << 20,
	}

	client, err := verifyclient.New(cfg.APIURL, "", cfg.APITimeout, testLogger())
	if err != nil {
		t.Fatalf("Ошибка создания клиента: %v", err)
	}

	manager, err := session.NewManager("test-secret", false, cfg.SessionTTL)
	if err != nil {
		t.Fatalf("Ошибка создания Manager: %v", err)
	}

	renderer, err := pages.NewRenderer()
	if err != nil {
		t.Fatalf("Ошибка разбора шаблонов: %v", err)
	}

	return NewRouter(cfg, testLogger(), client, manager, renderer)
}

// mockBackend — mock API с login и списком документов.
func mockBackend(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/login" && r.Method == http.MethodPost:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user": map[string]any{"user_id": 3, "name": "Alice", "role": "user"},
			})
		case r.URL.Path == "/user/3/documents":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"user_id":         3,
				"total_documents": 1,
				"documents": []map[string]any{
					{"doc_id": 1, "doc_name": "passport.png", "verification_status": "verified"},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
		}
	}
}

// TestRouter_LoginFlow проверяет сквозной сценарий: вход через форму
// ставит session cookie, после чего /dashboard рендерится с документами.
func TestRouter_LoginFlow(t *testing.T) {
	router := setupRouter(t, mockBackend(t))

	// /dashboard без сессии — redirect на /login
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("Без сессии: статус %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}

	// POST /login — успешный вход
	form := strings.NewReader("email=alice%40example.com&password=secret")
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Fatalf("Вход: статус %d, Location %q", rec.Code, rec.Header().Get("Location"))
	}

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatal("Session cookie не установлен")
	}
	if !sessionCookie.HttpOnly {
		t.Error("Session cookie без HttpOnly")
	}

	// GET /dashboard с cookie — страница с документами
	req = httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Dashboard: статус %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "passport.png") {
		t.Errorf("Страница не содержит документ: %s", body)
	}
	if !strings.Contains(body, "Alice") {
		t.Errorf("Страница не содержит имя пользователя: %s", body)
	}
}

// TestRouter_LoginInvalid проверяет повторный рендер формы с ошибкой.
func TestRouter_LoginInvalid(t *testing.T) {
	router := setupRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	})

	form := strings.NewReader("email=alice%40example.com&password=wrong")
	req := httptest.NewRequest(http.MethodPost, "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Статус: want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid email or password") {
		t.Errorf("Нет сообщения об ошибке: %s", rec.Body.String())
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge >= 0 {
			t.Error("Session cookie установлен при неудачном входе")
		}
	}
}

// TestRouter_HealthAndMetrics проверяет служебные endpoints вне guard.
func TestRouter_HealthAndMetrics(t *testing.T) {
	router := setupRouter(t, mockBackend(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/health/live: статус %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("/metrics: статус %d", rec.Code)
	}
}

// TestRouter_PublicVerify проверяет публичную проверку без сессии.
func TestRouter_PublicVerify(t *testing.T) {
	router := setupRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/verify/") {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"verified": true,
				"message":  "Document verified successfully!",
				"document": map[string]any{"doc_id": 9, "doc_name": "diploma.pdf"},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	form := strings.NewReader("fingerprint=cafebabe")
	req := httptest.NewRequest(http.MethodPost, "/verify", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Статус: want 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "diploma.pdf") {
		t.Errorf("Нет результата проверки: %s", rec.Body.String())
	}
}

// TestRouter_UnknownPath проверяет 404 для неизвестного пути.
func TestRouter_UnknownPath(t *testing.T) {
	router := setupRouter(t, mockBackend(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Статус: want 404, got %d", rec.Code)
	}
}
