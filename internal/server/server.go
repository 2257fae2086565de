// Пакет server — HTTP-сервер веб-модуля с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на reverse proxy.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arturkryukov/docverify/web-module/internal/config"
	"github.com/arturkryukov/docverify/web-module/internal/health"
	"github.com/arturkryukov/docverify/web-module/internal/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/session"
	"github.com/arturkryukov/docverify/web-module/internal/ui/handlers"
	uimiddleware "github.com/arturkryukov/docverify/web-module/internal/ui/middleware"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/ui/static"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

// Server — HTTP-сервер веб-модуля.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(
	cfg *config.Config,
	logger *slog.Logger,
	client *verifyclient.Client,
	sessionManager *session.Manager,
	renderer *pages.Renderer,
) *Server {
	router := NewRouter(cfg, logger, client, sessionManager, renderer)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-маршрутизатор веб-модуля.
// Страничные маршруты проходят через guard; health, metrics и static —
// без него (их проверяют Kubernetes и Prometheus напрямую).
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	client *verifyclient.Client,
	sessionManager *session.Manager,
	renderer *pages.Renderer,
) chi.Router {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health и metrics
	healthHandler := health.NewHandler(health.NewAPIChecker(client.BaseURL()))
	router.Get("/health/live", healthHandler.HealthLive)
	router.Get("/health/ready", healthHandler.HealthReady)
	router.Get("/metrics", healthHandler.GetMetrics)

	// Статические ресурсы
	router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(static.FileSystem())))

	// Обработчики страниц
	homeHandler := handlers.NewHomeHandler(renderer, logger)
	authHandler := handlers.NewAuthHandler(client, renderer, logger)
	verifyHandler := handlers.NewVerifyHandler(client, renderer, logger)
	uploadHandler := handlers.NewUploadHandler(client, renderer, cfg.UploadMaxBytes, logger)
	dashboardHandler := handlers.NewDashboardHandler(client, renderer, logger)
	adminHandler := handlers.NewAdminHandler(client, renderer, logger)

	// Страничные маршруты — через guard
	guard := uimiddleware.NewGuard(sessionManager, logger)
	router.Group(func(r chi.Router) {
		r.Use(guard.Middleware())

		r.Get("/", homeHandler.HandleHome)

		r.Get("/login", authHandler.HandleLoginPage)
		r.Post("/login", authHandler.HandleLogin)
		r.Get("/register", authHandler.HandleRegisterPage)
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/logout", authHandler.HandleLogout)

		r.Get("/verify", verifyHandler.HandleVerifyPage)
		r.Post("/verify", verifyHandler.HandleVerify)

		r.Get("/upload", uploadHandler.HandleUploadPage)
		r.Post("/upload", uploadHandler.HandleUpload)

		r.Get("/dashboard", dashboardHandler.HandleDashboard)
		r.Get("/documents/{id}", dashboardHandler.HandleDocument)

		r.Get("/admin", adminHandler.HandleAdminPage)
		r.Post("/admin/decision", adminHandler.HandleDecision)
		r.Post("/admin/compare", adminHandler.HandleCompare)

		r.NotFound(homeHandler.HandleNotFound)
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
