// Точка входа веб-модуля системы верификации документов.
// Загружает конфигурацию, создаёт клиент API верификации и session
// manager, запускает мониторинг зависимостей (topologymetrics) и
// HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/arturkryukov/docverify/web-module/internal/config"
	"github.com/arturkryukov/docverify/web-module/internal/server"
	"github.com/arturkryukov/docverify/web-module/internal/service"
	"github.com/arturkryukov/docverify/web-module/internal/session"
	"github.com/arturkryukov/docverify/web-module/internal/ui/pages"
	"github.com/arturkryukov/docverify/web-module/internal/verifyclient"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Веб-модуль запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("api_url", cfg.APIURL),
	)

	// Предупреждения о дефолтных значениях topologymetrics
	if os.Getenv("DV_DEPHEALTH_GROUP") == "" {
		logger.Warn("DV_DEPHEALTH_GROUP не задана, используется значение по умолчанию",
			slog.String("default", cfg.DephealthGroup),
		)
	}

	// 3. Клиент API верификации
	client, err := verifyclient.New(cfg.APIURL, cfg.APICACertPath, cfg.APITimeout, logger)
	if err != nil {
		logger.Error("Ошибка создания клиента API", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Session Manager — шифрование session cookie (AES-256-GCM)
	if cfg.SessionSecret == "" {
		logger.Warn("DV_SESSION_SECRET не задан, сессии не сохраняются между рестартами")
	}
	sessionManager, err := session.NewManager(cfg.SessionSecret, cfg.SecureCookie, cfg.SessionTTL)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 5. Рендерер страниц (встроенные шаблоны)
	renderer, err := pages.NewRenderer()
	if err != nil {
		logger.Error("Ошибка разбора шаблонов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. topologymetrics — мониторинг зависимости verify-api
	ctx := context.Background()
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"web-module",
		cfg.DephealthGroup,
		cfg.APIURL,
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics",
				slog.String("error", startErr.Error()),
			)
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 7. Создание и запуск HTTP-сервера
	srv := server.New(cfg, logger, client, sessionManager, renderer)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 8. Graceful shutdown фоновых задач
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}

	logger.Info("Веб-модуль остановлен")
}
