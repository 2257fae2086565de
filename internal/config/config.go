// Пакет config — загрузка и валидация конфигурации веб-модуля
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации веб-модуля.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- API верификации ---

	// Базовый URL API сервиса верификации
	APIURL string
	// Путь к CA-сертификату для TLS-соединений с API (опционально)
	APICACertPath string
	// Таймаут запросов к API
	APITimeout time.Duration

	// --- Сессия ---

	// Секрет шифрования session cookie. Пустой — случайный ключ,
	// сессии не переживают перезапуск.
	SessionSecret string
	// Время жизни сессии
	SessionTTL time.Duration
	// Secure flag для session cookie
	SecureCookie bool

	// --- Загрузка файлов ---

	// Предел памяти при разборе multipart-форм
	UploadMaxBytes int64

	// --- Мониторинг зависимостей ---

	// Имя группы в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей topologymetrics
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
// Файл .env в рабочей директории, если есть, подхватывается до чтения
// переменных; уже заданные переменные окружения имеют приоритет.
func Load() (*Config, error) {
	// .env опционален: отсутствие файла не ошибка
	_ = godotenv.Load()

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// DV_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("DV_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("DV_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("DV_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// DV_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("DV_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("DV_LOG_LEVEL: %w", err)
	}

	// DV_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("DV_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("DV_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- API верификации ---

	// DV_API_URL — обязательный
	cfg.APIURL, err = getEnvRequired("DV_API_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	// DV_API_CA_CERT_PATH — путь к CA-сертификату API (опционально)
	cfg.APICACertPath = getEnvDefault("DV_API_CA_CERT_PATH", "")

	// DV_API_TIMEOUT — таймаут запросов к API (по умолчанию 30s)
	cfg.APITimeout, err = getEnvDuration("DV_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DV_API_TIMEOUT: %w", err)
	}

	// --- Сессия ---

	// DV_SESSION_SECRET — секрет шифрования cookie (опционально)
	cfg.SessionSecret = getEnvDefault("DV_SESSION_SECRET", "")

	// DV_SESSION_TTL — время жизни сессии (по умолчанию 24h)
	cfg.SessionTTL, err = getEnvDuration("DV_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("DV_SESSION_TTL: %w", err)
	}

	// DV_SECURE_COOKIE — Secure flag для cookie (по умолчанию false)
	cfg.SecureCookie, err = getEnvBool("DV_SECURE_COOKIE", false)
	if err != nil {
		return nil, fmt.Errorf("DV_SECURE_COOKIE: %w", err)
	}

	// --- Загрузка файлов ---

	// DV_UPLOAD_MAX_BYTES — предел multipart-формы (по умолчанию 16 MiB)
	uploadMax, err := getEnvInt("DV_UPLOAD_MAX_BYTES", 16<<20)
	if err != nil {
		return nil, fmt.Errorf("DV_UPLOAD_MAX_BYTES: %w", err)
	}
	if uploadMax < 1 {
		return nil, fmt.Errorf("DV_UPLOAD_MAX_BYTES: значение %d должно быть положительным", uploadMax)
	}
	cfg.UploadMaxBytes = int64(uploadMax)

	// --- Мониторинг зависимостей ---

	// DV_DEPHEALTH_GROUP — имя группы в метриках (по умолчанию docverify)
	cfg.DephealthGroup = getEnvDefault("DV_DEPHEALTH_GROUP", "docverify")

	// DV_DEPHEALTH_CHECK_INTERVAL — интервал проверки (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("DV_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DV_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// DV_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("DV_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("DV_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
