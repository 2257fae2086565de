// dephealth_test.go — тесты конструирования сервиса мониторинга зависимостей.
package service

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestNewDephealthService проверяет конструирование с изолированным registry.
func TestNewDephealthService(t *testing.T) {
	registry := prometheus.NewRegistry()

	ds, err := NewDephealthServiceWithRegisterer(
		"web-module",
		"docverify",
		"http://api.example.com:5000",
		15*time.Second,
		testLogger(),
		registry,
	)
	if err != nil {
		t.Fatalf("Ошибка создания DephealthService: %v", err)
	}
	if ds == nil {
		t.Fatal("Сервис не создан")
	}
}

// TestNewDephealthService_InvalidURL проверяет отказ на некорректном URL.
func TestNewDephealthService_InvalidURL(t *testing.T) {
	registry := prometheus.NewRegistry()

	_, err := NewDephealthServiceWithRegisterer(
		"web-module",
		"docverify",
		"",
		15*time.Second,
		testLogger(),
		registry,
	)
	if err == nil {
		t.Fatal("Ожидалась ошибка для пустого URL")
	}
}
