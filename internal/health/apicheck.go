// apicheck.go — проверка доступности API верификации для readiness probe.
package health

import (
	"context"
	"net/http"
	"time"
)

// apiCheckTimeout — таймаут одной проверки.
const apiCheckTimeout = 5 * time.Second

// APIChecker проверяет доступность API верификации HTTP-запросом к
// базовому адресу. Любой HTTP-ответ считается признаком доступности;
// отказ транспорта — fail.
type APIChecker struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIChecker создаёт APIChecker для указанного базового адреса.
func NewAPIChecker(baseURL string) *APIChecker {
	return &APIChecker{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: apiCheckTimeout},
	}
}

// CheckReady реализует ReadinessChecker.
func (c *APIChecker) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), apiCheckTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return "fail", err.Error()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "fail", err.Error()
	}
	defer resp.Body.Close()

	return "ok", ""
}
