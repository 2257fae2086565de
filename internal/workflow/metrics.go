// metrics.go — Prometheus метрики сценариев.
package workflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы попыток
const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeDiscarded = "discarded"
)

// submissionsTotal — количество завершённых попыток по сценариям и исходам.
var submissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "dv_workflow_submissions_total",
		Help: "Количество завершённых попыток сценариев по исходам",
	},
	[]string{"workflow", "outcome"},
)
