// Package metrics holds the Prometheus collectors for policy decisions,
// service use cases and budget alerts.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lani-platform/lani/internal/policy"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	policyDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lani",
			Subsystem: "policy",
			Name:      "decisions_total",
			Help:      "Total number of authorization decisions.",
		},
		[]string{"kind", "action", "allowed"},
	)

	policyDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lani",
			Subsystem: "policy",
			Name:      "decision_duration_seconds",
			Help:      "Time spent resolving capabilities and evaluating rules.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
		},
		[]string{"kind"},
	)

	useCaseRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lani",
			Subsystem: "service",
			Name:      "use_cases_total",
			Help:      "Total number of service use-case executions.",
		},
		[]string{"use_case", "success"},
	)

	useCaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lani",
			Subsystem: "service",
			Name:      "use_case_duration_seconds",
			Help:      "Duration of service use-case executions.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"use_case"},
	)

	budgetAlerts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lani",
			Subsystem: "budget",
			Name:      "alerts_total",
			Help:      "Budget alerts raised, by the status the budget moved into.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		policyDecisions,
		policyDuration,
		useCaseRuns,
		useCaseDuration,
		budgetAlerts,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// DecisionObserver counts policy decisions. It satisfies
// policy.DecisionObserver.
type DecisionObserver struct{}

func (DecisionObserver) ObserveDecision(_ context.Context, d policy.Decision) {
	policyDecisions.WithLabelValues(string(d.Kind), string(d.Action), strconv.FormatBool(d.Allowed)).Inc()
	policyDuration.WithLabelValues(string(d.Kind)).Observe(d.Duration.Seconds())
}

// RecordUseCase records one service use-case execution.
func RecordUseCase(name string, duration time.Duration, success bool) {
	if name == "" {
		name = "unknown"
	}
	if duration <= 0 {
		duration = time.Microsecond
	}
	useCaseRuns.WithLabelValues(name, strconv.FormatBool(success)).Inc()
	useCaseDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordBudgetAlert counts an alert for a budget that moved into status.
func RecordBudgetAlert(status string) {
	budgetAlerts.WithLabelValues(status).Inc()
}
