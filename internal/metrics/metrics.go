package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	settlementOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "settlement_outcomes_total",
			Help: "Ledger operations by outcome kind.",
		},
		[]string{"operation", "kind"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route", "status"},
	)

	reportWarmRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_warm_runs_total",
			Help: "Report cache warm runs by result.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		settlementOutcomes,
		httpDuration,
		reportWarmRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordOutcome counts one ledger operation result; kind is "ok" on success.
func RecordOutcome(operation, kind string) {
	settlementOutcomes.WithLabelValues(operation, kind).Inc()
}

func ObserveHTTP(method, route, status string, seconds float64) {
	httpDuration.WithLabelValues(method, route, status).Observe(seconds)
}

func RecordWarmRun(success bool) {
	label := "false"
	if success {
		label = "true"
	}
	reportWarmRuns.WithLabelValues(label).Inc()
}
