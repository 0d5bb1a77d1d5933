// Package metrics provides the centralized Prometheus registry for the
// calibration engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	CalibrationRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "calibration_runs_total",
		Help:      "Total number of calibration runs by league and status",
	}, []string{"league", "status"})
	RecordsExcludedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "records_excluded_total",
		Help:      "Record/market pairs excluded during synthesis by reason",
	}, []string{"league", "reason"})
	BetsSynthesizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "edge_calibrator",
		Name:      "bets_synthesized_total",
		Help:      "Synthetic bets produced per league and window",
	}, []string{"league", "window"})
)

// Gauge metrics
var (
	ChosenEdgeThreshold = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edge_calibrator",
		Name:      "chosen_edge_threshold",
		Help:      "Edge threshold selected by the tuner per league and market",
	}, []string{"league", "market"})
	TestWindowROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "edge_calibrator",
		Name:      "test_window_roi",
		Help:      "Held-out test window ROI of the most recent run per league",
	}, []string{"league"})
)

// Histogram metrics
var (
	CalibrationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "edge_calibrator",
		Name:      "calibration_duration_seconds",
		Help:      "Duration of calibration runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(CalibrationRunsTotal)
		registry.MustRegister(RecordsExcludedTotal)
		registry.MustRegister(BetsSynthesizedTotal)
		registry.MustRegister(ChosenEdgeThreshold)
		registry.MustRegister(TestWindowROI)
		registry.MustRegister(CalibrationDuration)
	})
	return registry
}

// Handler returns an HTTP handler for the metrics endpoint
func Handler() http.Handler {
	return promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{})
}

// RecordRun records a completed calibration run.
// status should be one of: "success", "failure"
func RecordRun(league, status string) {
	CalibrationRunsTotal.WithLabelValues(league, status).Inc()
}

// RecordExclusion records skipped record/market pairs for one reason
func RecordExclusion(league, reason string, count int) {
	RecordsExcludedTotal.WithLabelValues(league, reason).Add(float64(count))
}
