package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics are the forecast counters exposed on /metrics, on a registry
// owned by one Handler.
type Metrics struct {
	registry *prometheus.Registry

	runs     *prometheus.CounterVec
	lines    prometheus.Histogram
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecast_runs_total",
			Help: "Forecast runs by input source and outcome.",
		}, []string{"source", "outcome"}),
		lines: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forecast_ledger_lines",
			Help:    "Ledger lines produced per successful run.",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forecast_run_duration_seconds",
			Help:    "Wall time of a forecast run, input parsing included.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
	}
	m.registry.MustRegister(m.runs, m.lines, m.duration)
	return m
}

// Observe records one run.
func (m *Metrics) Observe(source, outcome string, lines int, took time.Duration) {
	m.runs.WithLabelValues(source, outcome).Inc()
	m.duration.WithLabelValues(source).Observe(took.Seconds())
	if outcome == outcomeOK {
		m.lines.Observe(float64(lines))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
