package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog_bridge"

// Metrics holds import and ops API metrics.
type Metrics struct {
	registry *prometheus.Registry

	runsTotal        *prometheus.CounterVec
	recordsTotal     *prometheus.CounterVec
	runDuration      *prometheus.HistogramVec
	lastSuccess      *prometheus.GaugeVec
	requestsTotal    *prometheus.CounterVec
	requestsDuration *prometheus.HistogramVec
}

// New returns Metrics registered in their own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_runs_total",
				Help:      "Total number of finished import runs.",
			},
			[]string{"source", "status"},
		),
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "import_records_total",
				Help:      "Total number of reconciled records by outcome.",
			},
			[]string{"source", "outcome"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "import_run_duration_seconds",
				Help:      "Histogram of import run durations.",
				Buckets:   []float64{1, 5, 15, 60, 300, 900, 1800, 3600},
			},
			[]string{"source"},
		),
		lastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "import_last_success_timestamp_seconds",
				Help:      "Unix time of last successful import run.",
			},
			[]string{"source"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		requestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request durations.",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.runsTotal,
		m.recordsTotal,
		m.runDuration,
		m.lastSuccess,
		m.requestsTotal,
		m.requestsDuration,
	)

	return m
}

// ObserveRun records finished import run.
func (m *Metrics) ObserveRun(sourceID string, stats models.ImportRunStats, success bool, duration time.Duration) {
	status := "failure"
	if success {
		status = "success"
		m.lastSuccess.WithLabelValues(sourceID).SetToCurrentTime()
	}

	m.runsTotal.WithLabelValues(sourceID, status).Inc()
	m.runDuration.WithLabelValues(sourceID).Observe(duration.Seconds())
	m.recordsTotal.WithLabelValues(sourceID, "imported").Add(float64(stats.Imported))
	m.recordsTotal.WithLabelValues(sourceID, "updated").Add(float64(stats.Updated))
	m.recordsTotal.WithLabelValues(sourceID, "skipped").Add(float64(stats.Skipped))
	m.recordsTotal.WithLabelValues(sourceID, "errors").Add(float64(stats.Errors))
}

// RecordRequest records HTTP request of ops API.
func (m *Metrics) RecordRequest(method, route string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	m.requestsTotal.WithLabelValues(method, route, status).Inc()
	m.requestsDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// Handler returns HTTP handler exposing metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns registry of metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func classifyStatus(statusCode int) string {
	if statusCode < 100 || statusCode > 599 {
		return "unknown"
	}
	return strconv.Itoa(statusCode/100) + "xx"
}
