package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taxengine/internal/core"
)

// Metrics owns a private Prometheus registry so several servers (and tests)
// can coexist in one process. It doubles as the engine's compute observer.
type Metrics struct {
	reg *prometheus.Registry

	computeTotal    *prometheus.CounterVec
	computeDuration *prometheus.HistogramVec
	findingsTotal   *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	saveConflicts   prometheus.Counter
	subscribers     prometheus.Gauge
}

// NewMetrics registers every collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		computeTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "taxengine_compute_total",
			Help: "Return computations by tax year and outcome",
		}, []string{"tax_year", "outcome"}),
		computeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taxengine_compute_duration_seconds",
			Help:    "Wall time of one return computation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"tax_year"}),
		findingsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "taxengine_findings_total",
			Help: "Findings attached to computed returns by code and severity",
		}, []string{"code", "severity"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "taxengine_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		saveConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "taxengine_sync_conflicts_total",
			Help: "Sync requests rejected for a stale version",
		}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "taxengine_event_subscribers",
			Help: "Open event-stream connections",
		}),
	}
}

// ObserveCompute records one engine call.
func (m *Metrics) ObserveCompute(taxYear int, elapsed time.Duration, findings []core.Finding, err error) {
	year := strconv.Itoa(taxYear)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.computeTotal.WithLabelValues(year, outcome).Inc()
	m.computeDuration.WithLabelValues(year).Observe(elapsed.Seconds())
	for _, f := range findings {
		m.findingsTotal.WithLabelValues(f.Code, string(f.Severity)).Inc()
	}
}

func (m *Metrics) observeRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}
