// Package metrics exposes Prometheus collectors for the checker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// File outcomes.
const (
	OutcomeEvaluated = "evaluated"
	OutcomeFileError = "file_error"
	OutcomeAPIError  = "api_error"
)

type Metrics struct {
	reg *prometheus.Registry

	requests    *prometheus.CounterVec
	fileResults *prometheus.CounterVec
	upstream    *prometheus.HistogramVec
}

// New registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "report_checker",
			Name:      "requests_total",
			Help:      "Check requests by response status code.",
		}, []string{"status"}),
		fileResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "report_checker",
			Name:      "file_results_total",
			Help:      "Per-file results by outcome.",
		}, []string{"outcome"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "report_checker",
			Name:      "upstream_duration_seconds",
			Help:      "Latency of model completion calls.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"engine", "outcome"}),
	}
	m.reg.MustRegister(m.requests, m.fileResults, m.upstream)
	return m
}

// Request counts one handled request.
func (m *Metrics) Request(status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// FileResult counts one per-file outcome.
func (m *Metrics) FileResult(outcome string) {
	if m == nil {
		return
	}
	m.fileResults.WithLabelValues(outcome).Inc()
}

// Upstream records one completion call.
func (m *Metrics) Upstream(engine, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(engine, outcome).Observe(d.Seconds())
}

// Registry exposes the private registry (tests, custom exporters).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
