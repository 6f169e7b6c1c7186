package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Parse outcomes recorded by Metrics.ObserveParse.
const (
	OutcomeSuccess    = "success"
	OutcomeLoadError  = "load_error"
	OutcomeParseError = "parse_error"
)

// Metrics holds the collectors exported on /metrics. Each instance owns its
// registry so tests and multiple servers never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	parses       *prometheus.CounterVec
	parseTiming  prometheus.Histogram
	links        prometheus.Counter
	httpRequests *prometheus.CounterVec
}

// NewMetrics creates and registers the navigator collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navigator_manifest_parses_total",
			Help: "manifest parse attempts by outcome",
		}, []string{"outcome"}),
		parseTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "navigator_manifest_parse_seconds",
			Help:    "time spent loading and parsing a manifest",
			Buckets: prometheus.DefBuckets,
		}),
		links: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "navigator_navigation_links_total",
			Help: "navigation links generated across all parses",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "navigator_http_requests_total",
			Help: "http requests by method and status code",
		}, []string{"method", "status_code"}),
	}
	m.registry.MustRegister(m.parses, m.parseTiming, m.links, m.httpRequests)
	return m
}

// ObserveParse records one parse attempt.
func (m *Metrics) ObserveParse(start time.Time, outcome string, linkCount int) {
	m.parses.WithLabelValues(outcome).Inc()
	m.parseTiming.Observe(time.Since(start).Seconds())
	if linkCount > 0 {
		m.links.Add(float64(linkCount))
	}
}

// ObserveRequest records the status code of a served request.
func (m *Metrics) ObserveRequest(method string, statusCode int) {
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
