// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider call outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
)

// Metrics holds all Prometheus metrics for the API. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec   // labels: route, code
	HTTPDuration     *prometheus.HistogramVec // labels: route
	ProviderRequests *prometheus.CounterVec   // labels: op, outcome
	ProviderDuration *prometheus.HistogramVec // labels: op

	// Market session state
	MarketOpen         *prometheus.GaugeVec   // labels: exchange; 0=closed, 1=open
	SessionTransitions *prometheus.CounterVec // labels: exchange, status
}

// New creates the metrics on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketlens_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_provider_requests_total",
			Help: "Quote provider calls, by operation and outcome",
		}, []string{"op", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketlens_provider_request_duration_seconds",
			Help:    "Quote provider call latency by operation",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"op"}),

		MarketOpen: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "marketlens_market_open",
			Help: "Exchange session state (1=open, 0=closed or weekend)",
		}, []string{"exchange"}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketlens_session_transitions_total",
			Help: "Exchange session status changes observed by the monitor",
		}, []string{"exchange", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPDuration,
		m.ProviderRequests,
		m.ProviderDuration,
		m.MarketOpen,
		m.SessionTransitions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObserveProvider records one quote provider call.
func (m *Metrics) ObserveProvider(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(op, outcome).Inc()
	m.ProviderDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetMarketOpen publishes the current session state of an exchange.
func (m *Metrics) SetMarketOpen(exchange string, open bool) {
	if m == nil {
		return
	}
	v := 0.0
	if open {
		v = 1
	}
	m.MarketOpen.WithLabelValues(exchange).Set(v)
}

// IncSessionTransition counts a status change of an exchange.
func (m *Metrics) IncSessionTransition(exchange, status string) {
	if m == nil {
		return
	}
	m.SessionTransitions.WithLabelValues(exchange, status).Inc()
}
