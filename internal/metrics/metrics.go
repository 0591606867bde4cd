// Package metrics provides the Prometheus collectors for the linked-role
// server and the platform client.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors, registered on a private registry so several
// servers can coexist in one process (and in tests).
type Metrics struct {
	registry *prometheus.Registry

	// Platform client metrics
	PlatformRequestsTotal   *prometheus.CounterVec
	PlatformRequestDuration *prometheus.HistogramVec

	// Linked-role server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	OAuthCallbacksTotal *prometheus.CounterVec
	MetadataPushesTotal *prometheus.CounterVec
	TokenRefreshesTotal *prometheus.CounterVec
}

// New creates and registers all collectors plus the Go and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{registry: reg}

	m.PlatformRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleconn_platform_requests_total",
			Help: "Total number of platform API requests",
		},
		[]string{"endpoint", "status"},
	)

	m.PlatformRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roleconn_platform_request_duration_seconds",
			Help:    "Duration of platform API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleconn_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roleconn_http_request_duration_seconds",
			Help:    "Duration of served HTTP requests in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"route"},
	)

	m.OAuthCallbacksTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleconn_oauth_callbacks_total",
			Help: "OAuth callbacks by result",
		},
		[]string{"result"},
	)

	m.MetadataPushesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleconn_metadata_pushes_total",
			Help: "Role connection metadata pushes by result",
		},
		[]string{"result"},
	)

	m.TokenRefreshesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roleconn_token_refreshes_total",
			Help: "Access token refreshes by result",
		},
		[]string{"result"},
	)

	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records a platform request. It satisfies client.Observer.
func (m *Metrics) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	m.PlatformRequestsTotal.WithLabelValues(endpoint, statusLabel(status)).Inc()
	m.PlatformRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordHTTPRequest records a served request.
func (m *Metrics) RecordHTTPRequest(route string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, statusLabel(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// RecordCallback records an OAuth callback outcome.
func (m *Metrics) RecordCallback(result string) {
	m.OAuthCallbacksTotal.WithLabelValues(result).Inc()
}

// RecordPush records a metadata push outcome.
func (m *Metrics) RecordPush(result string) {
	m.MetadataPushesTotal.WithLabelValues(result).Inc()
}

// RecordRefresh records a token refresh outcome.
func (m *Metrics) RecordRefresh(result string) {
	m.TokenRefreshesTotal.WithLabelValues(result).Inc()
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}
	return strconv.Itoa(status)
}
