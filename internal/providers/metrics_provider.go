package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"ndexplorer/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveUpstreamCall(endpoint string, code string, duration time.Duration)
	IncValidationFailures(field string)
}

type MetricsProvider struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	upstreamTotal      *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	validationFailures *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

// ObserveUpstreamCall records one NextDNS call. code is "ok" or an error key.
func (m *MetricsProvider) ObserveUpstreamCall(endpoint string, code string, duration time.Duration) {
	m.upstreamTotal.WithLabelValues(endpoint, code).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncValidationFailures(field string) {
	m.validationFailures.WithLabelValues(field).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ndx_requests_total",
			Help: "Total number of proxy HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ndx_request_duration_seconds",
			Help:    "Proxy HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndx_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ndx_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		upstreamTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ndx_upstream_requests_total",
			Help: "Total number of NextDNS API calls by result",
		}, []string{"endpoint", "result"}),

		upstreamDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ndx_upstream_request_duration_seconds",
			Help:    "NextDNS API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		validationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ndx_validation_failures_total",
			Help: "Rejected proxy requests by offending parameter",
		}, []string{"field"}),
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                        {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)        {}
func (n *noopMetrics) IncCacheHits()                                           {}
func (n *noopMetrics) IncCacheMisses()                                         {}
func (n *noopMetrics) ObserveUpstreamCall(_ string, _ string, _ time.Duration) {}
func (n *noopMetrics) IncValidationFailures(_ string)                          {}
