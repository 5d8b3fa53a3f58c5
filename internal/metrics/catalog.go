package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog source Prometheus metrics.
var (
	SourceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "source_requests_total",
			Help:      "Total number of catalog source calls",
		},
		[]string{"source", "op", "status"},
	)

	SourceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalogd",
			Name:      "source_request_duration_seconds",
			Help:      "Catalog source call duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"source", "op"},
	)

	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "fallbacks_total",
			Help:      "Calls that moved past a failing source to the next one",
		},
		[]string{"source", "op"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalogd",
			Name:      "cache_total",
			Help:      "Response cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers Prometheus catalog metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(SourceRequestsTotal)
	prometheus.MustRegister(SourceRequestDuration)
	prometheus.MustRegister(FallbacksTotal)
	prometheus.MustRegister(CacheTotal)
	catalogMetricsRegistered = true
}

// ObserveSource records one call to a catalog source.
func ObserveSource(source, op, status string, d time.Duration) {
	SourceRequestsTotal.WithLabelValues(source, op, status).Inc()
	SourceRequestDuration.WithLabelValues(source, op).Observe(d.Seconds())
}
