// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pureland"

var (
	// HTTPRequests counts handled requests by method, chi route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by method and chi route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// OrderShifts counts rows moved by collision resolution (up) and
	// delete compaction (down).
	OrderShifts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_shifts_total",
		Help:      "Rows whose display order was shifted, by collection and direction.",
	}, []string{"collection", "direction"})

	// CacheLookups counts listing cache lookups by result: hit, miss or error.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "listing_cache_lookups_total",
		Help:      "Public listing cache lookups, by result.",
	}, []string{"result"})
)

// RecordShift adds n to the shift counter unless n is zero.
func RecordShift(collection, direction string, n int64) {
	if n > 0 {
		OrderShifts.WithLabelValues(collection, direction).Add(float64(n))
	}
}
