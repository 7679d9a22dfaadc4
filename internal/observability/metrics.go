package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artlink_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and collection.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artlink_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "collection"})

	// DocumentsCreated counts inserted documents per collection.
	DocumentsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artlink_documents_created_total",
		Help: "Total number of documents created",
	}, []string{"collection"})

	// ListCacheResults counts list cache lookups by result (hit, miss).
	ListCacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artlink_list_cache_results_total",
		Help: "List cache lookups by result",
	}, []string{"collection", "result"})
)

// DatabaseMetrics records query latency for one collection.
type DatabaseMetrics struct {
	collection string
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(collection string) *DatabaseMetrics {
	return &DatabaseMetrics{collection: collection}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, m.collection).Observe(time.Since(start).Seconds())
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, start)
	}
}
