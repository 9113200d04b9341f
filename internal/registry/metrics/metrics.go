// Package metrics provides Prometheus metrics for the credit registry module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all credit registry metrics.
type Metrics struct {
	// Cache operation metrics
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter

	// Latency of cache lookups
	CacheLookupDurationSeconds prometheus.Histogram

	// Registry client calls by source (mock, http) and status (ok, error)
	LookupsTotal *prometheus.CounterVec

	// Latency of registry client calls by source
	LookupDurationSeconds *prometheus.HistogramVec

	// Cache purge operations
	CacheInvalidationsTotal prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decisio_registry_cache_hits_total",
			Help: "Total number of segment profile cache hits",
		}),

		CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decisio_registry_cache_misses_total",
			Help: "Total number of segment profile cache misses",
		}),

		CacheLookupDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "decisio_registry_cache_lookup_duration_seconds",
			Help:    "Duration of segment profile cache lookups",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05}, // Focus on sub-5ms for cache hits
		}),

		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "decisio_registry_lookups_total",
			Help: "Total number of credit registry lookups by source and status",
		}, []string{"source", "status"}),

		LookupDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "decisio_registry_lookup_duration_seconds",
			Help:    "Duration of credit registry lookups by source",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"source"}),

		CacheInvalidationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "decisio_registry_cache_invalidations_total",
			Help: "Total number of segment profile cache purge operations",
		}),
	}
}

// RecordCacheHit records a segment profile cache hit.
func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

// RecordCacheMiss records a segment profile cache miss.
func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

// ObserveCacheLookupDuration records the duration of a cache lookup.
func (m *Metrics) ObserveCacheLookupDuration(durationSeconds float64) {
	m.CacheLookupDurationSeconds.Observe(durationSeconds)
}

// RecordLookup records a registry client call with its outcome.
func (m *Metrics) RecordLookup(source, status string) {
	m.LookupsTotal.WithLabelValues(source, status).Inc()
}

// ObserveLookupDuration records the duration of a registry client call.
func (m *Metrics) ObserveLookupDuration(source string, durationSeconds float64) {
	m.LookupDurationSeconds.WithLabelValues(source).Observe(durationSeconds)
}

// IncrementInvalidations records a cache purge event.
func (m *Metrics) IncrementInvalidations() {
	m.CacheInvalidationsTotal.Inc()
}

// CacheHitRate calculates the cache hit rate from raw counts.
// This is a helper for testing; in production, use Prometheus queries.
func CacheHitRate(hits, misses float64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return hits / total
}
