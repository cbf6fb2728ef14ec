package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the shop collector.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	LookupsTotal    *prometheus.CounterVec
	CacheHitsTotal  prometheus.Counter
	RowsTotal       prometheus.Counter
	ErrorsTotal     *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_requests_total",
			Help: "Total HTTP requests issued by the collector.",
		},
		[]string{"source"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "collector_request_duration_seconds",
			Help:    "HTTP request latency for collector requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	lookups := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_archive_lookups_total",
			Help: "Total archive lookups by outcome.",
		},
		[]string{"outcome"},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collector_archive_cache_hits_total",
			Help: "Total archive lookups answered from the cache.",
		},
	)
	rows := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "collector_rows_written_total",
			Help: "Total shop rows handed to the output writer.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "collector_errors_total",
			Help: "Total collector errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, lookups, cacheHits, rows, errorsTotal)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		LookupsTotal:    lookups,
		CacheHitsTotal:  cacheHits,
		RowsTotal:       rows,
		ErrorsTotal:     errorsTotal,
	}
}

// IncRequest increments the requests total counter for a source.
func (m *Metrics) IncRequest(source string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(source).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncLookup increments the archive lookup counter for an outcome label.
func (m *Metrics) IncLookup(outcome string) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
}

// IncCacheHit increments the cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncRows increments the written rows counter.
func (m *Metrics) IncRows() {
	if m == nil {
		return
	}
	m.RowsTotal.Inc()
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
