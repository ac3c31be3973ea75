package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Prometheus metrics for the standings tracker

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbt_api_calls_total",
			Help: "Total number of MLB Stats API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fbt_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbt_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fbt_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fbt_cache_hits_total",
			Help: "Total number of schedule cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fbt_cache_misses_total",
			Help: "Total number of schedule cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fbt_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Aggregation metrics
	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbt_aggregations_total",
			Help: "Total number of standings aggregations by mode",
		},
		[]string{"mode", "status"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbt_replay_fallbacks_total",
			Help: "Total number of cumulative aggregations that fell back to event replay",
		},
		[]string{"reason"},
	)

	UnmappedTeamsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fbt_unmapped_team_references_total",
			Help: "Total number of external team references with no resolver entry",
		},
	)

	GamesCounted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fbt_games_counted_total",
			Help: "Total number of distinct final games credited during event replay",
		},
	)

	// Operation metrics
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbt_operations_total",
			Help: "Total number of standings operations",
		},
		[]string{"type", "status"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fbt_operation_duration_seconds",
			Help:    "Duration of standings operations in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"type"},
	)

	SnapshotsWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbt_snapshots_written_total",
			Help: "Total number of snapshot files written",
		},
		[]string{"kind"},
	)

	BackfillDatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fbt_backfill_dates_skipped_total",
			Help: "Total number of backfill dates skipped after a failure",
		},
	)

	ValidationMismatches = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fbt_validation_mismatches",
			Help: "Number of per-player mismatches in the last validation run",
		},
	)

	ValidationWarnings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fbt_validation_warnings",
			Help: "Number of bounds warnings in the last validation run",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fbt_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fbt_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulUpdate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fbt_last_successful_update_timestamp",
			Help: "Timestamp of last successful standings update",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordAggregation records one aggregation and its mode
func RecordAggregation(mode, status string) {
	AggregationsTotal.WithLabelValues(mode, status).Inc()
}

// RecordFallback records a cumulative-to-replay fallback
func RecordFallback(reason string) {
	FallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordUnmapped records dropped external team references
func RecordUnmapped(n int) {
	UnmappedTeamsTotal.Add(float64(n))
}

// RecordGamesCounted records games credited during a replay
func RecordGamesCounted(n int) {
	GamesCounted.Add(float64(n))
}

// RecordOperation records an update, snapshot, weekly, backfill or validate run
func RecordOperation(opType, status string, duration float64) {
	OperationsTotal.WithLabelValues(opType, status).Inc()
	OperationDuration.WithLabelValues(opType).Observe(duration)

	if opType == "update" && status == "success" {
		LastSuccessfulUpdate.SetToCurrentTime()
	}
}

// RecordSnapshotWritten records a snapshot file write
func RecordSnapshotWritten(kind string) {
	SnapshotsWritten.WithLabelValues(kind).Inc()
}

// RecordBackfillSkip records a skipped backfill date
func RecordBackfillSkip() {
	BackfillDatesSkipped.Inc()
}

// UpdateValidationStats sets the gauges from the last validation run
func UpdateValidationStats(mismatches, warnings int) {
	ValidationMismatches.Set(float64(mismatches))
	ValidationWarnings.Set(float64(warnings))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// Push sends the default registry to a Prometheus Pushgateway.
// One-shot CLI runs exit before a scrape could happen, so they push instead.
func Push(url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(prometheus.DefaultGatherer).Push(); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
