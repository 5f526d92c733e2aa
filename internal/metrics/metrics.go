// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Recommendation requests and ranking latency
// - Result cache efficiency
// - Catalog and interaction stores
// - API endpoint latency and throughput
// - Event bus and WebSocket delivery

var (
	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"kind", "outcome"}, // kind: "item", "user"; outcome: "hit", "computed", "joined", "cold_start", "error"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ranking_compute_duration_seconds",
			Help:    "Duration of a top-k ranking pass over the catalog",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"kind"},
	)

	RankingDegenerateVectors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ranking_degenerate_vectors_total",
			Help: "Total number of candidate vectors dropped for zero norm or dimension mismatch",
		},
	)

	ColdStarts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cold_starts_total",
			Help: "Total number of user queries answered with a cold-start response",
		},
		[]string{"fallback"}, // "none", "popular"
	)

	UpstreamFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_failures_total",
			Help: "Total number of failed or timed out upstream calls",
		},
		[]string{"source"}, // "interactions", "catalog", "metadata", "fallback"
	)

	// Result Cache Metrics
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_requests_total",
			Help: "Total number of result cache lookups by outcome",
		},
		[]string{"outcome"}, // "hit", "computed", "joined"
	)

	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommendation_cache_entries",
			Help: "Current number of cached recommendation results",
		},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_cache_removals_total",
			Help: "Total number of cache entries removed",
		},
		[]string{"reason"}, // "expired", "invalidated", "purged"
	)

	// Catalog Metrics
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Number of items in the current embedding snapshot",
		},
	)

	CatalogVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_version",
			Help: "Version of the current embedding snapshot",
		},
	)

	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Total number of catalog reload attempts",
		},
		[]string{"result"}, // "success", "failure", "throttled"
	)

	CatalogReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_reload_duration_seconds",
			Help:    "Duration of catalog reloads in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Interaction Metrics
	InteractionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interactions_recorded_total",
			Help: "Total number of interactions recorded",
		},
		[]string{"kind"},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published",
		},
		[]string{"topic", "result"},
	)

	EventsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_handled_total",
			Help: "Total number of events handled by the router",
		},
		[]string{"topic", "result"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application information (version, commit)",
		},
		[]string{"version", "commit"},
	)
)

// RecordRecommendation records a finished recommendation request.
func RecordRecommendation(kind, outcome string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(kind, outcome).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRanking records one ranking pass.
func RecordRanking(kind string, duration time.Duration, degenerate int) {
	RankingDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if degenerate > 0 {
		RankingDegenerateVectors.Add(float64(degenerate))
	}
}

// RecordColdStart records a cold-start response.
func RecordColdStart(withFallback bool) {
	if withFallback {
		ColdStarts.WithLabelValues("popular").Inc()
		return
	}
	ColdStarts.WithLabelValues("none").Inc()
}

// RecordUpstreamFailure records a failed call to an external collaborator.
func RecordUpstreamFailure(source string) {
	UpstreamFailures.WithLabelValues(source).Inc()
}

// RecordCacheOutcome records a result cache lookup.
func RecordCacheOutcome(outcome string) {
	CacheRequests.WithLabelValues(outcome).Inc()
}

// RecordCacheRemoval records removed cache entries.
func RecordCacheRemoval(reason string, n int) {
	if n > 0 {
		CacheEvictions.WithLabelValues(reason).Add(float64(n))
	}
}

// UpdateCacheSize sets the current cache entry gauge.
func UpdateCacheSize(n int) {
	CacheSize.Set(float64(n))
}

// RecordCatalogReload records a catalog reload attempt.
func RecordCatalogReload(duration time.Duration, items int, version uint64, err error) {
	CatalogReloadDuration.Observe(duration.Seconds())
	if err != nil {
		CatalogReloads.WithLabelValues("failure").Inc()
		return
	}
	CatalogReloads.WithLabelValues("success").Inc()
	CatalogItems.Set(float64(items))
	CatalogVersion.Set(float64(version))
}

// RecordCatalogReloadThrottled records a reload trigger dropped by the limiter.
func RecordCatalogReloadThrottled() {
	CatalogReloads.WithLabelValues("throttled").Inc()
}

// RecordInteraction records a stored interaction.
func RecordInteraction(kind string) {
	InteractionsRecorded.WithLabelValues(kind).Inc()
}

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordEventPublished records a publish attempt on topic.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, resultLabel(err)).Inc()
}

// RecordEventHandled records a handled event on topic.
func RecordEventHandled(topic string, err error) {
	EventsHandled.WithLabelValues(topic, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
