// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Recommendation Metrics:
  - recommendation_requests_total: Requests by kind and outcome (counter)
    Labels: kind (item, user), outcome (hit, computed, joined, cold_start, error)
  - recommendation_duration_seconds: End-to-end latency (histogram)
  - ranking_compute_duration_seconds: Top-k pass duration (histogram)
  - ranking_degenerate_vectors_total: Candidates dropped as degenerate (counter)
  - recommendation_cold_starts_total: Cold-start responses (counter)
    Labels: fallback (none, popular)
  - upstream_failures_total: Failed external calls (counter)
    Labels: source (interactions, catalog, metadata, fallback)

Cache Metrics:
  - recommendation_cache_requests_total: Lookups by outcome (counter)
  - recommendation_cache_entries: Stored entries (gauge)
  - recommendation_cache_removals_total: Removed entries by reason (counter)

Catalog Metrics:
  - catalog_items, catalog_version: Current snapshot (gauges)
  - catalog_reloads_total: Reload attempts by result (counter)
  - catalog_reload_duration_seconds: Reload duration (histogram)

HTTP, database, circuit breaker, event bus and WebSocket metrics follow the
same naming scheme; see the variable declarations in metrics.go.

# Usage Example

	start := time.Now()
	resp, err := engine.RecommendSimilar(ctx, itemID, k)
	metrics.RecordRecommendation("item", outcome, time.Since(start))

# Testing

Tests read collector values with prometheus/testutil and compare deltas,
since collectors are shared across the package's tests.
*/
package metrics
