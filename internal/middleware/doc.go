// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: assigns or propagates X-Request-ID and stores it in the
    request context, where logging.Ctx and response envelopes pick it up
  - PrometheusMetrics: request count, duration and in-flight gauge,
    labelled by chi route pattern
  - LatencyMonitor: sliding window of recent requests summarised per route
    for the stats endpoint

All middleware use the func(http.Handler) http.Handler shape, so they plug
straight into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)

The status recorder shared by the metrics middleware implements
http.Hijacker and Unwrap, so websocket upgrades pass through it.
*/
package middleware
