// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// RequestSample is one observed request.
type RequestSample struct {
	Route      string
	Method     string
	DurationMS int64
	StatusCode int
	Timestamp  time.Time
}

// RouteLatency summarises the samples of one route.
type RouteLatency struct {
	Route        string  `json:"route"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        int64   `json:"p50_ms"`
	P95MS        int64   `json:"p95_ms"`
	P99MS        int64   `json:"p99_ms"`
	MaxMS        int64   `json:"max_ms"`
}

// LatencyMonitor keeps a sliding window of recent requests for the stats
// endpoint. Prometheus holds the long-term series; this answers "how is the
// service doing right now" without a metrics backend.
type LatencyMonitor struct {
	mu      sync.RWMutex
	samples []RequestSample
	next    int
	full    bool
	slow    time.Duration
	logger  zerolog.Logger
}

// NewLatencyMonitor creates a monitor keeping the last window samples.
// Requests slower than slow are logged at warn; zero disables the log.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewLatencyMonitor(window int, slow time.Duration, logger zerolog.Logger) *LatencyMonitor {
	if window <= 0 {
		window = 1000
	}
	return &LatencyMonitor{
		samples: make([]RequestSample, window),
		slow:    slow,
		logger:  logger.With().Str("component", "latency-monitor").Logger(),
	}
}

// Record adds a sample, overwriting the oldest once the window is full.
func (m *LatencyMonitor) Record(s RequestSample) {
	m.mu.Lock()
	m.samples[m.next] = s
	m.next = (m.next + 1) % len(m.samples)
	if m.next == 0 {
		m.full = true
	}
	m.mu.Unlock()
}

// window returns the live samples (must be called with mu held).
func (m *LatencyMonitor) window() []RequestSample {
	if m.full {
		return m.samples
	}
	return m.samples[:m.next]
}

// Len returns the number of samples currently held.
func (m *LatencyMonitor) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.window())
}

// Summary aggregates the window per method and route, busiest first. Ties
// are ordered by route name.
func (m *LatencyMonitor) Summary() []RouteLatency {
	m.mu.RLock()
	durations := make(map[string][]int64)
	errorCounts := make(map[string]int64)
	for _, s := range m.window() {
		key := s.Method + " " + s.Route
		durations[key] = append(durations[key], s.DurationMS)
		if s.StatusCode >= http.StatusInternalServerError {
			errorCounts[key]++
		}
	}
	m.mu.RUnlock()

	out := make([]RouteLatency, 0, len(durations))
	for route, ds := range durations {
		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })

		var sum int64
		for _, d := range ds {
			sum += d
		}
		out = append(out, RouteLatency{
			Route:        route,
			RequestCount: int64(len(ds)),
			ErrorCount:   errorCounts[route],
			AvgMS:        float64(sum) / float64(len(ds)),
			P50MS:        percentile(ds, 0.50),
			P95MS:        percentile(ds, 0.95),
			P99MS:        percentile(ds, 0.99),
			MaxMS:        ds[len(ds)-1],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestCount != out[j].RequestCount {
			return out[i].RequestCount > out[j].RequestCount
		}
		return out[i].Route < out[j].Route
	})
	return out
}

// Middleware records every request passing through it.
func (m *LatencyMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := newStatusRecorder(w)

		next.ServeHTTP(wrapper, r)

		elapsed := time.Since(start)
		route := RoutePattern(r)
		m.Record(RequestSample{
			Route:      route,
			Method:     r.Method,
			DurationMS: elapsed.Milliseconds(),
			StatusCode: wrapper.statusCode,
			Timestamp:  start,
		})

		if m.slow > 0 && elapsed > m.slow {
			m.logger.Warn().
				Str("method", r.Method).
				Str("route", route).
				Int64("duration_ms", elapsed.Milliseconds()).
				Msg("slow request")
		}
	})
}

// percentile returns the nearest-rank value from an ascending slice.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
