// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"time"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/models"
	"github.com/tomtom215/cinerank/internal/similarity"
)

// QueryType names the kind of recommendation in a response.
type QueryType string

const (
	// QueryItemSimilar is an item-to-item query.
	QueryItemSimilar QueryType = "item_similar"
	// QueryUserContent is a personalized user-to-item query.
	QueryUserContent QueryType = "user_content"
)

// cacheKind maps a query type to its cache key scope.
func (q QueryType) cacheKind() cache.QueryKind {
	if q == QueryUserContent {
		return cache.KindUser
	}
	return cache.KindItem
}

// metricLabel is the short kind label used in metrics.
func (q QueryType) metricLabel() string {
	return string(q.cacheKind())
}

// ScoredItem is one ranked result, optionally decorated with metadata.
type ScoredItem struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`

	// Title, Genres and Year come from the metadata source and never
	// influence the order.
	Title  string   `json:"title,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Year   int      `json:"year,omitempty"`
}

// Response is the result of a recommendation query.
type Response struct {
	RequestID string    `json:"request_id"`
	Type      QueryType `json:"type"`

	// SourceItemID is set for item-to-item queries.
	SourceItemID string `json:"source_item_id,omitempty"`

	// UserID is set for user-to-item queries.
	UserID string `json:"user_id,omitempty"`

	K     int          `json:"k"`
	Items []ScoredItem `json:"items"`

	// ColdStart is set when the user has no usable profile. Items is empty
	// unless Fallback is also set.
	ColdStart bool `json:"cold_start"`

	// Fallback is set when Items came from the popularity fallback.
	Fallback bool `json:"fallback"`

	CatalogVersion uint64    `json:"catalog_version"`
	CacheHit       bool      `json:"cache_hit"`
	GeneratedAt    time.Time `json:"generated_at"`
	LatencyMS      int64     `json:"latency_ms"`
}

// ranking is the cached value: the ordered (item, score) pairs of one query.
// It is shared between callers and must not be modified.
type ranking struct {
	items          []similarity.Scored
	coldStart      bool
	catalogVersion uint64
	generatedAt    time.Time
}

// RecordRequest describes an interaction to record.
type RecordRequest struct {
	UserID string
	ItemID string
	Kind   models.InteractionKind

	// Rating is required for KindRate and ignored otherwise.
	Rating *float64

	// Timestamp defaults to the current time when zero.
	Timestamp time.Time
}

// Stats is a snapshot of engine counters for the stats endpoint.
type Stats struct {
	ItemRequests   int64       `json:"item_requests"`
	UserRequests   int64       `json:"user_requests"`
	ColdStarts     int64       `json:"cold_starts"`
	Errors         int64       `json:"errors"`
	Interactions   int64       `json:"interactions_recorded"`
	CatalogItems   int         `json:"catalog_items"`
	CatalogVersion uint64      `json:"catalog_version"`
	Dimension      int         `json:"dimension"`
	CatalogLoaded  time.Time   `json:"catalog_loaded_at"`
	Cache          cache.Stats `json:"cache"`
	CacheEnabled   bool        `json:"cache_enabled"`

	// Breakers maps each upstream source to its circuit breaker state.
	Breakers map[string]string `json:"breakers"`
}
