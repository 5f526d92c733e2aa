// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinerank/internal/profile"
)

// Config contains all recommendation engine parameters.
type Config struct {
	// Limits contains request bounds and upstream timeouts.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains result cache parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`

	// Profile controls user profile aggregation.
	Profile profile.Config `json:"profile" koanf:"profile"`

	// Breaker configures the circuit breakers around external sources.
	Breaker BreakerConfig `json:"breaker" koanf:"breaker"`

	// FallbackPopular substitutes the most popular unseen items for a
	// cold-start user when a FallbackProvider is set.
	// Default: false.
	FallbackPopular bool `json:"fallback_popular" koanf:"fallback_popular"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the number of results returned when the caller gives none.
	// Default: 10.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK is the largest K honored; larger requests are clamped.
	// Default: 50.
	MaxK int `json:"max_k" koanf:"max_k"`

	// ExcludeLimit is how many recent interactions are scanned for items to
	// exclude from user results. It covers far more history than the
	// profile window.
	// Default: 1000.
	ExcludeLimit int `json:"exclude_limit" koanf:"exclude_limit"`

	// UpstreamTimeout bounds each call to an interaction, metadata or
	// fallback source. The caller's own deadline applies when sooner.
	// Default: 2s.
	UpstreamTimeout time.Duration `json:"upstream_timeout" koanf:"upstream_timeout"`

	// DefaultPageSize is the interaction history page size.
	// Default: 20.
	DefaultPageSize int `json:"default_page_size" koanf:"default_page_size"`

	// MaxPageSize bounds the interaction history page size.
	// Default: 100.
	MaxPageSize int `json:"max_page_size" koanf:"max_page_size"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether ranked results are memoized.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// UserTTL is the lifetime of user-to-item results.
	// Default: 1h.
	UserTTL time.Duration `json:"user_ttl" koanf:"user_ttl"`

	// ItemTTL is the lifetime of item-to-item results.
	// Default: 24h.
	ItemTTL time.Duration `json:"item_ttl" koanf:"item_ttl"`

	// MaxEntries bounds the cache; least recently used entries are evicted.
	// Default: 10000.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`

	// ComputeTimeout bounds a detached ranking computation.
	// Default: 10s.
	ComputeTimeout time.Duration `json:"compute_timeout" koanf:"compute_timeout"`

	// CleanupInterval is how often stale entries are swept.
	// Default: 5m.
	CleanupInterval time.Duration `json:"cleanup_interval" koanf:"cleanup_interval"`
}

// BreakerConfig configures upstream circuit breakers.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	// Default: 3.
	MaxRequests uint32 `json:"max_requests" koanf:"max_requests"`

	// Interval resets the failure counts while closed.
	// Default: 1m.
	Interval time.Duration `json:"interval" koanf:"interval"`

	// Timeout is how long the breaker stays open before probing.
	// Default: 30s.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// FailureThreshold is the consecutive failure count that opens the breaker.
	// Default: 5.
	FailureThreshold uint32 `json:"failure_threshold" koanf:"failure_threshold"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultK:        10,
			MaxK:            50,
			ExcludeLimit:    1000,
			UpstreamTimeout: 2 * time.Second,
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Cache: CacheConfig{
			Enabled:         true,
			UserTTL:         time.Hour,
			ItemTTL:         24 * time.Hour,
			MaxEntries:      10000,
			ComputeTimeout:  10 * time.Second,
			CleanupInterval: 5 * time.Minute,
		},
		Profile: profile.DefaultConfig(),
		Breaker: BreakerConfig{
			MaxRequests:      3,
			Interval:         time.Minute,
			Timeout:          30 * time.Second,
			FailureThreshold: 5,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k (%d) must be >= limits.default_k (%d)", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.ExcludeLimit < c.Profile.Window {
		return fmt.Errorf("limits.exclude_limit (%d) must be >= profile.window (%d)", c.Limits.ExcludeLimit, c.Profile.Window)
	}
	if c.Limits.UpstreamTimeout <= 0 {
		return fmt.Errorf("limits.upstream_timeout must be positive, got %v", c.Limits.UpstreamTimeout)
	}
	if c.Limits.DefaultPageSize < 1 || c.Limits.MaxPageSize < c.Limits.DefaultPageSize {
		return fmt.Errorf("limits page sizes invalid: default %d, max %d", c.Limits.DefaultPageSize, c.Limits.MaxPageSize)
	}

	if c.Cache.Enabled {
		if c.Cache.UserTTL <= 0 || c.Cache.ItemTTL <= 0 {
			return fmt.Errorf("cache ttls must be positive, got user=%v item=%v", c.Cache.UserTTL, c.Cache.ItemTTL)
		}
		if c.Cache.MaxEntries < 0 {
			return fmt.Errorf("cache.max_entries must be non-negative, got %d", c.Cache.MaxEntries)
		}
		if c.Cache.ComputeTimeout < 0 {
			return fmt.Errorf("cache.compute_timeout must be non-negative, got %v", c.Cache.ComputeTimeout)
		}
	}

	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("breaker.failure_threshold must be positive")
	}

	if err := c.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	return nil
}

// ClampK applies the default and maximum to a requested result count.
func (l LimitsConfig) ClampK(k int) int {
	if k <= 0 {
		return l.DefaultK
	}
	if k > l.MaxK {
		return l.MaxK
	}
	return k
}

// clampPage normalizes a page number and page size.
func (l LimitsConfig) clampPage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = l.DefaultPageSize
	}
	if limit > l.MaxPageSize {
		limit = l.MaxPageSize
	}
	return page, limit
}
