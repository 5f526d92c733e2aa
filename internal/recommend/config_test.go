// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero default k", func(c *Config) { c.Limits.DefaultK = 0 }, true},
		{"max below default", func(c *Config) { c.Limits.MaxK = 5 }, true},
		{"exclude limit below window", func(c *Config) { c.Limits.ExcludeLimit = 10 }, true},
		{"zero upstream timeout", func(c *Config) { c.Limits.UpstreamTimeout = 0 }, true},
		{"max page below default", func(c *Config) { c.Limits.MaxPageSize = 10 }, true},
		{"zero user ttl", func(c *Config) { c.Cache.UserTTL = 0 }, true},
		{"zero ttl with cache off", func(c *Config) { c.Cache.Enabled = false; c.Cache.UserTTL = 0 }, false},
		{"negative max entries", func(c *Config) { c.Cache.MaxEntries = -1 }, true},
		{"unbounded cache", func(c *Config) { c.Cache.MaxEntries = 0 }, false},
		{"zero breaker threshold", func(c *Config) { c.Breaker.FailureThreshold = 0 }, true},
		{"zero window", func(c *Config) { c.Profile.Window = 0 }, true},
		{"negative weight", func(c *Config) { c.Profile.Weights.Like = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLimitsConfig_ClampK(t *testing.T) {
	l := DefaultConfig().Limits

	tests := []struct {
		k, want int
	}{
		{-1, 10},
		{0, 10},
		{1, 1},
		{50, 50},
		{51, 50},
	}
	for _, tt := range tests {
		if got := l.ClampK(tt.k); got != tt.want {
			t.Errorf("ClampK(%d) = %d, want %d", tt.k, got, tt.want)
		}
	}
}

func TestLimitsConfig_ClampPage(t *testing.T) {
	l := DefaultConfig().Limits

	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 20},
		{3, 50, 3, 50},
		{-2, 1000, 1, 100},
	}
	for _, tt := range tests {
		page, limit := l.clampPage(tt.page, tt.limit)
		if page != tt.wantPage || limit != tt.wantLimit {
			t.Errorf("clampPage(%d, %d) = %d, %d, want %d, %d", tt.page, tt.limit, page, limit, tt.wantPage, tt.wantLimit)
		}
	}
}
