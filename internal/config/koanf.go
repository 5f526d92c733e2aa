// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/cinerank/internal/interactions"
	"github.com/tomtom215/cinerank/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinerank/config.yaml",
	"/etc/cinerank/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			Source:            CatalogSourceDatabase,
			ReloadInterval:    0,
			ReloadMinInterval: 30 * time.Second,
			ReloadBurst:       1,
			LoadTimeout:       2 * time.Minute,
		},
		Database: DatabaseConfig{
			Path:                   "/data/cinerank.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // runtime.NumCPU()
			PreserveInsertionOrder: true,
			QueryTimeout:           30 * time.Second,
		},
		Interactions: interactions.DefaultConfig(),
		Recommend:    *recommend.DefaultConfig(),
		NATS: NATSConfig{
			Enabled:                    false,
			URL:                        "nats://127.0.0.1:4222",
			EmbeddedServer:             true,
			StoreDir:                   "/data/nats/jetstream",
			MaxMemory:                  256 * 1024 * 1024,
			MaxStore:                   1 << 30,
			StreamRetentionDays:        1,
			SubscribersCount:           2,
			PublishTimeout:             5 * time.Second,
			RouterRetryCount:           3,
			RouterRetryInitialInterval: 100 * time.Millisecond,
			RouterCloseTimeout:         30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
			TrustedProxies:    []string{},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DUCKDB_PATH -> database.path
	// RECOMMEND_USER_TTL -> recommend.cache.user_ttl
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Catalog
	"catalog_source":              "catalog.source",
	"catalog_file":                "catalog.file_path",
	"catalog_seed_path":           "catalog.seed_path",
	"catalog_reload_interval":     "catalog.reload_interval",
	"catalog_reload_min_interval": "catalog.reload_min_interval",
	"catalog_reload_burst":        "catalog.reload_burst",
	"catalog_load_timeout":        "catalog.load_timeout",

	// Database
	"duckdb_path":                     "database.path",
	"duckdb_max_memory":               "database.max_memory",
	"duckdb_threads":                  "database.threads",
	"duckdb_preserve_insertion_order": "database.preserve_insertion_order",
	"duckdb_query_timeout":            "database.query_timeout",

	// Interaction log (BadgerDB)
	"interactions_path":          "interactions.path",
	"interactions_in_memory":     "interactions.in_memory",
	"interactions_sync_writes":   "interactions.sync_writes",
	"interactions_compression":   "interactions.compression",
	"interactions_gc_interval":   "interactions.gc_interval",
	"interactions_gc_ratio":      "interactions.gc_ratio",
	"interactions_close_timeout": "interactions.close_timeout",

	// Recommendation engine
	"recommend_default_k":           "recommend.limits.default_k",
	"recommend_max_k":               "recommend.limits.max_k",
	"recommend_exclude_limit":       "recommend.limits.exclude_limit",
	"recommend_upstream_timeout":    "recommend.limits.upstream_timeout",
	"recommend_cache_enabled":       "recommend.cache.enabled",
	"recommend_user_ttl":            "recommend.cache.user_ttl",
	"recommend_item_ttl":            "recommend.cache.item_ttl",
	"recommend_cache_max_entries":   "recommend.cache.max_entries",
	"recommend_compute_timeout":     "recommend.cache.compute_timeout",
	"recommend_cache_cleanup":       "recommend.cache.cleanup_interval",
	"recommend_profile_window":      "recommend.profile.window",
	"recommend_profile_max_age":     "recommend.profile.max_age",
	"recommend_weight_view":         "recommend.profile.weights.view",
	"recommend_weight_like":         "recommend.profile.weights.like",
	"recommend_weight_rate":         "recommend.profile.weights.rate",
	"recommend_min_positive_rating": "recommend.profile.weights.min_positive_rating",
	"recommend_fallback_popular":    "recommend.fallback_popular",
	"recommend_breaker_threshold":   "recommend.breaker.failure_threshold",
	"recommend_breaker_timeout":     "recommend.breaker.timeout",

	// NATS
	"nats_enabled":        "nats.enabled",
	"nats_url":            "nats.url",
	"nats_embedded":       "nats.embedded_server",
	"nats_store_dir":      "nats.store_dir",
	"nats_max_memory":     "nats.max_memory",
	"nats_max_store":      "nats.max_store",
	"nats_retention_days": "nats.stream_retention_days",
	"nats_subscribers":    "nats.subscribers_count",
	"nats_queue_group":    "nats.queue_group",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
	"trusted_proxies":     "security.trusted_proxies",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - RECOMMEND_WEIGHT_LIKE -> recommend.profile.weights.like
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// never leak into the configuration.
	return ""
}
