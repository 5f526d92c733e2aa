// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package config

import (
	"time"

	"github.com/tomtom215/cinerank/internal/interactions"
	"github.com/tomtom215/cinerank/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server       ServerConfig        `koanf:"server"`
	Logging      LoggingConfig       `koanf:"logging"`
	Catalog      CatalogConfig       `koanf:"catalog"`
	Database     DatabaseConfig      `koanf:"database"`
	Interactions interactions.Config `koanf:"interactions"` // BadgerDB interaction log
	Recommend    recommend.Config    `koanf:"recommend"`    // Limits, cache, profile weights, breakers
	NATS         NATSConfig          `koanf:"nats"`         // Optional: cross-instance events over NATS JetStream
	Security     SecurityConfig      `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// CatalogConfig controls where item embeddings come from and how often
// they are reloaded.
//
// Environment Variables:
//   - CATALOG_SOURCE: database or file (default: database)
//   - CATALOG_FILE: JSON embeddings file, required when CATALOG_SOURCE=file
//   - CATALOG_SEED_PATH: JSON catalog imported into DuckDB at startup (optional)
//   - CATALOG_RELOAD_INTERVAL: periodic reload, 0 disables (default: 0)
//   - CATALOG_RELOAD_MIN_INTERVAL: minimum spacing of triggered reloads (default: 30s)
type CatalogConfig struct {
	// Source selects the embedding source: "database" reads the DuckDB
	// item_embeddings table, "file" reads FilePath.
	Source string `koanf:"source"`

	// FilePath is the JSON embeddings file used when Source is "file".
	FilePath string `koanf:"file_path"`

	// SeedPath is a JSON catalog upserted into DuckDB before the first load.
	SeedPath string `koanf:"seed_path"`

	// ReloadInterval is the period of the background reload ticker.
	// Zero disables periodic reloads; triggered reloads still work.
	ReloadInterval time.Duration `koanf:"reload_interval"`

	// ReloadMinInterval is the token bucket refill period for reload
	// triggers. Triggers arriving faster are dropped.
	ReloadMinInterval time.Duration `koanf:"reload_min_interval"`

	// ReloadBurst is the token bucket size for reload triggers.
	ReloadBurst int `koanf:"reload_burst"`

	// LoadTimeout bounds a single catalog load.
	LoadTimeout time.Duration `koanf:"load_timeout"`
}

// DatabaseConfig holds DuckDB catalog database settings.
//
// Environment Variables:
//   - DUCKDB_PATH: database file, ":memory:" for in-memory (default: /data/cinerank.duckdb)
//   - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
//   - DUCKDB_THREADS: worker threads, 0 = NumCPU (default: 0)
//   - DUCKDB_QUERY_TIMEOUT: per-query deadline (default: 30s)
type DatabaseConfig struct {
	Path                   string        `koanf:"path"`
	MaxMemory              string        `koanf:"max_memory"`
	Threads                int           `koanf:"threads"`
	PreserveInsertionOrder bool          `koanf:"preserve_insertion_order"`
	QueryTimeout           time.Duration `koanf:"query_timeout"`
}

// NATSConfig holds event bus configuration. When disabled, events are
// delivered in-process only and cache invalidation does not cross instances.
//
// Environment Variables:
//   - NATS_ENABLED: use NATS JetStream for events (default: false)
//   - NATS_URL: server URL (default: nats://127.0.0.1:4222)
//   - NATS_EMBEDDED: run an embedded server (default: true)
//   - NATS_STORE_DIR: JetStream storage directory (default: /data/nats/jetstream)
type NATSConfig struct {
	// Enabled controls whether events go through NATS JetStream.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer enables embedded NATS server.
	// If false, expects external NATS server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// StreamRetentionDays is how long to keep events.
	StreamRetentionDays int `koanf:"stream_retention_days"`

	// SubscribersCount is the number of concurrent message processors.
	SubscribersCount int `koanf:"subscribers_count"`

	// QueueGroup is left empty so every instance receives every event.
	// Set it only when a single consumer per event is wanted.
	QueueGroup string `koanf:"queue_group"`

	// PublishTimeout bounds a single publish.
	// Default: 5s
	PublishTimeout time.Duration `koanf:"publish_timeout"`

	// RouterRetryCount is the maximum number of retries for failed messages.
	// Default: 3
	RouterRetryCount int `koanf:"router_retry_count"`

	// RouterRetryInitialInterval is the initial backoff interval for retries.
	// Default: 100ms
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`

	// RouterCloseTimeout is the maximum time to wait for graceful router shutdown.
	// Default: 30s
	RouterCloseTimeout time.Duration `koanf:"router_close_timeout"`
}

// SecurityConfig holds HTTP surface protections. Authentication is handled
// in front of this service.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	TrustedProxies    []string      `koanf:"trusted_proxies"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "" || c.Server.Environment == "development"
}
