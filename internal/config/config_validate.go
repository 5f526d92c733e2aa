// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// Catalog sources
const (
	CatalogSourceDatabase = "database"
	CatalogSourceFile     = "file"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateCatalog,
		c.validateDatabase,
		c.validateInteractions,
		c.validateRecommend,
		c.validateNATS,
		c.validateSecurity,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"":            true,
	"development": true,
	"staging":     true,
	"production":  true,
}

// validateCatalog validates the catalog source and reload settings
func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case CatalogSourceDatabase:
	case CatalogSourceFile:
		if strings.TrimSpace(c.Catalog.FilePath) == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of: database, file")
	}

	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must not be negative")
	}
	if c.Catalog.ReloadInterval > 0 && c.Catalog.ReloadInterval < time.Second {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must be at least 1s")
	}
	if c.Catalog.ReloadMinInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_MIN_INTERVAL must not be negative")
	}
	if c.Catalog.ReloadBurst < 1 {
		return fmt.Errorf("CATALOG_RELOAD_BURST must be at least 1")
	}
	if c.Catalog.LoadTimeout <= 0 {
		return fmt.Errorf("CATALOG_LOAD_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates DuckDB settings
func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("DUCKDB_PATH is required (use :memory: for an in-memory catalog)")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	if c.Database.QueryTimeout < 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must not be negative")
	}
	return nil
}

// validateInteractions validates the BadgerDB interaction log settings
func (c *Config) validateInteractions() error {
	if err := c.Interactions.Validate(); err != nil {
		return err
	}
	return nil
}

// validateRecommend validates engine limits, cache and profile weights
func (c *Config) validateRecommend() error {
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend config: %w", err)
	}
	return nil
}

// NATS limit constants
const (
	natsMinMemory      = 64 * 1024 * 1024  // 64MB
	natsMinStore       = 100 * 1024 * 1024 // 100MB
	natsMaxRetention   = 365
	natsMinRetention   = 1
	natsMaxSubscribers = 32
)

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if !c.NATS.EmbeddedServer {
		if err := validateNATSURL(c.NATS.URL); err != nil {
			return fmt.Errorf("NATS_URL is invalid: %w", err)
		}
	}
	if c.NATS.EmbeddedServer && strings.TrimSpace(c.NATS.StoreDir) == "" {
		return fmt.Errorf("NATS_STORE_DIR is required with the embedded server")
	}
	if c.NATS.MaxMemory < natsMinMemory {
		return fmt.Errorf("NATS_MAX_MEMORY must be at least 64MB (67108864 bytes)")
	}
	if c.NATS.MaxStore < natsMinStore {
		return fmt.Errorf("NATS_MAX_STORE must be at least 100MB (104857600 bytes)")
	}
	if c.NATS.StreamRetentionDays < natsMinRetention || c.NATS.StreamRetentionDays > natsMaxRetention {
		return fmt.Errorf("NATS_RETENTION_DAYS must be between 1 and 365")
	}
	if c.NATS.SubscribersCount < 1 || c.NATS.SubscribersCount > natsMaxSubscribers {
		return fmt.Errorf("NATS_SUBSCRIBERS must be between 1 and 32")
	}
	if c.NATS.PublishTimeout <= 0 {
		return fmt.Errorf("nats.publish_timeout must be positive")
	}
	return nil
}

// validateSecurity validates CORS and rate limiting
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	if err := c.validateTrustedProxies(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateTrustedProxies requires every entry to be an IP or a CIDR.
func (c *Config) validateTrustedProxies() error {
	for _, entry := range c.Security.TrustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			if _, err := netip.ParsePrefix(entry); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: invalid CIDR %q", entry)
			}
			continue
		}
		if _, err := netip.ParseAddr(entry); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: invalid IP %q", entry)
		}
	}
	return nil
}

// validateCORS rejects wildcard CORS in production.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; " +
			"set specific origins: CORS_ORIGINS=https://yourdomain.com,https://app.yourdomain.com")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.hasWildcardCORS() && !c.IsDevelopment()
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
