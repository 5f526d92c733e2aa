// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinerank/internal/config"
	"github.com/tomtom215/cinerank/internal/database"
	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/eventprocessor"
	"github.com/tomtom215/cinerank/internal/logging"
)

// catalogSource picks where embeddings are loaded from.
func catalogSource(cfg *config.CatalogConfig, db *database.DB) embedding.Source {
	if cfg.Source == config.CatalogSourceFile {
		return embedding.NewFileSource(cfg.FilePath)
	}
	return db
}

// seedCatalog imports CATALOG_SEED_PATH into DuckDB. Nothing happens when
// the path is unset.
func seedCatalog(ctx context.Context, cfg *config.CatalogConfig, db *database.DB) (int, error) {
	if cfg.SeedPath == "" {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	defer cancel()

	n, err := db.ImportFile(ctx, cfg.SeedPath)
	if err != nil {
		return n, fmt.Errorf("seed catalog from %s: %w", cfg.SeedPath, err)
	}
	return n, nil
}

// loadInitialCatalog performs the first catalog load. A failure is logged
// and the process starts with an empty catalog: recommendation endpoints
// answer 503 until a reload succeeds.
func loadInitialCatalog(ctx context.Context, store *embedding.Store, timeout time.Duration) *embedding.Snapshot {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	snap, err := store.Reload(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("Initial catalog load failed, starting with an empty catalog")
		return store.Snapshot()
	}
	logging.Info().
		Int("items", snap.Len()).
		Int("dimension", snap.Dimension()).
		Uint64("version", snap.Version()).
		Msg("Catalog loaded")
	return snap
}

// instanceID names this process as an event origin: hostname plus a
// random suffix so restarts on the same host are distinct.
func instanceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "cinerank"
	}
	return host + "-" + uuid.NewString()[:8]
}

// busConfig maps the NATS settings onto the event bus configuration.
func busConfig(n *config.NATSConfig) eventprocessor.BusConfig {
	cfg := eventprocessor.DefaultBusConfig()
	cfg.NATSEnabled = n.Enabled
	cfg.URL = n.URL
	cfg.EmbeddedServer = n.EmbeddedServer
	cfg.Server.StoreDir = n.StoreDir
	cfg.Server.JetStreamMaxMem = n.MaxMemory
	cfg.Server.JetStreamMaxStore = n.MaxStore
	if n.StreamRetentionDays > 0 {
		cfg.Stream.MaxAge = time.Duration(n.StreamRetentionDays) * 24 * time.Hour
	}
	if n.MaxStore > 0 {
		cfg.Stream.MaxBytes = n.MaxStore
	}
	cfg.SubscribersCount = n.SubscribersCount
	cfg.QueueGroup = n.QueueGroup
	if n.PublishTimeout > 0 {
		cfg.PublishTimeout = n.PublishTimeout
	}
	cfg.Router.RetryMaxRetries = n.RouterRetryCount
	if n.RouterRetryInitialInterval > 0 {
		cfg.Router.RetryInitialInterval = n.RouterRetryInitialInterval
	}
	if n.RouterCloseTimeout > 0 {
		cfg.Router.CloseTimeout = n.RouterCloseTimeout
	}
	return cfg
}

// reloadLimiter throttles triggered catalog reloads. Nil means unthrottled.
func reloadLimiter(cfg *config.CatalogConfig) *rate.Limiter {
	if cfg.ReloadMinInterval <= 0 {
		return nil
	}
	burst := cfg.ReloadBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(cfg.ReloadMinInterval), burst)
}
