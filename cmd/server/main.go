// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/cinerank/docs" // Import generated swagger docs
	"github.com/tomtom215/cinerank/internal/api"
	"github.com/tomtom215/cinerank/internal/config"
	"github.com/tomtom215/cinerank/internal/database"
	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/eventprocessor"
	"github.com/tomtom215/cinerank/internal/interactions"
	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/middleware"
	"github.com/tomtom215/cinerank/internal/recommend"
	"github.com/tomtom215/cinerank/internal/supervisor"
	"github.com/tomtom215/cinerank/internal/supervisor/services"
	ws "github.com/tomtom215/cinerank/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Default logger; config not yet available
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("catalog_source", cfg.Catalog.Source).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting Cinerank with supervisor tree")

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*). Set explicit origins in production.")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// === STORES ===

	interactionStore, err := interactions.Open(&cfg.Interactions, logging.WithComponent("interactions"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open interaction store")
	}
	defer func() {
		if err := interactionStore.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing interaction store")
		}
	}()
	logging.Info().
		Str("path", cfg.Interactions.Path).
		Bool("in_memory", cfg.Interactions.InMemory).
		Msg("Interaction store opened")

	db, err := database.New(&cfg.Database, logging.WithComponent("database"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("path", cfg.Database.Path).Msg("Database initialized successfully")

	if n, err := seedCatalog(ctx, &cfg.Catalog, db); err != nil {
		logging.Error().Err(err).Int("imported", n).Msg("Catalog seed import failed")
	} else if n > 0 {
		logging.Info().Int("items", n).Msg("Catalog seed imported")
	}

	// === CATALOG AND ENGINE ===

	source := recommend.GuardSource(catalogSource(&cfg.Catalog, db), cfg.Catalog.LoadTimeout, cfg.Recommend.Breaker)
	embeddings := embedding.NewStore(source, logging.WithComponent("embedding"))
	loadInitialCatalog(ctx, embeddings, cfg.Catalog.LoadTimeout)

	engine, err := recommend.NewEngine(&cfg.Recommend, embeddings, interactionStore, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetMetadataSource(db)
	engine.SetFallbackProvider(db)

	// === EVENTS ===

	bus, err := eventprocessor.NewBus(ctx, busConfig(&cfg.NATS), logging.WithComponent("eventbus"), instanceID())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer closeCancel()
		if err := bus.Close(closeCtx); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	logging.Info().
		Str("transport", bus.Transport()).
		Str("instance_id", bus.InstanceID()).
		Msg("Event bus initialized")

	notifier := eventprocessor.NewEventNotifier(bus.Publisher(), bus.InstanceID())
	engine.SetNotifier(notifier)

	wsHub := ws.NewHub(logging.WithComponent("websocket"))

	eventComponents := eventprocessor.NewComponents(bus, engine, wsHub, reloadLimiter(&cfg.Catalog), logging.Logger())

	// === HTTP ===

	handler := api.NewHandler(engine, cfg, wsHub, logging.Logger())
	handler.SetReloadRequester(notifier)
	handler.SetEventHealth(bus)
	handler.SetLatencyMonitor(middleware.NewLatencyMonitor(1000, time.Second, logging.WithComponent("latency")))

	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewCatalogReloadService(engine, cfg.Catalog.ReloadInterval, cfg.Catalog.LoadTimeout, logging.Logger()))
	tree.AddDataService(services.NewCacheJanitorService(engine, cfg.Recommend.Cache.CleanupInterval, logging.Logger()))
	tree.AddDataService(services.NewStoreGCService(interactionStore, interactionStore.GCInterval(), logging.Logger()))

	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(services.NewEventComponentsService(eventComponents, cfg.Server.ShutdownTimeout))

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// Deferred closes run in reverse: event bus, database, interaction store.
	logging.Info().Msg("Application stopped gracefully")
}
