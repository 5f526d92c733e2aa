// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package main is the entry point for the Cinerank server.

Cinerank serves content-based movie recommendations from a catalog of item
embeddings: similar items for an item, and personalized lists built from a
user's interaction history.

# Initialization Order

 1. Configuration: Koanf v2 (defaults, optional YAML file, environment)
 2. Logging: zerolog, JSON or console
 3. Interaction store: BadgerDB append-only log
 4. Catalog database: DuckDB, optionally seeded from CATALOG_SEED_PATH
 5. Initial catalog load into an immutable embedding snapshot
 6. Recommendation engine with metadata and popularity fallback from DuckDB
 7. Event bus: in-process channel, or NATS JetStream when NATS_ENABLED=true
 8. WebSocket hub and Chi router
 9. Supervisor tree (suture v4), then wait for SIGINT or SIGTERM

A failed initial catalog load is not fatal. The server starts with an empty
catalog, reports not-ready on /api/v1/health/ready and answers 503 until a
reload succeeds.

# Supervisor Tree

	cinerank
	├── data-layer
	│   ├── catalog-reload
	│   ├── cache-janitor
	│   └── interaction-store-gc
	├── messaging-layer
	│   ├── websocket-hub
	│   └── event-components
	└── api-layer
	    └── http-server

# Shutdown

On SIGINT or SIGTERM the tree stops: the HTTP server drains within
SHUTDOWN_TIMEOUT, the event router finishes in-flight messages and
the hub closes client connections. The event bus, DuckDB and BadgerDB are
closed afterwards.

# Example

	export CATALOG_SEED_PATH=/data/catalog.json
	export DUCKDB_PATH=/data/cinerank.duckdb
	export INTERACTIONS_PATH=/data/interactions
	./cinerank

Multiple instances sharing a NATS server:

	export NATS_ENABLED=true
	export NATS_EMBEDDED=false
	export NATS_URL=nats://nats:4222
	./cinerank
*/
package main
