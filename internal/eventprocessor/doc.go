// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package eventprocessor provides the event bus that keeps recommendation
caches consistent across instances.

Two events travel on the bus:

  - InteractionRecorded (cinerank.interaction.recorded): published after an
    interaction is stored. Every instance drops its cached user-to-item
    results for the user and pushes a recommendations_invalidated notice to
    websocket clients.
  - CatalogReloadRequested (cinerank.catalog.reload): asks every instance to
    reload its embedding catalog. Reloads are throttled by a token bucket and
    announced with a catalog_reloaded notice.

# Transports

With NATS disabled the bus is a Watermill gochannel: events stay inside the
process. With NATS enabled events are published to a JetStream stream
(CINERANK_EVENTS, subjects cinerank.>) through watermill-nats, optionally
served by an embedded nats-server. Subscribers use ephemeral consumers
without a queue group so every instance sees every event.

# Resilience

Publishing runs through a gobreaker circuit breaker and sets Nats-Msg-Id
from the event id for JetStream deduplication. The Router wraps handlers
with panic recovery, exponential retry and a poison queue topic.

# Usage

	bus, err := eventprocessor.NewBus(ctx, cfg, logger, instanceID)
	router, err := bus.NewRouter()
	eventprocessor.Register(router, bus.Subscriber(),
		eventprocessor.NewInvalidationHandler(engine, hub, instanceID, logger),
		eventprocessor.NewReloadHandler(engine, hub, limiter, logger))
	engine.SetNotifier(eventprocessor.NewEventNotifier(bus.Publisher(), instanceID))
	go router.Run(ctx)
*/
package eventprocessor
