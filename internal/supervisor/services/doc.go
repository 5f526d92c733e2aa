// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package services provides suture.Service wrappers for Cinerank components.

Each wrapper translates a component's own lifecycle (ListenAndServe,
RunWithContext, Start/Shutdown, a ticker) into suture's context-aware
Serve method and implements fmt.Stringer so supervisor logs name it.

# Available Services

  - HTTPServerService ("http-server"): ListenAndServe with a bounded
    graceful shutdown once the context is canceled.
  - WebSocketHubService ("websocket-hub"): runs the hub until cancellation.
  - EventComponentsService ("event-components"): starts the event router
    and returns an error if it stops on its own so suture restarts it.
  - PeriodicService: runs a task on a fixed interval. Task errors are
    logged and never end the service. Constructors exist for the
    scheduled catalog reload, the result cache janitor and the
    interaction store value log GC.

# Return Values

Serve returns ctx.Err() on a requested shutdown. Any other error is a
failure and the supervisor restarts the service with backoff.

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddDataService(services.NewCacheJanitorService(engine, time.Minute, logger))
*/
package services
