// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package websocket pushes recommendation change notices to connected clients.

The hub fans typed messages out to every client. Clients are expected to
refetch recommendations when told their cached results are stale:

  - recommendations_invalidated: an interaction was recorded for user_id on
    some instance; cached user-to-item results for that user are gone.
  - catalog_reloaded: a new catalog version is live (version, items,
    dimension); every cached result was purged.

Messages are produced by the event bus handlers through Hub.BroadcastJSON,
so a client connected to any instance hears about changes made on every
instance.

Each client has two goroutines: readPump answers pings and detects
disconnects, writePump delivers messages and keepalive pings. A client whose
send buffer fills up is dropped rather than slowing the broadcast.

Usage:

	hub := websocket.NewHub(logger)
	tree.AddMessagingService(services.NewWebSocketHubService(hub))

	conn, _ := upgrader.Upgrade(w, r, nil)
	client := websocket.NewClient(hub, conn)
	hub.Register <- client
	client.Start()
*/
package websocket
