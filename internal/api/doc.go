// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package api provides the HTTP REST API layer for Cinerank.

Key Components:

  - Router: chi route table and middleware stack
  - Handler: request handlers backed by a Recommender (recommend.Engine)
  - Response formatting: every JSON response uses models.APIResponse
  - Error mapping: engine errors become 400, 404, 503 or 500
  - Rate limiting: go-chi/httprate per endpoint class, keyed by client IP
  - CORS: go-chi/cors, also used to check websocket origins

Endpoints (/api/v1):

  - GET  /recommendations/similar/{itemID}?k=
  - GET  /recommendations/user/{userID}?k=
  - GET  /recommendations/stats
  - GET  /users/{userID}/interactions?kind=&page=&limit=
  - POST /users/{userID}/interactions
  - POST /catalog/reload
  - GET  /health, /health/live, /health/ready
  - GET  /ws

/metrics serves Prometheus metrics and /swagger/ the generated API docs.

Error Responses:

	{
	  "status": "error",
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."},
	  "error": {"code": "NOT_FOUND", "message": "item not found"}
	}

Retryable failures (catalog not loaded, upstream timeout) answer 503 with a
Retry-After header.

Thread Safety:

Handlers hold no per-request state. The Recommender, hub and latency monitor
are safe for concurrent use.
*/
package api
