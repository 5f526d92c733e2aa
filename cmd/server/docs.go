// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package main provides the Cinerank HTTP server
//
// @title Cinerank API
// @version 1.0
// @description Content-based movie recommendations from item embeddings.
// @description
// @description ## Recommendations
// @description
// @description - **Similar items**: nearest neighbours of an item by cosine similarity
// @description - **For a user**: ranked against a profile built from the user's weighted interactions
// @description - **Cold start**: users without a usable profile get `cold_start=true` and, when enabled, a popularity fallback
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address. Writes are limited to 30 per minute.
// @description Rejected requests receive 429 with a `Retry-After` header.
// @description
// @description ## Error Responses
// @description
// @description All error responses follow this format:
// @description ```json
// @description {
// @description   "status": "error",
// @description   "data": null,
// @description   "error": {
// @description     "code": "NOT_FOUND",
// @description     "message": "item not found"
// @description   },
// @description   "metadata": {
// @description     "timestamp": "2026-10-17T12:34:56Z",
// @description     "request_id": "3f6c..."
// @description   }
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/cinerank/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
//
// @tag.name Core
// @tag.description Health and readiness probes
//
// @tag.name Recommendations
// @tag.description Item-to-item and user-to-item recommendations
//
// @tag.name Interactions
// @tag.description User interaction log
//
// @tag.name Admin
// @tag.description Catalog reload
//
// @tag.name Realtime
// @tag.description WebSocket notifications for catalog reloads and invalidations
package main
