// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package models

import (
	"time"
)

// APIResponse is the envelope wrapping every JSON body served by the API.
//
// Status field values:
//   - "success": see Data
//   - "error": see Error
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"type": "item_similar", "items": [...]},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "request_id": "5b1c0d3e-...",
//	    "query_time_ms": 3,
//	    "cached": true
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "error": {"code": "NOT_FOUND", "message": "item not found: m404"},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is the machine-readable part of an error response.
//
// Error codes:
//   - VALIDATION_ERROR: malformed or out-of-range input (400)
//   - NOT_FOUND: unknown item (404)
//   - TOO_MANY_REQUESTS: rate limited (429)
//   - SERVICE_UNAVAILABLE: upstream failure or catalog not loaded (503, retryable)
//   - INTERNAL_ERROR: anything else (500)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
