// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/recommend"
	"github.com/tomtom215/cinerank/internal/validation"
)

// retryAfterSeconds is advertised on retryable 503 responses.
const retryAfterSeconds = 5

// respondEngineError maps an Engine error onto the HTTP taxonomy:
//
//	ErrNotFound            -> 404 NOT_FOUND
//	ErrInvalidInteraction  -> 400 VALIDATION_ERROR
//	ErrUpstreamTimeout     -> 503 SERVICE_UNAVAILABLE + Retry-After
//	ErrCatalogUnavailable  -> 503 SERVICE_UNAVAILABLE + Retry-After
//	ErrInternal and others -> 500 INTERNAL_ERROR
func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.Ctx(r.Context())

	switch {
	case errors.Is(err, recommend.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, err.Error(), nil)

	case errors.Is(err, recommend.ErrInvalidInteraction):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)

	case recommend.IsRetryable(err):
		logger.Warn().Err(err).Str("path", r.URL.Path).Msg("request failed on upstream dependency")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, err.Error(), nil)

	case errors.Is(err, context.Canceled):
		// The client went away; nobody reads this response.
		logger.Debug().Str("path", r.URL.Path).Msg("request canceled by client")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "request canceled", nil)

	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("internal error")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "internal error", nil)
	}
}

// respondValidationError writes a 400 from validator output.
func respondValidationError(w http.ResponseWriter, r *http.Request, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}
