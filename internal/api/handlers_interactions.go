// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/models"
	"github.com/tomtom215/cinerank/internal/recommend"
	"github.com/tomtom215/cinerank/internal/validation"
)

// RecordInteraction handles POST /api/v1/users/{userID}/interactions
//
// @Summary Record an interaction
// @Description Appends a view, like or rate interaction to the user's log and invalidates the user's cached recommendations on every instance. Ratings are required for kind=rate (0.5 to 5.0 in steps of 0.5) and ignored for other kinds.
// @Tags Interactions
// @Accept json
// @Produce json
// @Param userID path string true "User id"
// @Param interaction body RecordInteractionRequest true "Interaction"
// @Success 201 {object} models.APIResponse{data=models.Interaction}
// @Failure 400 {object} models.APIResponse "Invalid interaction"
// @Failure 404 {object} models.APIResponse "Unknown item"
// @Failure 503 {object} models.APIResponse "Interaction store unavailable"
// @Router /users/{userID}/interactions [post]
func (h *Handler) RecordInteraction(w http.ResponseWriter, r *http.Request) {
	var req RecordInteractionRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	req.UserID = chi.URLParam(r, "userID")

	kind, err := models.ParseInteractionKind(req.Kind)
	if err == nil && kind != models.KindRate && req.Rating != nil {
		logging.Ctx(r.Context()).Debug().
			Str("kind", kind.String()).
			Float64("rating", *req.Rating).
			Msg("dropping rating supplied for non-rate interaction")
		req.Rating = nil
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	in, err := h.engine.RecordInteraction(ctx, recommend.RecordRequest{
		UserID: req.UserID,
		ItemID: req.ItemID,
		Kind:   kind,
		Rating: req.Rating,
	})
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusCreated, in, models.Metadata{})
}

// ListInteractions handles GET /api/v1/users/{userID}/interactions
//
// @Summary Interaction history
// @Description Returns the user's interactions newest first, optionally filtered by kind.
// @Tags Interactions
// @Produce json
// @Param userID path string true "User id"
// @Param kind query string false "view, like or rate"
// @Param page query int false "1-based page (default 1)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} models.APIResponse{data=models.InteractionPage}
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 503 {object} models.APIResponse "Interaction store unavailable"
// @Router /users/{userID}/interactions [get]
func (h *Handler) ListInteractions(w http.ResponseWriter, r *http.Request) {
	page, err := intParam(r, "page")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	req := InteractionHistoryRequest{
		UserID: chi.URLParam(r, "userID"),
		Kind:   r.URL.Query().Get("kind"),
		Page:   page,
		Limit:  limit,
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	filter := models.InteractionFilter{Page: req.Page, Limit: req.Limit}
	if req.Kind != "" {
		// Validated above.
		filter.Kind, _ = models.ParseInteractionKind(req.Kind)
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.engine.ListInteractions(ctx, req.UserID, filter)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, result, models.Metadata{})
}
