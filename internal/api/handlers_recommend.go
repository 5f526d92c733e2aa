// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/cinerank/internal/middleware"
	"github.com/tomtom215/cinerank/internal/models"
	"github.com/tomtom215/cinerank/internal/recommend"
	"github.com/tomtom215/cinerank/internal/validation"
)

// RecommendSimilar handles GET /api/v1/recommendations/similar/{itemID}
//
// @Summary Items similar to an item
// @Description Ranks the catalog by cosine similarity to the item's embedding. The item itself is never returned. k defaults to 10 and is clamped to the configured maximum (50).
// @Tags Recommendations
// @Produce json
// @Param itemID path string true "Catalog item id"
// @Param k query int false "Number of results"
// @Success 200 {object} models.APIResponse{data=recommend.Response}
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 404 {object} models.APIResponse "Unknown item"
// @Failure 503 {object} models.APIResponse "Catalog not loaded or upstream unavailable"
// @Router /recommendations/similar/{itemID} [get]
func (h *Handler) RecommendSimilar(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	req := SimilarRequest{ItemID: chi.URLParam(r, "itemID"), K: k}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.engine.RecommendSimilar(ctx, req.ItemID, req.K)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	respondRecommendations(w, r, resp)
}

// RecommendForUser handles GET /api/v1/recommendations/user/{userID}
//
// @Summary Personalized recommendations
// @Description Ranks the catalog against a profile built from the user's recent interactions, excluding items the user has interacted with. Users without a usable profile get cold_start=true and, when the popularity fallback is enabled, the most popular unseen items with fallback=true.
// @Tags Recommendations
// @Produce json
// @Param userID path string true "User id"
// @Param k query int false "Number of results"
// @Success 200 {object} models.APIResponse{data=recommend.Response}
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 503 {object} models.APIResponse "Catalog not loaded or upstream unavailable"
// @Router /recommendations/user/{userID} [get]
func (h *Handler) RecommendForUser(w http.ResponseWriter, r *http.Request) {
	k, err := intParam(r, "k")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	req := UserRecommendationsRequest{UserID: chi.URLParam(r, "userID"), K: k}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	resp, err := h.engine.RecommendForUser(ctx, req.UserID, req.K)
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}
	respondRecommendations(w, r, resp)
}

func respondRecommendations(w http.ResponseWriter, r *http.Request, resp *recommend.Response) {
	respondSuccess(w, r, http.StatusOK, resp, models.Metadata{
		QueryTimeMS: resp.LatencyMS,
		Cached:      resp.CacheHit,
	})
}

// StatsResponse is the body of the stats endpoint.
type StatsResponse struct {
	Engine           recommend.Stats           `json:"engine"`
	Routes           []middleware.RouteLatency `json:"routes,omitempty"`
	WebSocketClients int                       `json:"websocket_clients"`
	UptimeSeconds    float64                   `json:"uptime_seconds"`
}

// RecommendationStats handles GET /api/v1/recommendations/stats
//
// @Summary Engine and cache statistics
// @Description Request counters, cache hit rates, catalog state, circuit breaker states and recent per-route latency.
// @Tags Recommendations
// @Produce json
// @Success 200 {object} models.APIResponse{data=StatsResponse}
// @Router /recommendations/stats [get]
func (h *Handler) RecommendationStats(w http.ResponseWriter, r *http.Request) {
	stats := StatsResponse{
		Engine:        h.engine.Stats(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if h.monitor != nil {
		stats.Routes = h.monitor.Summary()
	}
	if h.wsHub != nil {
		stats.WebSocketClients = h.wsHub.GetClientCount()
	}

	respondSuccess(w, r, http.StatusOK, stats, models.Metadata{})
}
