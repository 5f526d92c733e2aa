// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/models"
)

// ReloadAccepted is the body of an accepted reload trigger.
type ReloadAccepted struct {
	Status         string `json:"status"`
	CatalogVersion uint64 `json:"catalog_version"`
}

// ReloadCatalog handles POST /api/v1/catalog/reload
//
// @Summary Trigger a catalog reload
// @Description Publishes a reload request to every instance. The reload runs asynchronously and is throttled per instance; watch the catalog_reloaded websocket message or the health endpoint for the new version.
// @Tags Catalog
// @Produce json
// @Success 202 {object} models.APIResponse{data=ReloadAccepted}
// @Failure 503 {object} models.APIResponse "Event bus unavailable"
// @Router /catalog/reload [post]
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if h.reloader == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog reload is not available", nil)
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.reloader.RequestCatalogReload(ctx, "api"); err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("failed to publish catalog reload request")
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "failed to publish reload request", nil)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("catalog reload requested")
	respondSuccess(w, r, http.StatusAccepted, ReloadAccepted{
		Status:         "reload_requested",
		CatalogVersion: h.engine.Snapshot().Version(),
	}, models.Metadata{})
}
