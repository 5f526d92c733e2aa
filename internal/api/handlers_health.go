// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinerank/internal/eventprocessor"
	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/models"
)

// Health status values.
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
)

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status          string                        `json:"status"`
	CatalogItems    int                           `json:"catalog_items"`
	CatalogVersion  uint64                        `json:"catalog_version"`
	Dimension       int                           `json:"dimension"`
	CatalogLoadedAt *time.Time                    `json:"catalog_loaded_at,omitempty"`
	UptimeSeconds   float64                       `json:"uptime_seconds"`
	Events          *eventprocessor.OverallHealth `json:"events,omitempty"`
}

// Health handles GET /api/v1/health
//
// @Summary Service health
// @Description Reports catalog state and event bus health. Answers 503 with status=degraded while no catalog is loaded, since no recommendation can be served. An unhealthy event bus degrades the status but keeps 200.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse{data=HealthStatus}
// @Failure 503 {object} models.APIResponse{data=HealthStatus}
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.engine.Snapshot()

	health := HealthStatus{
		Status:         HealthStatusHealthy,
		CatalogItems:   snap.Len(),
		CatalogVersion: snap.Version(),
		Dimension:      snap.Dimension(),
		UptimeSeconds:  time.Since(h.startTime).Seconds(),
	}
	if loaded := snap.LoadedAt(); !loaded.IsZero() {
		health.CatalogLoadedAt = &loaded
	}

	if h.events != nil {
		events := h.events.Health(r.Context())
		health.Events = &events
		if !events.Healthy {
			health.Status = HealthStatusDegraded
		}
	}

	if snap.Len() == 0 {
		health.Status = HealthStatusDegraded
		respondJSON(w, http.StatusServiceUnavailable, &models.APIResponse{
			Status: statusError,
			Data:   health,
			Metadata: models.Metadata{
				Timestamp: time.Now().UTC(),
				RequestID: logging.RequestIDFromContext(r.Context()),
			},
			Error: &models.APIError{
				Code:    ErrCodeServiceUnavailable,
				Message: "catalog not loaded",
			},
		})
		return
	}

	respondSuccess(w, r, http.StatusOK, health, models.Metadata{})
}

// HealthLive handles GET /api/v1/health/live
//
// @Summary Liveness probe
// @Description Always 200 while the process serves HTTP.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "alive"}, models.Metadata{})
}

// HealthReady handles GET /api/v1/health/ready
//
// @Summary Readiness probe
// @Description 200 once a catalog snapshot is loaded, 503 before.
// @Tags Health
// @Produce json
// @Success 200 {object} models.APIResponse
// @Failure 503 {object} models.APIResponse
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.engine.Snapshot().Len() == 0 {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "catalog not loaded", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, map[string]string{"status": "ready"}, models.Metadata{})
}
