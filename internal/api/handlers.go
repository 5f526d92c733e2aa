// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/config"
	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/eventprocessor"
	"github.com/tomtom215/cinerank/internal/middleware"
	"github.com/tomtom215/cinerank/internal/models"
	"github.com/tomtom215/cinerank/internal/recommend"
	ws "github.com/tomtom215/cinerank/internal/websocket"
)

// Recommender is the part of recommend.Engine served over HTTP.
type Recommender interface {
	RecommendSimilar(ctx context.Context, itemID string, k int) (*recommend.Response, error)
	RecommendForUser(ctx context.Context, userID string, k int) (*recommend.Response, error)
	RecordInteraction(ctx context.Context, req recommend.RecordRequest) (*models.Interaction, error)
	ListInteractions(ctx context.Context, userID string, filter models.InteractionFilter) (*models.InteractionPage, error)
	Snapshot() *embedding.Snapshot
	Stats() recommend.Stats
}

// ReloadRequester asks every instance to reload the catalog.
type ReloadRequester interface {
	RequestCatalogReload(ctx context.Context, reason string) error
}

// EventHealth reports the health of the event bus.
type EventHealth interface {
	Health(ctx context.Context) eventprocessor.OverallHealth
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, websocket upgrade
//   - handlers_recommend.go: recommendation and stats endpoints
//   - handlers_interactions.go: interaction record and history endpoints
//   - handlers_health.go: health, liveness, readiness
//   - handlers_catalog.go: catalog reload trigger
type Handler struct {
	engine    Recommender
	reloader  ReloadRequester
	events    EventHealth
	wsHub     *ws.Hub
	monitor   *middleware.LatencyMonitor
	config    *config.Config
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// engine is required. The reload requester, event health, websocket hub and
// latency monitor are optional; endpoints depending on a missing one answer
// 503.
//
// Example:
//
//	handler := api.NewHandler(engine, cfg, hub, logger)
//	handler.SetReloadRequester(notifier)
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
//	http.ListenAndServe(":8080", router.SetupChi())
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Recommender, cfg *config.Config, wsHub *ws.Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		engine:    engine,
		wsHub:     wsHub,
		config:    cfg,
		logger:    logger.With().Str("component", "api").Logger(),
		startTime: time.Now(),
	}
}

// SetReloadRequester sets the catalog reload trigger.
func (h *Handler) SetReloadRequester(r ReloadRequester) {
	h.reloader = r
}

// SetEventHealth sets the event bus health source reported by /health.
func (h *Handler) SetEventHealth(e EventHealth) {
	h.events = e
}

// SetLatencyMonitor sets the monitor whose route summary is served by the
// stats endpoint.
func (h *Handler) SetLatencyMonitor(m *middleware.LatencyMonitor) {
	h.monitor = m
}

// requestContext bounds a handler's work by the configured server timeout.
func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.config == nil || h.config.Server.Timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.config.Server.Timeout)
}

// WebSocket upgrades the connection and registers it with the hub
//
// @Summary Subscribe to recommendation change notices
// @Description Upgrades to a WebSocket that receives recommendations_invalidated and catalog_reloaded messages
// @Tags Realtime
// @Success 101 {string} string "Switching Protocols"
// @Failure 503 {object} models.APIResponse "WebSocket hub not available"
// @Router /ws [get]
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		h.logger.Warn().Msg("websocket connection rejected: hub not initialized")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts browser origins listed in the CORS
// configuration. Browsers always send Origin on websocket handshakes, so a
// missing header is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		h.logger.Warn().Msg("websocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	h.logger.Warn().Str("origin", sanitizeLogValue(origin)).Msg("websocket connection rejected from unauthorized origin")
	return false
}
