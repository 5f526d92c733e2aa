// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/metrics"
)

// Websocket notice types pushed by the handlers.
const (
	NoticeRecommendationsInvalidated = "recommendations_invalidated"
	NoticeCatalogReloaded            = "catalog_reloaded"
)

// UserInvalidator drops cached results for a user.
type UserInvalidator interface {
	InvalidateUser(userID string) int
}

// CatalogReloader reloads the embedding catalog.
type CatalogReloader interface {
	ReloadCatalog(ctx context.Context) (*embedding.Snapshot, error)
}

// Broadcaster pushes a typed notice to connected clients.
type Broadcaster interface {
	BroadcastJSON(msgType string, data interface{})
}

// InvalidationHandler reacts to InteractionRecorded events.
type InvalidationHandler struct {
	invalidator UserInvalidator
	broadcaster Broadcaster
	serializer  *Serializer
	instanceID  string
	logger      zerolog.Logger
}

// NewInvalidationHandler creates the handler. broadcaster may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewInvalidationHandler(inv UserInvalidator, broadcaster Broadcaster, instanceID string, logger zerolog.Logger) *InvalidationHandler {
	return &InvalidationHandler{
		invalidator: inv,
		broadcaster: broadcaster,
		serializer:  NewSerializer(),
		instanceID:  instanceID,
		logger:      logger.With().Str("handler", "invalidation").Logger(),
	}
}

// Handle implements message.NoPublishHandlerFunc. Events published by this
// instance were already applied when the interaction was recorded, so only
// the client notice is sent for them.
func (h *InvalidationHandler) Handle(msg *message.Message) error {
	var ev InteractionRecorded
	if err := h.serializer.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", msg.UUID, err)
	}

	removed := 0
	if ev.Origin != h.instanceID {
		removed = h.invalidator.InvalidateUser(ev.UserID)
	}

	h.logger.Debug().
		Str("event_id", ev.ID).
		Str("origin", ev.Origin).
		Str("user_id", ev.UserID).
		Int("removed", removed).
		Msg("interaction event handled")

	if h.broadcaster != nil {
		h.broadcaster.BroadcastJSON(NoticeRecommendationsInvalidated, map[string]interface{}{
			"user_id": ev.UserID,
			"item_id": ev.ItemID,
			"kind":    ev.Kind.String(),
		})
	}
	return nil
}

// ReloadHandler reacts to CatalogReloadRequested events. Reloads beyond the
// limiter's rate are dropped: a reload already reflects every change made
// before it, so a burst of requests needs only one.
type ReloadHandler struct {
	reloader    CatalogReloader
	broadcaster Broadcaster
	limiter     *rate.Limiter
	serializer  *Serializer
	logger      zerolog.Logger
}

// NewReloadHandler creates the handler. A nil limiter disables throttling.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewReloadHandler(reloader CatalogReloader, broadcaster Broadcaster, limiter *rate.Limiter, logger zerolog.Logger) *ReloadHandler {
	return &ReloadHandler{
		reloader:    reloader,
		broadcaster: broadcaster,
		limiter:     limiter,
		serializer:  NewSerializer(),
		logger:      logger.With().Str("handler", "catalog_reload").Logger(),
	}
}

// Handle implements message.NoPublishHandlerFunc. Throttled and failed
// reloads are acknowledged: the current snapshot stays in service and the
// next trigger tries again.
func (h *ReloadHandler) Handle(msg *message.Message) error {
	var ev CatalogReloadRequested
	if err := h.serializer.Unmarshal(msg.Payload, &ev); err != nil {
		return fmt.Errorf("decode %s: %w", msg.UUID, err)
	}

	logger := h.logger.With().
		Str("event_id", ev.ID).
		Str("origin", ev.Origin).
		Str("reason", ev.Reason).
		Logger()

	if h.limiter != nil && !h.limiter.Allow() {
		metrics.RecordCatalogReloadThrottled()
		logger.Info().Msg("catalog reload throttled")
		return nil
	}

	snap, err := h.reloader.ReloadCatalog(msg.Context())
	if err != nil {
		logger.Warn().Err(err).Msg("catalog reload failed")
		return nil
	}

	logger.Info().
		Uint64("version", snap.Version()).
		Int("items", snap.Len()).
		Msg("catalog reloaded")

	if h.broadcaster != nil {
		h.broadcaster.BroadcastJSON(NoticeCatalogReloaded, map[string]interface{}{
			"version":   snap.Version(),
			"items":     snap.Len(),
			"dimension": snap.Dimension(),
		})
	}
	return nil
}

// Register adds both handlers to router, consuming from sub.
func Register(router *Router, sub message.Subscriber, inv *InvalidationHandler, reload *ReloadHandler) {
	router.AddConsumerHandler("interaction-invalidation", TopicInteractionRecorded, sub, inv.Handle)
	router.AddConsumerHandler("catalog-reload", TopicCatalogReload, sub, reload.Handle)
}
