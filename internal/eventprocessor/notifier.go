// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"

	"github.com/tomtom215/cinerank/internal/models"
)

// EventPublisher is the subset of Publisher used by EventNotifier.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event Event) error
}

// EventNotifier turns engine notifications into bus events stamped with
// this instance as origin.
type EventNotifier struct {
	publisher EventPublisher
	origin    string
}

// NewEventNotifier creates a notifier publishing as origin.
func NewEventNotifier(publisher EventPublisher, origin string) *EventNotifier {
	return &EventNotifier{publisher: publisher, origin: origin}
}

// InteractionRecorded publishes an InteractionRecorded event.
func (n *EventNotifier) InteractionRecorded(ctx context.Context, in *models.Interaction) error {
	return n.publisher.PublishEvent(ctx, NewInteractionRecorded(n.origin, in))
}

// RequestCatalogReload asks every instance, this one included, to reload its catalog.
func (n *EventNotifier) RequestCatalogReload(ctx context.Context, reason string) error {
	return n.publisher.PublishEvent(ctx, NewCatalogReloadRequested(n.origin, reason))
}
