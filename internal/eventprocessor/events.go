// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinerank/internal/models"
)

// Topics. Every topic lives under SubjectRoot so one JetStream stream covers them.
const (
	SubjectRoot = "cinerank"

	// TopicInteractionRecorded carries InteractionRecorded events.
	TopicInteractionRecorded = SubjectRoot + ".interaction.recorded"

	// TopicCatalogReload carries CatalogReloadRequested events.
	TopicCatalogReload = SubjectRoot + ".catalog.reload"

	// TopicPoison receives messages that failed every retry.
	TopicPoison = SubjectRoot + ".poison"
)

// Event is implemented by every message published on the bus.
type Event interface {
	// EventID is the unique message id, used for JetStream deduplication.
	EventID() string

	// Topic is the subject the event is published on.
	Topic() string

	// Validate rejects events that must not be published.
	Validate() error
}

// Header carries the fields shared by every event.
type Header struct {
	ID string `json:"event_id"`

	// Origin is the instance id of the publisher. Handlers use it to skip
	// work the publishing instance already did.
	Origin string `json:"origin"`

	OccurredAt time.Time `json:"occurred_at"`
}

// EventID implements Event.
func (h *Header) EventID() string { return h.ID }

func newHeader(origin string, now time.Time) Header {
	return Header{
		ID:         uuid.New().String(),
		Origin:     origin,
		OccurredAt: now.UTC(),
	}
}

func (h *Header) validate() error {
	if h.ID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if h.Origin == "" {
		return fmt.Errorf("%w: origin is required", ErrInvalidEvent)
	}
	return nil
}

// InteractionRecorded is published after an interaction is stored. Every
// instance drops its cached results for the user on receipt.
type InteractionRecorded struct {
	Header

	InteractionID string                 `json:"interaction_id"`
	UserID        string                 `json:"user_id"`
	ItemID        string                 `json:"item_id"`
	Kind          models.InteractionKind `json:"kind"`
}

// NewInteractionRecorded builds the event for a stored interaction.
func NewInteractionRecorded(origin string, in *models.Interaction) *InteractionRecorded {
	return &InteractionRecorded{
		Header:        newHeader(origin, time.Now()),
		InteractionID: in.ID,
		UserID:        in.UserID,
		ItemID:        in.ItemID,
		Kind:          in.Kind,
	}
}

// Topic implements Event.
func (e *InteractionRecorded) Topic() string { return TopicInteractionRecorded }

// Validate implements Event.
func (e *InteractionRecorded) Validate() error {
	if err := e.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEvent)
	}
	if e.ItemID == "" {
		return fmt.Errorf("%w: item_id is required", ErrInvalidEvent)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("%w: invalid kind %d", ErrInvalidEvent, e.Kind)
	}
	return nil
}

// CatalogReloadRequested asks every instance to reload its embedding catalog.
type CatalogReloadRequested struct {
	Header

	// Reason is free text for the logs, e.g. "api" or "import".
	Reason string `json:"reason,omitempty"`
}

// NewCatalogReloadRequested builds a reload request.
func NewCatalogReloadRequested(origin, reason string) *CatalogReloadRequested {
	return &CatalogReloadRequested{
		Header: newHeader(origin, time.Now()),
		Reason: reason,
	}
}

// Topic implements Event.
func (e *CatalogReloadRequested) Topic() string { return TopicCatalogReload }

// Validate implements Event.
func (e *CatalogReloadRequested) Validate() error {
	return e.validate()
}
