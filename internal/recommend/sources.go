// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"

	"github.com/tomtom215/cinerank/internal/models"
)

// InteractionSource reads a user's recent interactions.
type InteractionSource interface {
	// FetchRecent returns at most limit interactions for userID, newest first.
	// An unknown user yields an empty slice, not an error.
	FetchRecent(ctx context.Context, userID string, limit int) ([]models.Interaction, error)
}

// InteractionStore is the append-only interaction log.
type InteractionStore interface {
	InteractionSource

	// Append stores one interaction. The ID and Timestamp are already set.
	Append(ctx context.Context, in *models.Interaction) error

	// InteractedItems returns the distinct item ids among the user's limit
	// most recent interactions, newest first.
	InteractedItems(ctx context.Context, userID string, limit int) ([]string, error)

	// List returns one page of a user's history, newest first.
	List(ctx context.Context, userID string, filter models.InteractionFilter) (*models.InteractionPage, error)
}

// MetadataSource decorates results with catalog metadata.
type MetadataSource interface {
	// FetchMetadata returns metadata for the ids it knows; unknown ids are omitted.
	FetchMetadata(ctx context.Context, itemIDs []string) (map[string]models.ItemMetadata, error)
}

// FallbackProvider supplies results for users without a usable profile.
type FallbackProvider interface {
	// Popular returns up to k item ids in descending popularity, skipping exclude.
	Popular(ctx context.Context, k int, exclude map[string]struct{}) ([]string, error)
}

// Notifier is told about state changes other instances and clients care about.
type Notifier interface {
	// InteractionRecorded is called after an interaction is stored.
	InteractionRecorded(ctx context.Context, in *models.Interaction) error
}
