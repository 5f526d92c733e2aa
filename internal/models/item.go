// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package models

// ItemMetadata is descriptive catalog data used to decorate results.
// It never influences scoring.
type ItemMetadata struct {
	ItemID string   `json:"item_id"`
	Title  string   `json:"title"`
	Genres []string `json:"genres,omitempty"`
	Year   int      `json:"year,omitempty"`
}
