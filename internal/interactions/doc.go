// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package interactions stores the per-user interaction log in BadgerDB.
//
// The log is append-only. Each record is keyed by user, inverted timestamp
// and interaction id, so a prefix scan yields a user's history newest first
// without a secondary index:
//
//	ix:<userID> 0x00 <^unix nanos as 16 hex digits> 0x00 <id>
//
// Values are the JSON encoding of models.Interaction.
//
// Store implements recommend.InteractionStore:
//
//	store, err := interactions.Open(&cfg, logger)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	recent, err := store.FetchRecent(ctx, "user-1", 50)
//
// Value log garbage collection is not automatic; the supervisor runs RunGC
// every GCInterval.
package interactions
