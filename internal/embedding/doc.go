// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package embedding holds the item embedding catalog used for scoring.

The catalog is an immutable Snapshot published through an atomic pointer.
Readers load the current snapshot without locking and keep using it for the
whole request, so a concurrent Reload never exposes a mix of old and new
vectors. Reload builds a complete new snapshot from a Source and swaps it in
one step.

Lookups for unknown ids return ErrNotFound. A zero vector is never returned
in place of a missing embedding.

	store := embedding.NewStore(source, logger)
	if err := store.Reload(ctx); err != nil {
	    return err
	}
	snap := store.Snapshot()
	vec, err := snap.Get("tt0111161")
*/
package embedding
