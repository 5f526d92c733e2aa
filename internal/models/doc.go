// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package models defines the data records shared across Cinerank packages.

  - Interaction: one entry of a user's append-only interaction log
    (view, like or rate, with an optional rating).
  - InteractionKind: closed enum of interaction kinds, serialized by name.
  - ItemMetadata: title and genres used to decorate recommendation results.
  - InteractionPage / Pagination: paged interaction history listings.

Embeddings are not modeled here; they live in the embedding package as
immutable snapshots.
*/
package models
