// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

// Package recommend implements the ranking service that answers
// recommendation queries from precomputed content embeddings.
//
// # Architecture
//
// The Engine orchestrates the lower-level packages:
//
//   - embedding: the current catalog snapshot (item id to vector)
//   - profile: a user's weighted-mean taste vector from recent interactions
//   - similarity: cosine scoring and bounded-heap top-k selection
//   - cache: per-key single-flight memoization of ranked results
//
// Request flow:
//
//	request -> cache lookup -> on miss: (profile, for user queries) -> rank -> cache store -> decorate
//
// # Queries
//
// RecommendSimilar ranks the whole catalog against one item's embedding,
// excluding the item itself. RecommendForUser builds a profile from the
// user's most recent interactions (profile.window) and ranks the catalog
// minus every item among the last limits.exclude_limit interactions. A user without a usable profile gets a successful response
// with ColdStart set; when FallbackPopular is enabled and a FallbackProvider
// is configured, the response carries the most popular unseen items instead.
//
// User cache keys include the catalog version, the excluded-item set and a
// digest of the profile window, so any new interaction or catalog reload
// yields a new key, even one racing an in-flight computation. RecordInteraction
// additionally invalidates the user's entries, and a catalog reload purges
// the cache.
//
// # Errors
//
// Failures crossing the Engine boundary match one of ErrNotFound,
// ErrInvalidInteraction, ErrUpstreamTimeout or ErrCatalogUnavailable with
// errors.Is. Caller cancellation is returned as context.Canceled.
// Degenerate vectors never surface as errors; they are dropped from ranking.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, store, interactionStore, logger)
//	if err != nil {
//	    return err
//	}
//	engine.SetMetadataSource(catalogDB)
//
//	resp, err := engine.RecommendSimilar(ctx, "tt0111161", 10)
//
// # Thread Safety
//
// The Engine is safe for concurrent use. The Set* methods must be called
// before the engine starts serving.
package recommend
