// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package cache memoizes ranked recommendation results.

RecommendationCache is a generic TTL cache with an LRU size bound that also
deduplicates concurrent computations: for any key, at most one compute
function runs at a time and every concurrent caller receives its result.

# Overview

The cache provides:
  - Per-key single-flight computation (concurrent misses share one compute)
  - Time-to-live freshness with an injectable clock
  - Least-recently-used eviction above MaxEntries
  - Invalidation by key, by prefix or by predicate, including in-flight work
  - Hit, miss, join and eviction counters for the stats endpoint

# Usage Example

	c := cache.NewRecommendationCache[*recommend.Response](cache.Options{
	    MaxEntries: 10000,
	})

	key := cache.Key(cache.KindItem, itemID, k, cache.Fingerprint(version, nil))
	resp, outcome, err := c.GetOrCompute(ctx, key, 24*time.Hour,
	    func(ctx context.Context) (*recommend.Response, error) {
	        return rank(ctx, itemID, k)
	    })

# Cancellation

The compute function runs on its own goroutine with a context detached from
the caller that started it. A caller whose context ends stops waiting and
receives ctx.Err(); the computation continues and its result is stored for
the remaining waiters and later callers. Options.ComputeTimeout bounds a
detached computation.

# Freshness

An entry created at t0 with TTL d is served for now < t0+d. At exactly
t0+d it is stale and the next caller recomputes it. Stale entries are also
dropped by CleanupExpired, which the cache janitor service calls periodically.

Failed computations are never stored: every waiter of the failed call gets
the error, and the next caller starts a new computation.

# Cache Key Conventions

	rec:<kind>:<len(subject)>:<subject>:k<k>:<fingerprint>

	rec:item:3:m42:k10:3f2a...      item-to-item results for m42
	rec:user:5:alice:k10:9c01...    personalized results for alice

The fingerprint hashes the catalog version and the sorted excluded-item set.
UserFingerprint also hashes an ordered digest of the interactions behind the
profile, so a catalog reload or any new interaction yields a new key.
SubjectPrefix(kind, subject) matches every key of one subject and is used to
invalidate a user's entries when an interaction is recorded.

# Thread Safety

All RecommendationCache methods are safe for concurrent use. Counters are
atomics; the entry list and in-flight map share one mutex.
*/
package cache
