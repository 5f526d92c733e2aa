// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package similarity scores embeddings with cosine similarity and selects the
top K candidates.

# Scoring

	score(q, c) = dot(q, c) / sqrt(|q|² · |c|²)

All arithmetic is float64 and accumulates in index order, so identical inputs
always produce bit-identical scores. Score is exactly symmetric, and
Score(a, a) == 1 for any non-zero a. When either vector has zero norm (or the
dimensions differ, or the result is NaN) the score is negative infinity: the
pair sorts after every real score and RankTopK drops it from the result.

# Ranking

RankTopK keeps a bounded min-heap of size k whose root is the weakest kept
candidate, so a full catalog scan costs O(N log k) and never sorts the whole
catalog. Results are ordered by descending score with ties broken by
ascending item id, which makes the order a total order and the output
deterministic regardless of candidate iteration order.
*/
package similarity
