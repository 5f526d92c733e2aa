// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

/*
Package profile builds a user's taste vector from their recent interactions.

The profile is the weighted mean of the embeddings of the items the user
touched inside the configured window:

	profile = Σ wᵢ·vᵢ / Σ wᵢ
	wᵢ      = kindWeight(kindᵢ) · (ratingᵢ / maxRating)   when a rating is present
	wᵢ      = kindWeight(kindᵢ)                          otherwise

Items without an embedding are skipped, never zero-filled. When nothing usable
remains (no interactions, every item missing, all weights zero, or the mean
cancels to a zero vector) the profile is marked ColdStart. Cold start is a
normal outcome and callers fall back to a non-personalized ranking.

Excluded always holds every item id in the supplied history, including items
that did not contribute to the vector, so already-seen items are never
recommended back.
*/
package profile
