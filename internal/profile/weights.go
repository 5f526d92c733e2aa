// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package profile

import (
	"fmt"

	"github.com/tomtom215/cinerank/internal/models"
)

// WeightTable sets how strongly each interaction kind pulls the profile.
type WeightTable struct {
	// View is the weight of a view interaction.
	// Default: 0.3.
	View float64 `json:"view" koanf:"view"`

	// Like is the weight of a like interaction.
	// Default: 0.8.
	Like float64 `json:"like" koanf:"like"`

	// Rate is the weight of a rating before rating normalization.
	// Default: 1.0.
	Rate float64 `json:"rate" koanf:"rate"`

	// MaxRating normalizes ratings into (0, 1].
	// Default: 5.0.
	MaxRating float64 `json:"max_rating" koanf:"max_rating"`

	// MinPositiveRating drops ratings below this value from the profile.
	// Such items are still excluded from results. Zero disables the threshold.
	MinPositiveRating float64 `json:"min_positive_rating" koanf:"min_positive_rating"`
}

// DefaultWeights returns the default weight table (rate > like > view).
func DefaultWeights() WeightTable {
	return WeightTable{
		View:      0.3,
		Like:      0.8,
		Rate:      1.0,
		MaxRating: models.MaxRating,
	}
}

// Validate checks the table for unusable values.
func (w WeightTable) Validate() error {
	if w.View < 0 || w.Like < 0 || w.Rate < 0 {
		return fmt.Errorf("weights must be non-negative, got view=%g like=%g rate=%g", w.View, w.Like, w.Rate)
	}
	if w.View == 0 && w.Like == 0 && w.Rate == 0 {
		return fmt.Errorf("at least one interaction weight must be positive")
	}
	if w.MaxRating <= 0 {
		return fmt.Errorf("max_rating must be positive, got %g", w.MaxRating)
	}
	if w.MinPositiveRating < 0 || w.MinPositiveRating > w.MaxRating {
		return fmt.Errorf("min_positive_rating must be in [0, %g], got %g", w.MaxRating, w.MinPositiveRating)
	}
	return nil
}

// KindWeight returns the base weight for a kind.
func (w WeightTable) KindWeight(kind models.InteractionKind) float64 {
	switch kind {
	case models.KindView:
		return w.View
	case models.KindLike:
		return w.Like
	case models.KindRate:
		return w.Rate
	default:
		return 0
	}
}

// Weight returns the contribution weight of one interaction.
// A result of zero means the interaction does not contribute.
func (w WeightTable) Weight(in *models.Interaction) float64 {
	base := w.KindWeight(in.Kind)
	if base <= 0 || !in.HasRating() {
		return base
	}

	rating := in.RatingValue()
	if rating <= 0 {
		return 0
	}
	if w.MinPositiveRating > 0 && rating < w.MinPositiveRating {
		return 0
	}
	if rating > w.MaxRating {
		rating = w.MaxRating
	}
	return base * rating / w.MaxRating
}
