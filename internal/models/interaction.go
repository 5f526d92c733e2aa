// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// InteractionKind classifies what a user did with an item.
// The set is closed: every kind has an entry in the profile weight table.
type InteractionKind int

const (
	// KindView indicates the user opened or watched the item.
	KindView InteractionKind = iota + 1
	// KindLike indicates an explicit thumbs-up.
	KindLike
	// KindRate indicates an explicit star rating; Rating is set.
	KindRate
)

// AllKinds lists every interaction kind in declaration order.
var AllKinds = []InteractionKind{KindView, KindLike, KindRate}

// String returns the wire name of the kind.
func (k InteractionKind) String() string {
	switch k {
	case KindView:
		return "view"
	case KindLike:
		return "like"
	case KindRate:
		return "rate"
	default:
		return "unknown"
	}
}

// Valid reports whether k is one of the declared kinds.
func (k InteractionKind) Valid() bool {
	return k >= KindView && k <= KindRate
}

// ParseInteractionKind converts a wire name into an InteractionKind.
func ParseInteractionKind(s string) (InteractionKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "view":
		return KindView, nil
	case "like":
		return KindLike, nil
	case "rate":
		return KindRate, nil
	default:
		return 0, fmt.Errorf("unknown interaction kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k InteractionKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid interaction kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *InteractionKind) UnmarshalText(text []byte) error {
	parsed, err := ParseInteractionKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Rating bounds accepted for KindRate interactions.
const (
	MinRating  = 0.5
	MaxRating  = 5.0
	RatingStep = 0.5
)

// ValidRating reports whether r lies within [MinRating, MaxRating] on a
// RatingStep boundary.
func ValidRating(r float64) bool {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return false
	}
	steps := r / RatingStep
	return steps == math.Trunc(steps)
}

// Interaction is one entry of a user's append-only interaction log.
type Interaction struct {
	// ID uniquely identifies the record. Assigned when the interaction is stored.
	ID string `json:"id"`

	// UserID is the opaque user identifier.
	UserID string `json:"user_id"`

	// ItemID is the catalog identifier of the item.
	ItemID string `json:"item_id"`

	// Kind is what the user did.
	Kind InteractionKind `json:"kind"`

	// Rating is set only for KindRate.
	Rating *float64 `json:"rating,omitempty"`

	// Timestamp is when the interaction was recorded (UTC).
	Timestamp time.Time `json:"timestamp"`
}

// HasRating reports whether the interaction carries a rating value.
func (i *Interaction) HasRating() bool {
	return i.Rating != nil
}

// RatingValue returns the rating or zero when none is set.
func (i *Interaction) RatingValue() float64 {
	if i.Rating == nil {
		return 0
	}
	return *i.Rating
}

// InteractionFilter narrows an interaction history listing.
type InteractionFilter struct {
	// Kind restricts results to one kind. Zero means all kinds.
	Kind InteractionKind

	// Page is 1-based.
	Page int

	// Limit is the page size.
	Limit int
}

// InteractionPage is one page of a user's interaction history, newest first.
type InteractionPage struct {
	Items      []Interaction `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination describes the position of a page within a listing.
type Pagination struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// NewPagination computes page counts for a listing of total items.
func NewPagination(total, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		TotalItems:  total,
		TotalPages:  pages,
		CurrentPage: page,
		PageSize:    limit,
	}
}
