// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package profile

import (
	"fmt"
	"slices"
	"time"

	"github.com/tomtom215/cinerank/internal/models"
	"github.com/tomtom215/cinerank/internal/similarity"
)

// Lookup resolves item embeddings. *embedding.Snapshot implements it.
type Lookup interface {
	Get(id string) ([]float64, error)
	Dimension() int
}

// Config controls the interaction window.
type Config struct {
	// Window is the maximum number of most recent interactions used.
	// Default: 50.
	Window int `json:"window" koanf:"window"`

	// MaxAge drops interactions older than this from the profile. Zero disables.
	MaxAge time.Duration `json:"max_age" koanf:"max_age"`

	// Weights is the interaction weight table.
	Weights WeightTable `json:"weights" koanf:"weights"`
}

// DefaultConfig returns the default aggregation settings.
func DefaultConfig() Config {
	return Config{
		Window:  50,
		Weights: DefaultWeights(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Window < 1 {
		return fmt.Errorf("window must be positive, got %d", c.Window)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("max_age must be non-negative, got %v", c.MaxAge)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}

// Profile is the derived taste vector of one user. It is never mutated after Build.
type Profile struct {
	UserID string

	// Vector is the weighted mean embedding. Nil when ColdStart is set.
	Vector []float64

	// ColdStart is true when no usable interaction contributed.
	ColdStart bool

	// Excluded holds every item id in the supplied history.
	Excluded map[string]struct{}

	// Contributors lists the item ids that contributed, in history order.
	Contributors []string

	// Missing counts window interactions whose item had no embedding.
	Missing int
}

// ExcludedIDs returns the excluded set as a sorted slice.
func (p *Profile) ExcludedIDs() []string {
	ids := make([]string, 0, len(p.Excluded))
	for id := range p.Excluded {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Aggregator builds profiles. It holds no per-user state and is safe for concurrent use.
type Aggregator struct {
	cfg Config
	now func() time.Time
}

// NewAggregator validates cfg and returns an Aggregator.
func NewAggregator(cfg Config) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile config: %w", err)
	}
	return &Aggregator{cfg: cfg, now: time.Now}, nil
}

// SetClock overrides the time source used for MaxAge.
func (a *Aggregator) SetClock(now func() time.Time) {
	a.now = now
}

// Window returns the configured interaction window.
func (a *Aggregator) Window() int {
	return a.cfg.Window
}

// Build derives the profile of userID from history, ordered newest first.
func (a *Aggregator) Build(userID string, history []models.Interaction, lookup Lookup) *Profile {
	p := &Profile{
		UserID:   userID,
		Excluded: make(map[string]struct{}, len(history)),
	}
	for i := range history {
		p.Excluded[history[i].ItemID] = struct{}{}
	}

	window := history
	if len(window) > a.cfg.Window {
		window = window[:a.cfg.Window]
	}

	var cutoff time.Time
	if a.cfg.MaxAge > 0 {
		cutoff = a.now().Add(-a.cfg.MaxAge)
	}

	dim := lookup.Dimension()
	sum := make([]float64, dim)
	var total float64

	for i := range window {
		in := &window[i]
		if !cutoff.IsZero() && in.Timestamp.Before(cutoff) {
			continue
		}

		w := a.cfg.Weights.Weight(in)
		if w <= 0 {
			continue
		}

		vec, err := lookup.Get(in.ItemID)
		if err != nil || len(vec) != dim {
			p.Missing++
			continue
		}

		for j, x := range vec {
			sum[j] += w * x
		}
		total += w
		p.Contributors = append(p.Contributors, in.ItemID)
	}

	if total == 0 || dim == 0 {
		p.ColdStart = true
		return p
	}

	for j := range sum {
		sum[j] /= total
	}
	if similarity.IsDegenerate(sum) {
		p.ColdStart = true
		return p
	}

	p.Vector = sum
	return p
}
