// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package profile

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/models"
)

var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testSnapshot(t *testing.T) *embedding.Snapshot {
	t.Helper()
	snap, err := embedding.NewSnapshot(&embedding.Catalog{
		Dimension: 2,
		Items: []embedding.Item{
			{ID: "A", Vector: []float64{1, 0}},
			{ID: "B", Vector: []float64{0, 1}},
			{ID: "C", Vector: []float64{1, 1}},
			{ID: "N", Vector: []float64{-1, 0}},
		},
	}, 1, baseTime)
	if err != nil {
		t.Fatalf("NewSnapshot() error = %v", err)
	}
	return snap
}

func rating(v float64) *float64 { return &v }

func interaction(item string, kind models.InteractionKind, r *float64, age time.Duration) models.Interaction {
	return models.Interaction{
		UserID:    "U",
		ItemID:    item,
		Kind:      kind,
		Rating:    r,
		Timestamp: baseTime.Add(-age),
	}
}

func newTestAggregator(t *testing.T, cfg Config) *Aggregator {
	t.Helper()
	agg, err := NewAggregator(cfg)
	if err != nil {
		t.Fatalf("NewAggregator() error = %v", err)
	}
	agg.SetClock(func() time.Time { return baseTime })
	return agg
}

func TestBuild_SingleRating(t *testing.T) {
	agg := newTestAggregator(t, DefaultConfig())
	p := agg.Build("U", []models.Interaction{interaction("A", models.KindRate, rating(5), 0)}, testSnapshot(t))

	if p.ColdStart {
		t.Fatal("unexpected cold start")
	}
	if p.Vector[0] != 1 || p.Vector[1] != 0 {
		t.Errorf("Vector = %v, want [1 0]", p.Vector)
	}
	if _, ok := p.Excluded["A"]; !ok {
		t.Error("A not excluded")
	}
}

func TestBuild_WeightedMean(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = WeightTable{View: 1, Like: 3, Rate: 1, MaxRating: 5}
	agg := newTestAggregator(t, cfg)

	history := []models.Interaction{
		interaction("A", models.KindLike, nil, time.Minute),
		interaction("B", models.KindView, nil, 2*time.Minute),
	}
	p := agg.Build("U", history, testSnapshot(t))

	// (3*[1,0] + 1*[0,1]) / 4
	want := []float64{0.75, 0.25}
	for i := range want {
		if math.Abs(p.Vector[i]-want[i]) > 1e-12 {
			t.Errorf("Vector[%d] = %v, want %v", i, p.Vector[i], want[i])
		}
	}
	if len(p.Contributors) != 2 {
		t.Errorf("Contributors = %v", p.Contributors)
	}
}

func TestBuild_RatingScalesWeight(t *testing.T) {
	agg := newTestAggregator(t, DefaultConfig())

	// rate 5 on A (w=1.0), rate 1 on B (w=0.2)
	history := []models.Interaction{
		interaction("A", models.KindRate, rating(5), 0),
		interaction("B", models.KindRate, rating(1), 0),
	}
	p := agg.Build("U", history, testSnapshot(t))

	if p.Vector[0] <= p.Vector[1] {
		t.Errorf("higher rating should dominate: %v", p.Vector)
	}
	if math.Abs(p.Vector[0]-1.0/1.2) > 1e-12 {
		t.Errorf("Vector[0] = %v, want %v", p.Vector[0], 1.0/1.2)
	}
}

func TestBuild_ColdStart(t *testing.T) {
	snap := testSnapshot(t)

	tests := []struct {
		name     string
		cfg      func() Config
		history  []models.Interaction
		excluded int
	}{
		{
			name:    "no interactions",
			history: nil,
		},
		{
			name:     "all items missing embeddings",
			history:  []models.Interaction{interaction("X", models.KindLike, nil, 0), interaction("Y", models.KindView, nil, 0)},
			excluded: 2,
		},
		{
			name:     "vectors cancel out",
			history:  []models.Interaction{interaction("A", models.KindLike, nil, 0), interaction("N", models.KindLike, nil, 0)},
			excluded: 2,
		},
		{
			name: "below positive rating threshold",
			cfg: func() Config {
				c := DefaultConfig()
				c.Weights.MinPositiveRating = 4
				return c
			},
			history:  []models.Interaction{interaction("A", models.KindRate, rating(2.5), 0)},
			excluded: 1,
		},
		{
			name: "older than max age",
			cfg: func() Config {
				c := DefaultConfig()
				c.MaxAge = time.Hour
				return c
			},
			history:  []models.Interaction{interaction("A", models.KindLike, nil, 2*time.Hour)},
			excluded: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.cfg != nil {
				cfg = tt.cfg()
			}
			p := newTestAggregator(t, cfg).Build("U", tt.history, snap)
			if !p.ColdStart {
				t.Errorf("ColdStart = false, vector %v", p.Vector)
			}
			if p.Vector != nil {
				t.Errorf("Vector = %v, want nil", p.Vector)
			}
			if len(p.Excluded) != tt.excluded {
				t.Errorf("Excluded = %d ids, want %d", len(p.Excluded), tt.excluded)
			}
		})
	}
}

func TestBuild_MissingEmbeddingsSkipped(t *testing.T) {
	agg := newTestAggregator(t, DefaultConfig())
	history := []models.Interaction{
		interaction("X", models.KindRate, rating(5), 0),
		interaction("A", models.KindRate, rating(5), 0),
	}
	p := agg.Build("U", history, testSnapshot(t))

	if p.ColdStart {
		t.Fatal("unexpected cold start")
	}
	if p.Missing != 1 {
		t.Errorf("Missing = %d, want 1", p.Missing)
	}
	if p.Vector[0] != 1 || p.Vector[1] != 0 {
		t.Errorf("missing item leaked into vector: %v", p.Vector)
	}
	if got := p.ExcludedIDs(); len(got) != 2 || got[0] != "A" || got[1] != "X" {
		t.Errorf("ExcludedIDs() = %v, want [A X]", got)
	}
}

func TestBuild_WindowLimitsContributors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window = 1
	agg := newTestAggregator(t, cfg)

	history := []models.Interaction{
		interaction("B", models.KindLike, nil, 0),
		interaction("A", models.KindLike, nil, time.Hour),
	}
	p := agg.Build("U", history, testSnapshot(t))

	if len(p.Contributors) != 1 || p.Contributors[0] != "B" {
		t.Errorf("Contributors = %v, want [B]", p.Contributors)
	}
	if len(p.Excluded) != 2 {
		t.Errorf("Excluded = %d, want 2 (whole history)", len(p.Excluded))
	}
}

func TestWeightTable(t *testing.T) {
	w := DefaultWeights()

	t.Run("kind ordering", func(t *testing.T) {
		if !(w.Rate > w.Like && w.Like > w.View) {
			t.Errorf("want rate > like > view, got %+v", w)
		}
	})

	t.Run("weight values", func(t *testing.T) {
		tests := []struct {
			name string
			in   models.Interaction
			want float64
		}{
			{"view", interaction("A", models.KindView, nil, 0), 0.3},
			{"like", interaction("A", models.KindLike, nil, 0), 0.8},
			{"rate full", interaction("A", models.KindRate, rating(5), 0), 1.0},
			{"rate half", interaction("A", models.KindRate, rating(2.5), 0), 0.5},
			{"rate over max clamps", interaction("A", models.KindRate, rating(7), 0), 1.0},
			{"unknown kind", interaction("A", models.InteractionKind(9), nil, 0), 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if got := w.Weight(&tt.in); math.Abs(got-tt.want) > 1e-12 {
					t.Errorf("Weight() = %v, want %v", got, tt.want)
				}
			})
		}
	})

	t.Run("validate", func(t *testing.T) {
		bad := []WeightTable{
			{View: -1, Like: 1, Rate: 1, MaxRating: 5},
			{MaxRating: 5},
			{View: 1, MaxRating: 0},
			{View: 1, MaxRating: 5, MinPositiveRating: 6},
		}
		for i, b := range bad {
			if err := b.Validate(); err == nil {
				t.Errorf("case %d: expected error", i)
			}
		}
		if err := w.Validate(); err != nil {
			t.Errorf("default weights invalid: %v", err)
		}
	})
}

func TestNewAggregator_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window = 0
	if _, err := NewAggregator(cfg); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestBuild_LowRatingsCountByDefault(t *testing.T) {
	history := []models.Interaction{interaction("A", models.KindRate, rating(1.5), 0)}

	p := newTestAggregator(t, DefaultConfig()).Build("U", history, testSnapshot(t))
	if p.ColdStart {
		t.Fatal("a single low rating should still build a profile with the default threshold")
	}

	cfg := DefaultConfig()
	cfg.Weights.MinPositiveRating = 4
	p = newTestAggregator(t, cfg).Build("U", history, testSnapshot(t))
	if !p.ColdStart {
		t.Error("rating below min_positive_rating contributed to the profile")
	}
	if _, ok := p.Excluded["A"]; !ok {
		t.Error("item rated below the threshold is not excluded")
	}
}
