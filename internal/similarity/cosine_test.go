// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package similarity

import (
	"math"
	"math/rand"
	"testing"
)

func randomVector(rng *rand.Rand, dim int) []float64 {
	v := make([]float64, dim)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	return v
}

func TestScore_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical axis", []float64{1, 0}, []float64{1, 0}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"diagonal", []float64{1, 0}, []float64{1, 1}, 1 / math.Sqrt2},
		{"scaled", []float64{3, 4}, []float64{6, 8}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Score(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestScore_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"zero query", []float64{0, 0}, []float64{1, 1}},
		{"zero candidate", []float64{1, 1}, []float64{0, 0}},
		{"both zero", []float64{0, 0}, []float64{0, 0}},
		{"dimension mismatch", []float64{1, 0}, []float64{1, 0, 0}},
		{"empty", nil, nil},
		{"nan component", []float64{math.NaN(), 1}, []float64{1, 1}},
		{"inf component", []float64{1, 1}, []float64{math.Inf(1), 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.a, tt.b)
			if !math.IsInf(got, -1) {
				t.Errorf("Score(%v, %v) = %v, want -Inf", tt.a, tt.b, got)
			}
		})
	}
}

func TestScore_ExtremeMagnitudes(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"huge diagonal", []float64{1e200, 0}, []float64{1e200, 1e200}, 1 / math.Sqrt2},
		{"huge against unit", []float64{1e200, 0}, []float64{1, 0}, 1},
		{"tiny orthogonal", []float64{1e-170, 0}, []float64{0, 1e-170}, 0},
		{"tiny against huge", []float64{1e-170, 1e-170}, []float64{1e200, 1e200}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab, ba := Score(tt.a, tt.b), Score(tt.b, tt.a)
			if math.Abs(ab-tt.want) > 1e-12 {
				t.Errorf("Score(%v, %v) = %v, want %v", tt.a, tt.b, ab, tt.want)
			}
			if ab != ba {
				t.Errorf("not symmetric: %v vs %v", ab, ba)
			}
		})
	}
}

func TestScore_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		dim := 1 + rng.Intn(64)
		a := randomVector(rng, dim)
		b := randomVector(rng, dim)

		ab := Score(a, b)
		ba := Score(b, a)
		if ab != ba {
			t.Fatalf("Score not symmetric: %v vs %v (dim %d)", ab, ba, dim)
		}
		if ab < -1 || ab > 1 {
			t.Fatalf("Score out of range: %v", ab)
		}
	}
}

func TestScore_SelfIsOne(t *testing.T) {
	fixed := [][]float64{
		{1, 1}, {3, 4}, {0.1, 0.2, 0.3}, {-2, 5, 1e-3},
		{1e200, 0}, {3e160, 4e160}, {1e-170, 0}, {5e-324, 0}, {math.MaxFloat64, math.MaxFloat64},
	}
	for _, v := range fixed {
		if got := Score(v, v); got != 1 {
			t.Errorf("Score(%v, %v) = %v, want exactly 1", v, v, got)
		}
	}

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 500; i++ {
		v := randomVector(rng, 1+rng.Intn(128))
		if got := Score(v, v); got != 1 {
			t.Fatalf("Score(v, v) = %v, want exactly 1", got)
		}
	}
}

func TestScore_BitReproducible(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomVector(rng, 384)
	b := randomVector(rng, 384)

	first := Score(a, b)
	for i := 0; i < 100; i++ {
		if got := Score(a, b); math.Float64bits(got) != math.Float64bits(first) {
			t.Fatalf("run %d: %v != %v", i, got, first)
		}
	}
}

func TestIsDegenerate(t *testing.T) {
	if !IsDegenerate([]float64{0, 0, 0}) {
		t.Error("zero vector should be degenerate")
	}
	if !IsDegenerate(nil) {
		t.Error("empty vector should be degenerate")
	}
	if IsDegenerate([]float64{0, 1e-9}) {
		t.Error("small non-zero vector should not be degenerate")
	}
	if IsDegenerate([]float64{1e200, 0}) {
		t.Error("huge finite vector should not be degenerate")
	}
	if !IsDegenerate([]float64{math.Inf(1), 0}) {
		t.Error("infinite component should be degenerate")
	}
}
