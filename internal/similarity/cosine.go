// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package similarity

import (
	"errors"
	"math"
)

// ErrDegenerateVector marks a zero-norm or otherwise unscorable vector.
// It is handled inside ranking and never returned to API callers.
var ErrDegenerateVector = errors.New("degenerate vector")

// NegInf is the score assigned to degenerate pairs.
var NegInf = math.Inf(-1)

// minNormal is the smallest positive normal float64. Squared norms and
// their product below it have lost precision to underflow.
const minNormal = 0x1p-1022

// SquaredNorm returns the sum of squares of v.
func SquaredNorm(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return sum
}

// IsDegenerate reports whether v cannot be scored: it is empty, all zero,
// or has a NaN or infinite component.
func IsDegenerate(v []float64) bool {
	_, ok := scaleExp(v)
	return !ok
}

// scaleExp returns e such that every |v[i]| * 2^-e is below 1, with the
// largest at least 0.5. ok is false when v is degenerate.
func scaleExp(v []float64) (e int, ok bool) {
	var m float64
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	if m == 0 {
		return 0, false
	}
	_, e = math.Frexp(m)
	return e, true
}

// inRange reports whether a squared norm or norm product can be used
// directly without overflow or underflow.
func inRange(x float64) bool {
	return x >= minNormal && !math.IsInf(x, 0)
}

// Score returns the cosine similarity of query and candidate in [-1, 1],
// or NegInf when the pair is degenerate.
func Score(query, candidate []float64) float64 {
	s, err := scoreWithNorm(query, SquaredNorm(query), candidate)
	if err != nil {
		return NegInf
	}
	return s
}

// scoreWithNorm scores candidate against a query whose squared norm is
// already known. The candidate's norm accumulates in the same loop order as
// SquaredNorm, which keeps Score exactly symmetric.
func scoreWithNorm(query []float64, qq float64, candidate []float64) (float64, error) {
	if len(query) != len(candidate) || len(query) == 0 {
		return NegInf, ErrDegenerateVector
	}

	var dot, cc float64
	for i := range query {
		dot += query[i] * candidate[i]
		cc += candidate[i] * candidate[i]
	}

	if !inRange(qq) || !inRange(cc) || !inRange(qq*cc) || math.IsInf(dot, 0) {
		return scoreScaled(query, candidate)
	}
	return clampScore(dot / math.Sqrt(qq*cc))
}

// scoreScaled handles finite vectors whose magnitudes overflow or underflow
// the direct formula. Each vector is scaled by a power of two, which is
// exact, so the result matches the direct formula wherever both apply.
func scoreScaled(query, candidate []float64) (float64, error) {
	eq, ok := scaleExp(query)
	if !ok {
		return NegInf, ErrDegenerateVector
	}
	ec, ok := scaleExp(candidate)
	if !ok {
		return NegInf, ErrDegenerateVector
	}

	var dot, qq, cc float64
	for i := range query {
		q := math.Ldexp(query[i], -eq)
		c := math.Ldexp(candidate[i], -ec)
		dot += q * c
		qq += q * q
		cc += c * c
	}
	return clampScore(dot / math.Sqrt(qq*cc))
}

func clampScore(s float64) (float64, error) {
	switch {
	case math.IsNaN(s) || math.IsInf(s, 0):
		return NegInf, ErrDegenerateVector
	case s > 1:
		return 1, nil
	case s < -1:
		return -1, nil
	}
	return s, nil
}
