// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package similarity

import (
	"iter"
	"slices"
)

// Scored is a ranked (item id, score) pair.
type Scored struct {
	ItemID string  `json:"item_id"`
	Score  float64 `json:"score"`
}

// Result is the outcome of a ranking pass.
type Result struct {
	// Items is ordered by descending score, ties by ascending item id.
	Items []Scored

	// Scanned counts candidates read from the sequence.
	Scanned int

	// Excluded counts candidates skipped because they were in the exclude set.
	Excluded int

	// Degenerate counts candidates dropped for zero norm or dimension mismatch.
	Degenerate int

	// QueryDegenerate is true when the query itself could not be scored.
	// Items is empty in that case.
	QueryDegenerate bool
}

// ranksBefore reports whether a is ordered ahead of b.
func ranksBefore(a, b Scored) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.ItemID < b.ItemID
}

// RankTopK scores every candidate against query and returns at most k of the
// best, skipping ids in exclude and degenerate candidates.
func RankTopK(query []float64, candidates iter.Seq2[string, []float64], k int, exclude map[string]struct{}) Result {
	var res Result
	if k <= 0 {
		return res
	}

	if IsDegenerate(query) {
		res.QueryDegenerate = true
		return res
	}
	qq := SquaredNorm(query)

	h := newBoundedHeap(k)
	for id, vec := range candidates {
		res.Scanned++
		if _, skip := exclude[id]; skip {
			res.Excluded++
			continue
		}

		s, err := scoreWithNorm(query, qq, vec)
		if err != nil {
			res.Degenerate++
			continue
		}
		h.offer(Scored{ItemID: id, Score: s})
	}

	res.Items = h.sorted()
	return res
}

// boundedHeap keeps the k best entries seen so far. The root is the entry
// that ranks last, so a new candidate only has to beat the root.
type boundedHeap struct {
	items []Scored
	limit int
}

func newBoundedHeap(limit int) *boundedHeap {
	size := limit
	if size > 1024 {
		size = 1024
	}
	return &boundedHeap{items: make([]Scored, 0, size), limit: limit}
}

func (h *boundedHeap) offer(s Scored) {
	if len(h.items) < h.limit {
		h.items = append(h.items, s)
		h.bubbleUp(len(h.items) - 1)
		return
	}
	if !ranksBefore(s, h.items[0]) {
		return
	}
	h.items[0] = s
	h.bubbleDown(0)
}

// sorted drains the heap into ranking order.
func (h *boundedHeap) sorted() []Scored {
	out := slices.Clone(h.items)
	slices.SortFunc(out, func(a, b Scored) int {
		switch {
		case ranksBefore(a, b):
			return -1
		case ranksBefore(b, a):
			return 1
		}
		return 0
	})
	return out
}

// worse reports whether items[i] should sit above items[j] (closer to the root).
func (h *boundedHeap) worse(i, j int) bool {
	return ranksBefore(h.items[j], h.items[i])
}

func (h *boundedHeap) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.worse(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *boundedHeap) bubbleDown(i int) {
	n := len(h.items)
	for {
		worst := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && h.worse(left, worst) {
			worst = left
		}
		if right < n && h.worse(right, worst) {
			worst = right
		}
		if worst == i {
			return
		}
		h.items[i], h.items[worst] = h.items[worst], h.items[i]
		i = worst
	}
}
