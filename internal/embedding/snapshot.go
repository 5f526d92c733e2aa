// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package embedding

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"time"
)

// ErrNotFound is returned when an item has no embedding in the catalog.
var ErrNotFound = errors.New("embedding not found")

// ErrEmptyCatalog is returned when a source yields no items.
var ErrEmptyCatalog = errors.New("catalog contains no items")

// ErrInvalidCatalog wraps every validation failure of a loaded catalog.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Item is one catalog entry as delivered by a Source.
type Item struct {
	ID     string    `json:"id"`
	Vector []float64 `json:"vector"`
}

// Catalog is the result of a bulk load.
type Catalog struct {
	// Dimension is the length of every vector. Zero means infer from the first item.
	Dimension int    `json:"dimension"`
	Items     []Item `json:"items"`
}

// Snapshot is an immutable view of the catalog at one version.
// Vectors returned from a Snapshot are shared and must not be modified.
type Snapshot struct {
	vectors   map[string][]float64
	ids       []string // sorted ascending
	dimension int
	version   uint64
	loadedAt  time.Time
}

// emptySnapshot is published before the first successful load.
var emptySnapshot = &Snapshot{vectors: map[string][]float64{}}

// NewSnapshot validates a catalog and builds a snapshot from it.
// Every vector must have the same dimension and only finite components, and
// ids must be unique and non-empty.
func NewSnapshot(cat *Catalog, version uint64, loadedAt time.Time) (*Snapshot, error) {
	if cat == nil || len(cat.Items) == 0 {
		return nil, ErrEmptyCatalog
	}

	dim := cat.Dimension
	if dim == 0 {
		dim = len(cat.Items[0].Vector)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid embedding dimension %d", dim)
	}

	vectors := make(map[string][]float64, len(cat.Items))
	ids := make([]string, 0, len(cat.Items))
	for i, item := range cat.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("item %d has an empty id", i)
		}
		if len(item.Vector) != dim {
			return nil, fmt.Errorf("item %q has dimension %d, want %d", item.ID, len(item.Vector), dim)
		}
		for j, x := range item.Vector {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				return nil, fmt.Errorf("item %q component %d is not finite", item.ID, j)
			}
		}
		if _, dup := vectors[item.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", item.ID)
		}
		vectors[item.ID] = slices.Clone(item.Vector)
		ids = append(ids, item.ID)
	}
	slices.Sort(ids)

	return &Snapshot{
		vectors:   vectors,
		ids:       ids,
		dimension: dim,
		version:   version,
		loadedAt:  loadedAt,
	}, nil
}

// Get returns the embedding for id or ErrNotFound.
func (s *Snapshot) Get(id string) ([]float64, error) {
	v, ok := s.vectors[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// Has reports whether id has an embedding.
func (s *Snapshot) Has(id string) bool {
	_, ok := s.vectors[id]
	return ok
}

// GetMany returns the embeddings that exist and the ids that do not, in input order.
func (s *Snapshot) GetMany(ids []string) (found map[string][]float64, missing []string) {
	found = make(map[string][]float64, len(ids))
	for _, id := range ids {
		if v, ok := s.vectors[id]; ok {
			found[id] = v
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing
}

// All yields every (id, vector) pair in ascending id order.
func (s *Snapshot) All() iter.Seq2[string, []float64] {
	return func(yield func(string, []float64) bool) {
		for _, id := range s.ids {
			if !yield(id, s.vectors[id]) {
				return
			}
		}
	}
}

// IDs returns the sorted item ids. The slice is shared and must not be modified.
func (s *Snapshot) IDs() []string { return s.ids }

// Dimension returns the vector length D, or 0 for an empty snapshot.
func (s *Snapshot) Dimension() int { return s.dimension }

// Len returns the number of items.
func (s *Snapshot) Len() int { return len(s.ids) }

// Version is incremented on every successful reload. Zero means nothing is loaded.
func (s *Snapshot) Version() uint64 { return s.version }

// LoadedAt returns when the snapshot was built.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }
