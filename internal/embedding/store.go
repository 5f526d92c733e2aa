// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package embedding

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ReloadListener is notified after every successful reload.
type ReloadListener func(snap *Snapshot)

// Store publishes the current catalog Snapshot. Reads are lock-free;
// reloads are serialized and replace the snapshot wholesale.
type Store struct {
	current atomic.Pointer[Snapshot]
	source  Source
	logger  zerolog.Logger

	reloadMu  sync.Mutex
	listeners []ReloadListener
	now       func() time.Time
}

// NewStore creates an empty store backed by source. Call Reload to populate it.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(source Source, logger zerolog.Logger) *Store {
	s := &Store{
		source: source,
		logger: logger.With().Str("component", "embedding").Logger(),
		now:    time.Now,
	}
	s.current.Store(emptySnapshot)
	return s
}

// OnReload registers a listener called after each successful swap.
func (s *Store) OnReload(fn ReloadListener) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Get returns the embedding for id from the current snapshot.
func (s *Store) Get(id string) ([]float64, error) {
	return s.Snapshot().Get(id)
}

// GetMany looks up ids in the current snapshot.
func (s *Store) GetMany(ids []string) (map[string][]float64, []string) {
	return s.Snapshot().GetMany(ids)
}

// Dimension returns D for the current snapshot.
func (s *Store) Dimension() int {
	return s.Snapshot().Dimension()
}

// All iterates the current snapshot. The iteration is pinned to the
// snapshot that was current when All was called.
func (s *Store) All() iter.Seq2[string, []float64] {
	return s.Snapshot().All()
}

// Reload loads the full catalog from the source and swaps it in.
// On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	if s.source == nil {
		return nil, errors.New("embedding source not configured")
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := s.now()
	cat, err := s.source.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return s.swapLocked(cat, start)
}

// Replace swaps in a catalog supplied directly by the caller.
func (s *Store) Replace(cat *Catalog) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	return s.swapLocked(cat, s.now())
}

func (s *Store) swapLocked(cat *Catalog, start time.Time) (*Snapshot, error) {
	prev := s.current.Load()
	snap, err := NewSnapshot(cat, prev.Version()+1, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	s.current.Store(snap)

	s.logger.Info().
		Uint64("version", snap.Version()).
		Int("items", snap.Len()).
		Int("dimension", snap.Dimension()).
		Dur("duration", s.now().Sub(start)).
		Msg("catalog snapshot published")

	for _, fn := range s.listeners {
		fn(snap)
	}
	return snap, nil
}
