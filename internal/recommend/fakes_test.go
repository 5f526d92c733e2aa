// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/models"
)

// memInteractions is an in-memory InteractionStore.
type memInteractions struct {
	mu     sync.Mutex
	byUser map[string][]models.Interaction // oldest first

	fetchErr  error
	blockNext bool // FetchRecent waits for ctx when set

	// afterFetch runs once FetchRecent has read the history, before it returns.
	afterFetch func()

	fetches atomic.Int32
	appends atomic.Int32
	lists   atomic.Int32

	lastFilter models.InteractionFilter
}

func newMemInteractions() *memInteractions {
	return &memInteractions{byUser: make(map[string][]models.Interaction)}
}

func (m *memInteractions) FetchRecent(ctx context.Context, userID string, limit int) ([]models.Interaction, error) {
	m.fetches.Add(1)

	m.mu.Lock()
	block, err := m.blockNext, m.fetchErr
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	all := m.byUser[userID]
	out := make([]models.Interaction, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	hook := m.afterFetch
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (m *memInteractions) InteractedItems(ctx context.Context, userID string, limit int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.byUser[userID]
	seen := make(map[string]struct{})
	var ids []string
	for i, n := len(all)-1, 0; i >= 0 && n < limit; i, n = i-1, n+1 {
		if _, dup := seen[all[i].ItemID]; dup {
			continue
		}
		seen[all[i].ItemID] = struct{}{}
		ids = append(ids, all[i].ItemID)
	}
	return ids, nil
}

func (m *memInteractions) Append(ctx context.Context, in *models.Interaction) error {
	m.appends.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[in.UserID] = append(m.byUser[in.UserID], *in)
	return nil
}

func (m *memInteractions) List(ctx context.Context, userID string, filter models.InteractionFilter) (*models.InteractionPage, error) {
	m.lists.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter

	all := slices.Clone(m.byUser[userID])
	slices.Reverse(all)
	return &models.InteractionPage{
		Items:      all,
		Pagination: models.NewPagination(len(all), filter.Page, filter.Limit),
	}, nil
}

func (m *memInteractions) set(userID string, history ...models.Interaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[userID] = history
}

// staticMetadata is a MetadataSource backed by a map.
type staticMetadata struct {
	items map[string]models.ItemMetadata
	err   error
	calls atomic.Int32
}

func (s *staticMetadata) FetchMetadata(ctx context.Context, ids []string) (map[string]models.ItemMetadata, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]models.ItemMetadata, len(ids))
	for _, id := range ids {
		if m, ok := s.items[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

// popularList is a FallbackProvider returning a fixed order.
type popularList struct {
	ids []string
}

func (p *popularList) Popular(ctx context.Context, k int, exclude map[string]struct{}) ([]string, error) {
	out := make([]string, 0, k)
	for _, id := range p.ids {
		if _, ok := exclude[id]; ok {
			continue
		}
		out = append(out, id)
		if len(out) == k {
			break
		}
	}
	return out, nil
}

// recordingNotifier captures interaction notifications.
type recordingNotifier struct {
	mu   sync.Mutex
	seen []models.Interaction
}

func (r *recordingNotifier) InteractionRecorded(ctx context.Context, in *models.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, *in)
	return nil
}

// scenarioCatalog is {A:[1,0], B:[0,1], C:[1,1]}.
func scenarioCatalog() *embedding.Catalog {
	return &embedding.Catalog{
		Dimension: 2,
		Items: []embedding.Item{
			{ID: "A", Vector: []float64{1, 0}},
			{ID: "B", Vector: []float64{0, 1}},
			{ID: "C", Vector: []float64{1, 1}},
		},
	}
}

func newTestEngine(t *testing.T, cfg *Config, cat *embedding.Catalog) (*Engine, *memInteractions) {
	t.Helper()

	store := embedding.NewStore(embedding.SourceFunc(func(context.Context) (*embedding.Catalog, error) {
		return cat, nil
	}), zerolog.Nop())
	if cat != nil {
		if _, err := store.Replace(cat); err != nil {
			t.Fatalf("Replace() error = %v", err)
		}
	}

	interactions := newMemInteractions()
	e, err := NewEngine(cfg, store, interactions, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e, interactions
}

func rated(userID, itemID string, rating float64) models.Interaction {
	return models.Interaction{UserID: userID, ItemID: itemID, Kind: models.KindRate, Rating: &rating}
}

func itemIDs(items []ScoredItem) []string {
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ItemID
	}
	return ids
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}
