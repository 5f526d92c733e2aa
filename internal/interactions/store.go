// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package interactions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/metrics"
	"github.com/tomtom215/cinerank/internal/models"
)

// Errors
var (
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("interaction store is closed")

	// ErrInvalidRecord means the interaction cannot be keyed.
	ErrInvalidRecord = errors.New("invalid interaction record")
)

// Key layout:
//
//	ix:<userID> 0x00 <inverted unix nanos, 16 hex digits> 0x00 <interaction id>
//
// Inverting the timestamp makes a forward prefix scan return a user's
// history newest first.
const (
	keyPrefix = "ix:"
	keySep    = "\x00"

	// ctxCheckEvery is how many keys are scanned between context checks.
	ctxCheckEvery = 256

	table = "interactions"
)

// Stats contains store counters.
type Stats struct {
	Appends    int64     `json:"appends"`
	Reads      int64     `json:"reads"`
	GCRuns     int64     `json:"gc_runs"`
	LastGC     time.Time `json:"last_gc"`
	DBSizeLSM  int64     `json:"db_size_lsm_bytes"`
	DBSizeVlog int64     `json:"db_size_vlog_bytes"`
}

// Store is an append-only, per-user interaction log on BadgerDB.
// It is safe for concurrent use.
type Store struct {
	db     *badger.DB
	config Config
	logger zerolog.Logger

	appends atomic.Int64
	reads   atomic.Int64
	gcRuns  atomic.Int64

	mu     sync.RWMutex
	closed bool
	lastGC time.Time
}

// Open validates cfg and opens (or creates) the BadgerDB database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg *Config, logger zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites && !cfg.InMemory
	opts.MemTableSize = cfg.MemTableSize
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.NumCompactors = cfg.NumCompactors
	if cfg.Compression {
		opts.Compression = options.Snappy
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		config: *cfg,
		logger: logger.With().Str("component", "interactions").Logger(),
		lastGC: time.Now(),
	}

	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", opts.SyncWrites).
		Msg("interaction store opened")
	return s, nil
}

// Append stores one interaction. ID, UserID and ItemID must be set.
func (s *Store) Append(ctx context.Context, in *models.Interaction) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("append", table, time.Since(start), err) }()

	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if in == nil || in.ID == "" || in.ItemID == "" || !validUserID(in.UserID) {
		return ErrInvalidRecord
	}

	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}

	key := recordKey(in.UserID, in.Timestamp, in.ID)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}); err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}

	s.appends.Add(1)
	return nil
}

// FetchRecent returns up to limit of the user's most recent interactions,
// newest first. An unknown user has an empty history.
func (s *Store) FetchRecent(ctx context.Context, userID string, limit int) (out []models.Interaction, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("fetch_recent", table, time.Since(start), err) }()

	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || !validUserID(userID) {
		return nil, nil
	}
	s.reads.Add(1)

	out = make([]models.Interaction, 0, min(limit, 64))
	err = s.db.View(func(txn *badger.Txn) error {
		prefix := userPrefix(userID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = min(limit, 100)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(out) < limit; it.Next() {
			if len(out)%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var in models.Interaction
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &in)
			}); err != nil {
				return fmt.Errorf("decode interaction: %w", err)
			}
			out = append(out, in)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// itemRef is the part of a stored interaction InteractedItems decodes.
type itemRef struct {
	ItemID string `json:"item_id"`
}

// InteractedItems returns the distinct item ids among the user's limit most
// recent interactions, newest first.
func (s *Store) InteractedItems(ctx context.Context, userID string, limit int) (ids []string, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("interacted_items", table, time.Since(start), err) }()

	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 || !validUserID(userID) {
		return nil, nil
	}
	s.reads.Add(1)

	seen := make(map[string]struct{}, min(limit, 256))
	err = s.db.View(func(txn *badger.Txn) error {
		prefix := userPrefix(userID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = min(limit, 100)
		it := txn.NewIterator(opts)
		defer it.Close()

		scanned := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix) && scanned < limit; it.Next() {
			if scanned%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			scanned++

			var ref itemRef
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ref)
			}); err != nil {
				return fmt.Errorf("decode interaction: %w", err)
			}
			if _, dup := seen[ref.ItemID]; dup || ref.ItemID == "" {
				continue
			}
			seen[ref.ItemID] = struct{}{}
			ids = append(ids, ref.ItemID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// List returns one page of the user's history, newest first, optionally
// restricted to one kind. Page is 1-based; a page past the end is empty.
func (s *Store) List(ctx context.Context, userID string, filter models.InteractionFilter) (page *models.InteractionPage, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list", table, time.Since(start), err) }()

	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidRecord)
	}
	if !validUserID(userID) {
		return &models.InteractionPage{Items: []models.Interaction{}, Pagination: models.NewPagination(0, filter.Page, filter.Limit)}, nil
	}
	s.reads.Add(1)

	offset := (filter.Page - 1) * filter.Limit
	items := make([]models.Interaction, 0, filter.Limit)
	total := 0

	err = s.db.View(func(txn *badger.Txn) error {
		prefix := userPrefix(userID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		// Without a kind filter only the page itself needs decoding.
		opts.PrefetchValues = filter.Kind != 0
		it := txn.NewIterator(opts)
		defer it.Close()

		scanned := 0
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			scanned++
			if scanned%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}

			inPage := total >= offset && len(items) < filter.Limit
			if filter.Kind == 0 && !inPage {
				total++
				continue
			}

			var in models.Interaction
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &in)
			}); err != nil {
				return fmt.Errorf("decode interaction: %w", err)
			}
			if filter.Kind != 0 && in.Kind != filter.Kind {
				continue
			}
			if inPage {
				items = append(items, in)
			}
			total++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.InteractionPage{
		Items:      items,
		Pagination: models.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

// Count returns the number of interactions stored for userID.
func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	if err := s.checkOpen(ctx); err != nil {
		return 0, err
	}
	if !validUserID(userID) {
		return 0, nil
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := userPrefix(userID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// RunGC reclaims value log space until BadgerDB reports nothing to rewrite.
func (s *Store) RunGC() error {
	if err := s.checkOpen(context.Background()); err != nil {
		return err
	}
	if s.config.InMemory {
		return nil
	}

	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			break
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}

	s.gcRuns.Add(1)
	s.mu.Lock()
	s.lastGC = time.Now()
	s.mu.Unlock()
	return nil
}

// GCInterval returns the configured GC interval. Zero means disabled.
func (s *Store) GCInterval() time.Duration {
	return s.config.GCInterval
}

// Stats returns store counters and on-disk sizes.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	lastGC, closed := s.lastGC, s.closed
	s.mu.RUnlock()

	st := Stats{
		Appends: s.appends.Load(),
		Reads:   s.reads.Load(),
		GCRuns:  s.gcRuns.Load(),
		LastGC:  lastGC,
	}
	if !closed {
		st.DBSizeLSM, st.DBSizeVlog = s.db.Size()
	}
	return st
}

// Close flushes and closes the database, giving up after CloseTimeout.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	timeout := s.config.CloseTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	done := make(chan error, 1)
	go func() {
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		s.logger.Info().Msg("interaction store closed")
		return nil
	case <-time.After(timeout):
		s.logger.Warn().Dur("timeout", timeout).Msg("BadgerDB close timed out")
		return fmt.Errorf("badgerdb close timeout after %v", timeout)
	}
}

func (s *Store) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func validUserID(id string) bool {
	return id != "" && !strings.Contains(id, keySep)
}

func userPrefix(userID string) []byte {
	return []byte(keyPrefix + userID + keySep)
}

func recordKey(userID string, ts time.Time, id string) []byte {
	nanos := ts.UnixNano()
	if nanos < 0 {
		nanos = 0
	}
	return fmt.Appendf(userPrefix(userID), "%016x%s%s", math.MaxUint64-uint64(nanos), keySep, id)
}
