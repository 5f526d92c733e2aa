// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrComputePanic wraps a panic raised inside a compute function.
var ErrComputePanic = errors.New("cache compute panicked")

// Outcome describes how GetOrCompute produced its value.
type Outcome int

const (
	// OutcomeHit means a fresh stored entry was returned.
	OutcomeHit Outcome = iota
	// OutcomeComputed means this caller ran the compute function.
	OutcomeComputed
	// OutcomeJoined means this caller waited on another caller's computation.
	OutcomeJoined
)

// String returns the outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeComputed:
		return "computed"
	case OutcomeJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Served reports whether the caller got its value without running compute.
func (o Outcome) Served() bool {
	return o == OutcomeHit || o == OutcomeJoined
}

// ComputeFunc produces the value for a key. The context it receives is
// detached from the caller's cancellation.
type ComputeFunc[V any] func(ctx context.Context) (V, error)

// Options configures a RecommendationCache.
type Options struct {
	// MaxEntries bounds the number of stored entries; the least recently used
	// entry is evicted under pressure. Zero means unbounded.
	MaxEntries int

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// ComputeTimeout bounds a detached computation. Zero means no bound
	// beyond what the compute function applies itself.
	ComputeTimeout time.Duration
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Entries       int   `json:"entries"`
	InFlight      int   `json:"in_flight"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Joins         int64 `json:"joins"`
	Computes      int64 `json:"computes"`
	ComputeErrors int64 `json:"compute_errors"`
	Evictions     int64 `json:"evictions"`
	Expirations   int64 `json:"expirations"`
	Invalidations int64 `json:"invalidations"`
}

// call is one in-flight computation shared by every caller of its key.
type call[V any] struct {
	done chan struct{}
	val  V
	err  error

	// forgotten is set when the key is invalidated mid-flight; the result is
	// still delivered to waiters but not stored.
	forgotten bool
}

// RecommendationCache memoizes ranked results per key with a TTL and runs at
// most one computation per key at a time.
//
// A caller that finds no fresh entry either starts the computation or joins
// the one already running. The computation runs on its own goroutine with a
// context detached from the starting caller, so a caller that gives up only
// stops waiting; other waiters and the stored entry are unaffected.
//
// Entries whose age reaches the TTL are treated as absent. The freshness
// check and the registration of a new computation happen under one lock, so
// an expiry triggers one recompute no matter how many callers arrive at that
// instant. Invalidation detaches a running computation: its waiters still
// receive its result, and the next caller starts a fresh one.
type RecommendationCache[V any] struct {
	mu       sync.Mutex
	entries  *lruList[V]
	inflight map[string]*call[V]

	maxEntries     int
	computeTimeout time.Duration
	now            func() time.Time

	hits          atomic.Int64
	misses        atomic.Int64
	joins         atomic.Int64
	computes      atomic.Int64
	computeErrors atomic.Int64
	evictions     atomic.Int64
	expirations   atomic.Int64
	invalidations atomic.Int64
}

// NewRecommendationCache creates an empty cache.
func NewRecommendationCache[V any](opts Options) *RecommendationCache[V] {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	hint := opts.MaxEntries
	if hint <= 0 || hint > 4096 {
		hint = 4096
	}
	return &RecommendationCache[V]{
		entries:        newLRUList[V](hint),
		inflight:       make(map[string]*call[V]),
		maxEntries:     opts.MaxEntries,
		computeTimeout: opts.ComputeTimeout,
		now:            now,
	}
}

// GetOrCompute returns the fresh value stored under key, or obtains it from
// compute. Errors are returned to every waiter and never stored.
// If ctx ends before the value is ready, ctx.Err() is returned and the
// computation continues for the other waiters.
func (c *RecommendationCache[V]) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute ComputeFunc[V]) (V, Outcome, error) {
	c.mu.Lock()

	if e, ok := c.entries.get(key); ok {
		if e.fresh(c.now()) {
			c.entries.moveToFront(e)
			c.mu.Unlock()
			c.hits.Add(1)
			return e.value, OutcomeHit, nil
		}
		c.entries.remove(e)
		c.expirations.Add(1)
	}

	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		c.joins.Add(1)
		v, err := c.wait(ctx, cl)
		return v, OutcomeJoined, err
	}

	cl := &call[V]{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	c.misses.Add(1)
	c.computes.Add(1)

	go c.run(context.WithoutCancel(ctx), key, ttl, cl, compute)

	v, err := c.wait(ctx, cl)
	return v, OutcomeComputed, err
}

func (c *RecommendationCache[V]) wait(ctx context.Context, cl *call[V]) (V, error) {
	select {
	case <-cl.done:
		return cl.val, cl.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}

// run executes compute, stores a successful result and releases waiters.
// The entry is stored before done is closed, so any caller arriving after a
// waiter has been released finds the stored entry.
func (c *RecommendationCache[V]) run(ctx context.Context, key string, ttl time.Duration, cl *call[V], compute ComputeFunc[V]) {
	if c.computeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.computeTimeout)
		defer cancel()
	}

	val, err := safeCompute(ctx, compute)

	c.mu.Lock()
	if !cl.forgotten {
		delete(c.inflight, key)
		if err == nil && ttl > 0 {
			now := c.now()
			c.entries.put(key, val, now, now.Add(ttl))
			c.evictOverflowLocked()
		}
	}
	cl.val, cl.err = val, err
	c.mu.Unlock()

	if err != nil {
		c.computeErrors.Add(1)
	}
	close(cl.done)
}

func safeCompute[V any](ctx context.Context, compute ComputeFunc[V]) (val V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrComputePanic, r)
		}
	}()
	return compute(ctx)
}

// evictOverflowLocked drops least recently used entries above MaxEntries.
func (c *RecommendationCache[V]) evictOverflowLocked() {
	if c.maxEntries <= 0 {
		return
	}
	for c.entries.len() > c.maxEntries {
		oldest := c.entries.oldest()
		if oldest == nil {
			return
		}
		c.entries.remove(oldest)
		c.evictions.Add(1)
	}
}

// Peek returns the fresh value for key without touching recency or counters.
func (c *RecommendationCache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries.get(key); ok && e.fresh(c.now()) {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Invalidate removes key and detaches any in-flight computation for it so
// its result is not stored. Reports whether anything was removed.
func (c *RecommendationCache[V]) Invalidate(key string) bool {
	return c.InvalidateMatching(func(k string) bool { return k == key }) > 0
}

// InvalidatePrefix removes every stored or in-flight key starting with prefix.
func (c *RecommendationCache[V]) InvalidatePrefix(prefix string) int {
	return c.InvalidateMatching(func(k string) bool { return strings.HasPrefix(k, prefix) })
}

// InvalidateMatching removes every stored or in-flight key accepted by match.
func (c *RecommendationCache[V]) InvalidateMatching(match func(key string) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.entries.removeIf(match)
	for key, cl := range c.inflight {
		if match(key) {
			cl.forgotten = true
			delete(c.inflight, key)
			removed++
		}
	}
	c.invalidations.Add(int64(removed))
	return removed
}

// Purge removes all stored entries and detaches all in-flight computations.
func (c *RecommendationCache[V]) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := c.entries.clear()
	for key, cl := range c.inflight {
		cl.forgotten = true
		delete(c.inflight, key)
		removed++
	}
	c.invalidations.Add(int64(removed))
	return removed
}

// CleanupExpired removes stale entries and returns how many were dropped.
func (c *RecommendationCache[V]) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := c.entries.removeExpired(c.now())
	c.expirations.Add(int64(n))
	return n
}

// Len returns the number of stored entries, fresh or stale.
func (c *RecommendationCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.len()
}

// Stats returns a snapshot of the cache counters.
func (c *RecommendationCache[V]) Stats() Stats {
	c.mu.Lock()
	entries, inflight := c.entries.len(), len(c.inflight)
	c.mu.Unlock()

	return Stats{
		Entries:       entries,
		InFlight:      inflight,
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Joins:         c.joins.Load(),
		Computes:      c.computes.Load(),
		ComputeErrors: c.computeErrors.Load(),
		Evictions:     c.evictions.Load(),
		Expirations:   c.expirations.Load(),
		Invalidations: c.invalidations.Load(),
	}
}
