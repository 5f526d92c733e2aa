// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/cache"
	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/metrics"
	"github.com/tomtom215/cinerank/internal/models"
	"github.com/tomtom215/cinerank/internal/profile"
	"github.com/tomtom215/cinerank/internal/similarity"
)

// Engine answers item-to-item and user-to-item recommendation queries.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	store      *embedding.Store
	aggregator *profile.Aggregator
	cache      *cache.RecommendationCache[*ranking]

	// External collaborators. Only interactions is required.
	interactions InteractionStore
	metadata     MetadataSource
	fallback     FallbackProvider
	notifier     Notifier

	interactionsUp *upstream
	metadataUp     *upstream
	fallbackUp     *upstream

	now func() time.Time

	itemRequests atomic.Int64
	userRequests atomic.Int64
	coldStarts   atomic.Int64
	errorCount   atomic.Int64
	recorded     atomic.Int64
}

// NewEngine creates an engine over store and interactions and subscribes it
// to catalog reloads.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, store *embedding.Store, interactions InteractionStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if store == nil {
		return nil, errors.New("embedding store is required")
	}
	if interactions == nil {
		return nil, errors.New("interaction store is required")
	}

	agg, err := profile.NewAggregator(cfg.Profile)
	if err != nil {
		return nil, fmt.Errorf("profile aggregator: %w", err)
	}

	timeout := cfg.Limits.UpstreamTimeout
	e := &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		store:      store,
		aggregator: agg,
		cache: cache.NewRecommendationCache[*ranking](cache.Options{
			MaxEntries:     cfg.Cache.MaxEntries,
			ComputeTimeout: cfg.Cache.ComputeTimeout,
		}),
		interactions:   interactions,
		interactionsUp: newUpstream(sourceInteractions, timeout, cfg.Breaker),
		metadataUp:     newUpstream(sourceMetadata, timeout, cfg.Breaker),
		fallbackUp:     newUpstream(sourceFallback, timeout, cfg.Breaker),
		now:            time.Now,
	}

	store.OnReload(e.onCatalogReload)
	return e, nil
}

// SetMetadataSource sets the source used to decorate results.
func (e *Engine) SetMetadataSource(src MetadataSource) {
	e.metadata = src
}

// SetFallbackProvider sets the popularity fallback for cold-start users.
// It is used only when Config.FallbackPopular is true.
func (e *Engine) SetFallbackProvider(fp FallbackProvider) {
	e.fallback = fp
}

// SetNotifier sets the receiver of interaction-recorded notifications.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}

// SetClock replaces the time source used for timestamps and profile windows.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.aggregator.SetClock(now)
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// RecommendSimilar ranks the catalog against the embedding of itemID.
// The item itself is never part of the result.
func (e *Engine) RecommendSimilar(ctx context.Context, itemID string, k int) (*Response, error) {
	start := e.now()
	e.itemRequests.Add(1)
	k = e.config.Limits.ClampK(k)

	reqID := requestID(ctx)
	logger := e.requestLogger(reqID, QueryItemSimilar, itemID, k)

	snap := e.store.Snapshot()
	if snap.Len() == 0 {
		return nil, e.failed(logger, QueryItemSimilar, start, ErrCatalogUnavailable)
	}

	query, err := snap.Get(itemID)
	if err != nil {
		return nil, e.failed(logger, QueryItemSimilar, start, classify(err))
	}

	key := cache.Key(cache.KindItem, itemID, k, cache.Fingerprint(snap.Version(), nil))
	rk, outcome, err := e.memoize(ctx, key, e.config.Cache.ItemTTL, func(context.Context) (*ranking, error) {
		exclude := map[string]struct{}{itemID: {}}
		return e.rank(logger, QueryItemSimilar, snap, query, k, exclude), nil
	})
	if err != nil {
		return nil, e.failed(logger, QueryItemSimilar, start, classify(err))
	}

	resp := e.newResponse(reqID, QueryItemSimilar, k, rk, outcome)
	resp.SourceItemID = itemID
	e.decorate(ctx, logger, resp)
	e.finish(logger, resp, outcome, start)
	return resp, nil
}

// RecommendForUser ranks the catalog against the profile built from the
// user's recent interactions. Every item among the last ExcludeLimit
// interactions is excluded, not only the profile window. A user without a
// usable profile gets a successful response with ColdStart set.
func (e *Engine) RecommendForUser(ctx context.Context, userID string, k int) (*Response, error) {
	start := e.now()
	e.userRequests.Add(1)
	k = e.config.Limits.ClampK(k)

	reqID := requestID(ctx)
	logger := e.requestLogger(reqID, QueryUserContent, userID, k)

	if strings.TrimSpace(userID) == "" {
		return nil, e.failed(logger, QueryUserContent, start, fmt.Errorf("%w: user id is required", ErrInvalidInteraction))
	}

	snap := e.store.Snapshot()
	if snap.Len() == 0 {
		return nil, e.failed(logger, QueryUserContent, start, ErrCatalogUnavailable)
	}

	history, err := guarded(ctx, e.interactionsUp, func(ctx context.Context) ([]models.Interaction, error) {
		return e.interactions.FetchRecent(ctx, userID, e.aggregator.Window())
	})
	if err != nil {
		return nil, e.failed(logger, QueryUserContent, start, classify(err))
	}
	interacted, err := guarded(ctx, e.interactionsUp, func(ctx context.Context) ([]string, error) {
		return e.interactions.InteractedItems(ctx, userID, e.config.Limits.ExcludeLimit)
	})
	if err != nil {
		return nil, e.failed(logger, QueryUserContent, start, classify(err))
	}

	seen := historyItems(history)
	for _, id := range interacted {
		seen[id] = struct{}{}
	}

	fp := cache.UserFingerprint(snap.Version(), setKeys(seen), historyDigest(history))
	key := cache.Key(cache.KindUser, userID, k, fp)
	rk, outcome, err := e.memoize(ctx, key, e.config.Cache.UserTTL, func(context.Context) (*ranking, error) {
		prof := e.aggregator.Build(userID, history, snap)
		if prof.ColdStart {
			logger.Info().
				Int("history", len(history)).
				Int("missing", prof.Missing).
				Msg("cold start: no usable profile")
			return &ranking{coldStart: true, catalogVersion: snap.Version(), generatedAt: e.now()}, nil
		}
		return e.rank(logger, QueryUserContent, snap, prof.Vector, k, seen), nil
	})
	if err != nil {
		return nil, e.failed(logger, QueryUserContent, start, classify(err))
	}

	resp := e.newResponse(reqID, QueryUserContent, k, rk, outcome)
	resp.UserID = userID
	if rk.coldStart {
		e.coldStarts.Add(1)
		e.applyFallback(ctx, logger, resp, seen)
		metrics.RecordColdStart(resp.Fallback)
	}
	e.decorate(ctx, logger, resp)
	e.finish(logger, resp, outcome, start)
	return resp, nil
}

// RecordInteraction validates and stores an interaction, then invalidates
// the user's cached results and notifies other instances.
func (e *Engine) RecordInteraction(ctx context.Context, req RecordRequest) (*models.Interaction, error) {
	in, err := e.normalize(req)
	if err != nil {
		return nil, err
	}

	snap := e.store.Snapshot()
	if snap.Len() == 0 {
		return nil, ErrCatalogUnavailable
	}
	if !snap.Has(in.ItemID) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, in.ItemID)
	}

	_, err = guarded(ctx, e.interactionsUp, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.interactions.Append(ctx, in)
	})
	if err != nil {
		e.errorCount.Add(1)
		e.logger.Warn().Err(err).Str("user_id", in.UserID).Msg("failed to record interaction")
		return nil, classify(err)
	}

	e.recorded.Add(1)
	metrics.RecordInteraction(in.Kind.String())
	invalidated := e.InvalidateUser(in.UserID)

	if e.notifier != nil {
		if err := e.notifier.InteractionRecorded(ctx, in); err != nil {
			e.logger.Warn().Err(err).Str("interaction_id", in.ID).Msg("interaction notification failed")
		}
	}

	e.logger.Info().
		Str("interaction_id", in.ID).
		Str("user_id", in.UserID).
		Str("item_id", in.ItemID).
		Str("kind", in.Kind.String()).
		Int("invalidated", invalidated).
		Msg("interaction recorded")

	return in, nil
}

// ListInteractions returns one page of a user's interaction history, newest first.
func (e *Engine) ListInteractions(ctx context.Context, userID string, filter models.InteractionFilter) (*models.InteractionPage, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInteraction)
	}
	if filter.Kind != 0 && !filter.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidInteraction, filter.Kind)
	}
	filter.Page, filter.Limit = e.config.Limits.clampPage(filter.Page, filter.Limit)

	page, err := guarded(ctx, e.interactionsUp, func(ctx context.Context) (*models.InteractionPage, error) {
		return e.interactions.List(ctx, userID, filter)
	})
	if err != nil {
		return nil, classify(err)
	}
	return page, nil
}

// ReloadCatalog reloads the embedding store from its source. Cached results
// are purged by the reload listener once the new snapshot is published.
func (e *Engine) ReloadCatalog(ctx context.Context) (*embedding.Snapshot, error) {
	start := time.Now()
	snap, err := e.store.Reload(ctx)
	if err != nil {
		metrics.RecordCatalogReload(time.Since(start), 0, 0, err)
		e.logger.Warn().Err(err).Msg("catalog reload failed, keeping current snapshot")
		return nil, classify(err)
	}
	metrics.RecordCatalogReload(time.Since(start), snap.Len(), snap.Version(), nil)
	return snap, nil
}

// InvalidateUser drops every cached user-to-item result for userID,
// including computations still in flight. Returns the number removed.
func (e *Engine) InvalidateUser(userID string) int {
	n := e.cache.InvalidatePrefix(cache.SubjectPrefix(cache.KindUser, userID))
	metrics.RecordCacheRemoval("invalidated", n)
	return n
}

// CleanupCache removes stale cache entries.
func (e *Engine) CleanupCache() int {
	n := e.cache.CleanupExpired()
	metrics.RecordCacheRemoval("expired", n)
	metrics.UpdateCacheSize(e.cache.Len())
	return n
}

// Snapshot returns the current catalog snapshot.
func (e *Engine) Snapshot() *embedding.Snapshot {
	return e.store.Snapshot()
}

// Stats returns engine and cache counters.
func (e *Engine) Stats() Stats {
	snap := e.store.Snapshot()
	return Stats{
		ItemRequests:   e.itemRequests.Load(),
		UserRequests:   e.userRequests.Load(),
		ColdStarts:     e.coldStarts.Load(),
		Errors:         e.errorCount.Load(),
		Interactions:   e.recorded.Load(),
		CatalogItems:   snap.Len(),
		CatalogVersion: snap.Version(),
		Dimension:      snap.Dimension(),
		CatalogLoaded:  snap.LoadedAt(),
		Cache:          e.cache.Stats(),
		CacheEnabled:   e.config.Cache.Enabled,
		Breakers: map[string]string{
			sourceInteractions: e.interactionsUp.State(),
			sourceMetadata:     e.metadataUp.State(),
			sourceFallback:     e.fallbackUp.State(),
		},
	}
}

func (e *Engine) onCatalogReload(snap *embedding.Snapshot) {
	n := e.cache.Purge()
	metrics.RecordCacheRemoval("purged", n)
	metrics.UpdateCacheSize(0)
	e.logger.Info().
		Uint64("version", snap.Version()).
		Int("purged", n).
		Msg("result cache purged after catalog reload")
}

// memoize runs compute through the result cache, or directly when caching is off.
func (e *Engine) memoize(ctx context.Context, key string, ttl time.Duration, compute cache.ComputeFunc[*ranking]) (*ranking, cache.Outcome, error) {
	if !e.config.Cache.Enabled {
		rk, err := compute(ctx)
		return rk, cache.OutcomeComputed, err
	}

	rk, outcome, err := e.cache.GetOrCompute(ctx, key, ttl, compute)
	if err != nil {
		return nil, outcome, err
	}
	metrics.RecordCacheOutcome(outcome.String())
	if outcome == cache.OutcomeComputed {
		metrics.UpdateCacheSize(e.cache.Len())
	}
	return rk, outcome, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) rank(logger zerolog.Logger, typ QueryType, snap *embedding.Snapshot, query []float64, k int, exclude map[string]struct{}) *ranking {
	start := time.Now()
	res := similarity.RankTopK(query, snap.All(), k, exclude)
	metrics.RecordRanking(typ.metricLabel(), time.Since(start), res.Degenerate)

	if res.QueryDegenerate {
		logger.Warn().Msg("query vector is degenerate, returning no results")
	}
	logger.Debug().
		Int("scanned", res.Scanned).
		Int("excluded", res.Excluded).
		Int("degenerate", res.Degenerate).
		Int("returned", len(res.Items)).
		Msg("ranking computed")

	return &ranking{
		items:          res.Items,
		catalogVersion: snap.Version(),
		generatedAt:    e.now(),
	}
}

func (e *Engine) newResponse(reqID string, typ QueryType, k int, rk *ranking, outcome cache.Outcome) *Response {
	items := make([]ScoredItem, len(rk.items))
	for i, s := range rk.items {
		items[i] = ScoredItem{ItemID: s.ItemID, Score: s.Score}
	}
	return &Response{
		RequestID:      reqID,
		Type:           typ,
		K:              k,
		Items:          items,
		ColdStart:      rk.coldStart,
		CatalogVersion: rk.catalogVersion,
		CacheHit:       outcome.Served(),
		GeneratedAt:    rk.generatedAt,
	}
}

// applyFallback fills a cold-start response with popular unseen items.
// Failures leave the response empty.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) applyFallback(ctx context.Context, logger zerolog.Logger, resp *Response, seen map[string]struct{}) {
	if !e.config.FallbackPopular || e.fallback == nil {
		return
	}

	ids, err := guarded(ctx, e.fallbackUp, func(ctx context.Context) ([]string, error) {
		return e.fallback.Popular(ctx, resp.K, seen)
	})
	if err != nil {
		logger.Warn().Err(err).Msg("popularity fallback unavailable")
		return
	}

	items := make([]ScoredItem, 0, min(len(ids), resp.K))
	for _, id := range ids {
		if len(items) == resp.K {
			break
		}
		if _, ok := seen[id]; ok {
			continue
		}
		items = append(items, ScoredItem{ItemID: id})
	}
	resp.Items = items
	resp.Fallback = true
}

// decorate attaches metadata to the response items. It never reorders or
// rescores, and a failing metadata source leaves the items undecorated.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) decorate(ctx context.Context, logger zerolog.Logger, resp *Response) {
	if e.metadata == nil || len(resp.Items) == 0 {
		return
	}

	ids := make([]string, len(resp.Items))
	for i := range resp.Items {
		ids[i] = resp.Items[i].ItemID
	}

	meta, err := guarded(ctx, e.metadataUp, func(ctx context.Context) (map[string]models.ItemMetadata, error) {
		return e.metadata.FetchMetadata(ctx, ids)
	})
	if err != nil {
		logger.Warn().Err(err).Msg("metadata decoration skipped")
		return
	}

	for i := range resp.Items {
		if m, ok := meta[resp.Items[i].ItemID]; ok {
			resp.Items[i].Title = m.Title
			resp.Items[i].Genres = m.Genres
			resp.Items[i].Year = m.Year
		}
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) finish(logger zerolog.Logger, resp *Response, outcome cache.Outcome, start time.Time) {
	elapsed := e.now().Sub(start)
	resp.LatencyMS = elapsed.Milliseconds()

	label := outcome.String()
	if resp.ColdStart {
		label = "cold_start"
	}
	metrics.RecordRecommendation(resp.Type.metricLabel(), label, elapsed)

	ev := logger.Debug()
	if outcome == cache.OutcomeComputed {
		ev = logger.Info()
	}
	ev.Str("outcome", outcome.String()).
		Bool("cache_hit", resp.CacheHit).
		Bool("cold_start", resp.ColdStart).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.LatencyMS).
		Msg("recommendation served")
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) failed(logger zerolog.Logger, typ QueryType, start time.Time, err error) error {
	metrics.RecordRecommendation(typ.metricLabel(), "error", e.now().Sub(start))

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidInteraction), errors.Is(err, context.Canceled):
		logger.Debug().Err(err).Msg("recommendation rejected")
	case IsRetryable(err):
		e.errorCount.Add(1)
		logger.Warn().Err(err).Msg("recommendation failed: upstream unavailable")
	default:
		e.errorCount.Add(1)
		logger.Error().Err(err).Msg("recommendation failed")
	}
	return err
}

// normalize validates a RecordRequest and builds the stored record.
func (e *Engine) normalize(req RecordRequest) (*models.Interaction, error) {
	userID := strings.TrimSpace(req.UserID)
	itemID := strings.TrimSpace(req.ItemID)

	switch {
	case userID == "":
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInteraction)
	case itemID == "":
		return nil, fmt.Errorf("%w: item id is required", ErrInvalidInteraction)
	case !req.Kind.Valid():
		return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidInteraction, req.Kind)
	}

	var rating *float64
	if req.Kind == models.KindRate {
		if req.Rating == nil {
			return nil, fmt.Errorf("%w: rate interactions require a rating", ErrInvalidInteraction)
		}
		if !models.ValidRating(*req.Rating) {
			return nil, fmt.Errorf("%w: rating %v outside %.1f-%.1f in %.1f steps",
				ErrInvalidInteraction, *req.Rating, models.MinRating, models.MaxRating, models.RatingStep)
		}
		r := *req.Rating
		rating = &r
	} else if req.Rating != nil {
		e.logger.Debug().
			Str("kind", req.Kind.String()).
			Msg("rating ignored for non-rate interaction")
	}

	ts := req.Timestamp
	if ts.IsZero() {
		ts = e.now()
	}

	return &models.Interaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		ItemID:    itemID,
		Kind:      req.Kind,
		Rating:    rating,
		Timestamp: ts.UTC(),
	}, nil
}

func (e *Engine) requestLogger(reqID string, typ QueryType, subject string, k int) zerolog.Logger {
	return e.logger.With().
		Str("request_id", reqID).
		Str("kind", string(typ)).
		Str("subject_id", subject).
		Int("k", k).
		Logger()
}

// requestID returns the request id carried by ctx or a new one.
func requestID(ctx context.Context) string {
	if id := logging.RequestIDFromContext(ctx); id != "" {
		return id
	}
	return logging.GenerateRequestID()
}

// historyItems returns the set of item ids in history.
func historyItems(history []models.Interaction) map[string]struct{} {
	seen := make(map[string]struct{}, len(history))
	for i := range history {
		seen[history[i].ItemID] = struct{}{}
	}
	return seen
}

// historyDigest describes each interaction of the profile window, newest
// first, for the cache fingerprint.
func historyDigest(history []models.Interaction) []string {
	out := make([]string, len(history))
	for i := range history {
		in := &history[i]
		out[i] = fmt.Sprintf("%s|%s|%s|%g|%d", in.ID, in.ItemID, in.Kind, in.RatingValue(), in.Timestamp.UnixNano())
	}
	return out
}

func setKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys
}
