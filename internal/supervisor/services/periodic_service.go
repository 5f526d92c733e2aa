// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/embedding"
)

// PeriodicService runs a task on a fixed interval. Task errors are logged
// and never stop the service: the next tick tries again.
type PeriodicService struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	task     func(ctx context.Context) error
	logger   zerolog.Logger
}

// NewPeriodicService creates a service running task every interval, each
// run bounded by timeout (zero means no bound beyond ctx).
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPeriodicService(name string, interval, timeout time.Duration, task func(ctx context.Context) error, logger zerolog.Logger) *PeriodicService {
	return &PeriodicService{
		name:     name,
		interval: interval,
		timeout:  timeout,
		task:     task,
		logger:   logger.With().Str("service", name).Logger(),
	}
}

// Serve implements suture.Service. A non-positive interval disables the
// task; the service then idles until canceled.
func (s *PeriodicService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Debug().Msg("periodic task disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *PeriodicService) runOnce(ctx context.Context) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.task(runCtx); err != nil {
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn().Err(err).Dur("duration", time.Since(start)).Msg("periodic task failed")
		return
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("periodic task complete")
}

// String implements fmt.Stringer for suture's logs.
func (s *PeriodicService) String() string {
	return s.name
}

// CatalogReloader is satisfied by *recommend.Engine.
type CatalogReloader interface {
	ReloadCatalog(ctx context.Context) (*embedding.Snapshot, error)
}

// NewCatalogReloadService reloads the catalog every interval. Each instance
// runs its own ticker; reloads requested over the event bus are separate.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogReloadService(reloader CatalogReloader, interval, timeout time.Duration, logger zerolog.Logger) *PeriodicService {
	var svc *PeriodicService
	svc = NewPeriodicService("catalog-reload", interval, timeout, func(ctx context.Context) error {
		snap, err := reloader.ReloadCatalog(ctx)
		if err != nil {
			return err
		}
		svc.logger.Info().
			Uint64("version", snap.Version()).
			Int("items", snap.Len()).
			Msg("scheduled catalog reload complete")
		return nil
	}, logger)
	return svc
}

// CacheCleaner is satisfied by *recommend.Engine.
type CacheCleaner interface {
	CleanupCache() int
}

// NewCacheJanitorService sweeps expired recommendation cache entries.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(cleaner CacheCleaner, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	var svc *PeriodicService
	svc = NewPeriodicService("cache-janitor", interval, 0, func(context.Context) error {
		if n := cleaner.CleanupCache(); n > 0 {
			svc.logger.Debug().Int("removed", n).Msg("expired cache entries removed")
		}
		return nil
	}, logger)
	return svc
}

// GarbageCollector is satisfied by *interactions.Store.
type GarbageCollector interface {
	RunGC() error
}

// NewStoreGCService runs BadgerDB value log GC on the interaction store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreGCService(gc GarbageCollector, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	return NewPeriodicService("interaction-store-gc", interval, 0, func(context.Context) error {
		return gc.RunGC()
	}, logger)
}
