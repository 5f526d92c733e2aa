// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerank/internal/embedding"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// runFor serves svc until n task runs are observed, then stops it.
func runFor(t *testing.T, svc *PeriodicService, count *atomic.Int32, n int32) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return count.Load() >= n })
	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestPeriodicService_RunsOnInterval(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("tick", 5*time.Millisecond, 0, func(context.Context) error {
		runs.Add(1)
		return nil
	}, zerolog.Nop())

	runFor(t, svc, &runs, 3)
	if svc.String() != "tick" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestPeriodicService_SurvivesTaskErrors(t *testing.T) {
	var runs atomic.Int32
	logs := &lockedBuffer{}
	svc := NewPeriodicService("flaky", 5*time.Millisecond, 0, func(context.Context) error {
		runs.Add(1)
		return errors.New("duckdb busy")
	}, zerolog.New(logs))

	runFor(t, svc, &runs, 2)
	if !strings.Contains(logs.String(), "duckdb busy") {
		t.Errorf("task failure not logged: %s", logs.String())
	}
}

func TestPeriodicService_TimeoutAppliedToTask(t *testing.T) {
	var runs atomic.Int32
	var sawDeadline atomic.Bool
	svc := NewPeriodicService("bounded", 5*time.Millisecond, time.Second, func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); ok {
			sawDeadline.Store(true)
		}
		runs.Add(1)
		return nil
	}, zerolog.Nop())

	runFor(t, svc, &runs, 1)
	if !sawDeadline.Load() {
		t.Error("task context has no deadline")
	}
}

func TestPeriodicService_DisabledInterval(t *testing.T) {
	var runs atomic.Int32
	svc := NewPeriodicService("off", 0, 0, func(context.Context) error {
		runs.Add(1)
		return nil
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v", err)
	}
	if runs.Load() != 0 {
		t.Errorf("task ran %d times with interval 0", runs.Load())
	}
}

type fakeCatalogReloader struct {
	calls atomic.Int32
	err   error
}

func (f *fakeCatalogReloader) ReloadCatalog(context.Context) (*embedding.Snapshot, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return new(embedding.Snapshot), nil
}

type fakeCacheCleaner struct{ calls atomic.Int32 }

func (f *fakeCacheCleaner) CleanupCache() int {
	f.calls.Add(1)
	return 2
}

type fakeGC struct{ calls atomic.Int32 }

func (f *fakeGC) RunGC() error {
	f.calls.Add(1)
	return nil
}

func TestMaintenanceServices(t *testing.T) {
	reloader := &fakeCatalogReloader{}
	failing := &fakeCatalogReloader{err: errors.New("catalog unavailable")}
	cleaner := &fakeCacheCleaner{}
	gc := &fakeGC{}
	interval := 5 * time.Millisecond

	tests := []struct {
		name  string
		svc   *PeriodicService
		calls *atomic.Int32
	}{
		{"catalog-reload", NewCatalogReloadService(reloader, interval, time.Second, zerolog.Nop()), &reloader.calls},
		{"catalog-reload", NewCatalogReloadService(failing, interval, time.Second, zerolog.Nop()), &failing.calls},
		{"cache-janitor", NewCacheJanitorService(cleaner, interval, zerolog.Nop()), &cleaner.calls},
		{"interaction-store-gc", NewStoreGCService(gc, interval, zerolog.Nop()), &gc.calls},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.svc.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.svc.String(), tt.name)
			}
			runFor(t, tt.svc, tt.calls, 2)
		})
	}
}
