// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeEngine struct {
	fakeInvalidator
	fakeReloader
}

func TestComponentsLifecycle(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := NewBus(ctx, DefaultBusConfig(), zerolog.Nop(), "node-a")
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		_ = bus.Close(closeCtx)
	})

	engine := &fakeEngine{}
	bc := newFakeBroadcaster()
	c := NewComponents(bus, engine, bc, nil, zerolog.Nop())

	if c.IsRunning() {
		t.Fatal("IsRunning() = true before Start")
	}
	if c.Done() != nil {
		t.Fatal("Done() should be nil before Start")
	}

	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !c.IsRunning() {
		t.Fatal("IsRunning() = false after Start")
	}
	if err := c.Start(ctx); err == nil {
		t.Error("second Start should fail while running")
	}

	remote := NewEventNotifier(bus.Publisher(), "node-b")
	if err := remote.RequestCatalogReload(ctx, "test"); err != nil {
		t.Fatalf("RequestCatalogReload: %v", err)
	}
	if n := bc.wait(t); n.Type != NoticeCatalogReloaded {
		t.Errorf("notice = %q, want %q", n.Type, NoticeCatalogReloaded)
	}
	if engine.fakeReloader.calls.Load() != 1 {
		t.Errorf("reload calls = %d, want 1", engine.fakeReloader.calls.Load())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	c.Shutdown(shutdownCtx)

	if c.IsRunning() {
		t.Error("IsRunning() = true after Shutdown")
	}
	// A second Shutdown is a no-op.
	c.Shutdown(shutdownCtx)
}

func TestComponentsStartCanceled(t *testing.T) {
	t.Parallel()

	busCtx, busCancel := context.WithCancel(context.Background())
	defer busCancel()
	bus, err := NewBus(busCtx, DefaultBusConfig(), zerolog.Nop(), "node-a")
	if err != nil {
		t.Fatalf("NewBus: %v", err)
	}
	t.Cleanup(func() { _ = bus.Close(context.Background()) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewComponents(bus, &fakeEngine{}, nil, nil, zerolog.Nop())
	if err := c.Start(ctx); err == nil {
		t.Fatal("Start with a canceled context should fail")
	}
	if c.IsRunning() {
		t.Error("IsRunning() = true after failed Start")
	}
}
