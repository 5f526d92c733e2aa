// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// startBus runs a bus with both handlers registered and returns once the
// router is consuming.
func startBus(t *testing.T, cfg BusConfig, inv UserInvalidator, bc Broadcaster) *Bus {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	bus, err := NewBus(ctx, cfg, zerolog.Nop(), "node-a")
	if err != nil {
		cancel()
		t.Fatalf("NewBus: %v", err)
	}

	router, err := bus.NewRouter()
	if err != nil {
		cancel()
		t.Fatalf("NewRouter: %v", err)
	}
	Register(router, bus.Subscriber(),
		NewInvalidationHandler(inv, bc, bus.InstanceID(), zerolog.Nop()),
		NewReloadHandler(&fakeReloader{}, bc, nil, zerolog.Nop()),
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = router.Run(ctx)
	}()

	select {
	case <-router.Running():
	case <-time.After(10 * time.Second):
		cancel()
		t.Fatal("router did not start")
	}

	t.Cleanup(func() {
		cancel()
		<-done
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := bus.Close(closeCtx); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return bus
}

func TestBusChannelTransport(t *testing.T) {
	t.Parallel()

	inv := &fakeInvalidator{}
	bc := newFakeBroadcaster()
	bus := startBus(t, DefaultBusConfig(), inv, bc)

	if bus.Transport() != TransportChannel {
		t.Fatalf("Transport() = %q, want %q", bus.Transport(), TransportChannel)
	}

	ctx := context.Background()
	remote := NewEventNotifier(bus.Publisher(), "node-b")
	if err := remote.InteractionRecorded(ctx, testInteraction()); err != nil {
		t.Fatalf("InteractionRecorded: %v", err)
	}
	if n := bc.wait(t); n.Type != NoticeRecommendationsInvalidated {
		t.Errorf("notice = %q, want %q", n.Type, NoticeRecommendationsInvalidated)
	}
	if inv.calls.Load() != 1 {
		t.Errorf("InvalidateUser calls = %d, want 1", inv.calls.Load())
	}

	local := NewEventNotifier(bus.Publisher(), bus.InstanceID())
	if err := local.RequestCatalogReload(ctx, "test"); err != nil {
		t.Fatalf("RequestCatalogReload: %v", err)
	}
	if n := bc.wait(t); n.Type != NoticeCatalogReloaded {
		t.Errorf("notice = %q, want %q", n.Type, NoticeCatalogReloaded)
	}

	health := bus.Health(ctx)
	if !health.Healthy || health.Transport != TransportChannel {
		t.Errorf("Health() = %+v", health)
	}
	if _, ok := health.Components["router"]; !ok {
		t.Error("router should be registered for health checks")
	}
}

func TestBusNATSTransport(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an embedded NATS server")
	}
	t.Parallel()

	cfg := DefaultBusConfig()
	cfg.NATSEnabled = true
	cfg.EmbeddedServer = true
	cfg.Server.Port = -1
	cfg.Server.StoreDir = t.TempDir()

	inv := &fakeInvalidator{}
	bc := newFakeBroadcaster()
	bus := startBus(t, cfg, inv, bc)

	ctx := context.Background()
	if err := NewEventNotifier(bus.Publisher(), "node-b").InteractionRecorded(ctx, testInteraction()); err != nil {
		t.Fatalf("InteractionRecorded: %v", err)
	}
	bc.wait(t)
	if inv.calls.Load() != 1 {
		t.Errorf("InvalidateUser calls = %d, want 1", inv.calls.Load())
	}

	if h := bus.HealthCheck(ctx); !h.Healthy {
		t.Errorf("transport unhealthy: %+v", h)
	}
}

func TestNewBusValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(c *BusConfig)
		instanceID string
	}{
		{"missing instance id", func(c *BusConfig) {}, ""},
		{"zero publish timeout", func(c *BusConfig) { c.PublishTimeout = 0 }, "node-a"},
		{"nats without url", func(c *BusConfig) {
			c.NATSEnabled = true
			c.EmbeddedServer = false
			c.URL = ""
		}, "node-a"},
		{"nats without stream subjects", func(c *BusConfig) {
			c.NATSEnabled = true
			c.Stream.Subjects = nil
		}, "node-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultBusConfig()
			tt.mutate(&cfg)

			_, err := NewBus(context.Background(), cfg, zerolog.Nop(), tt.instanceID)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("NewBus() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
