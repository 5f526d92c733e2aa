// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Engine is what the event handlers need from the recommendation engine.
type Engine interface {
	UserInvalidator
	CatalogReloader
}

// Components runs the event handlers on a bus. Each Start builds a fresh
// router, so a supervisor can restart it after a failure.
type Components struct {
	bus         *Bus
	engine      Engine
	broadcaster Broadcaster
	limiter     *rate.Limiter
	logger      zerolog.Logger

	mu      sync.Mutex
	router  *Router
	done    chan error
	running bool
}

// NewComponents wires the invalidation and reload handlers to bus.
// broadcaster and limiter may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewComponents(bus *Bus, engine Engine, broadcaster Broadcaster, limiter *rate.Limiter, logger zerolog.Logger) *Components {
	return &Components{
		bus:         bus,
		engine:      engine,
		broadcaster: broadcaster,
		limiter:     limiter,
		logger:      logger.With().Str("component", "event-components").Logger(),
	}
}

// Start registers the handlers on a new router and returns once it is
// running. The router stops when ctx is canceled or Shutdown is called.
func (c *Components) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return errors.New("event components already running")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("start event components: %w", err)
	}

	router, err := c.bus.NewRouter()
	if err != nil {
		return fmt.Errorf("create router: %w", err)
	}

	Register(router, c.bus.Subscriber(),
		NewInvalidationHandler(c.engine, c.broadcaster, c.bus.InstanceID(), c.logger),
		NewReloadHandler(c.engine, c.broadcaster, c.limiter, c.logger),
	)

	done := make(chan error, 1)
	go func() {
		done <- router.Run(ctx)
		close(done)
	}()

	select {
	case <-router.Running():
	case err := <-done:
		if err == nil {
			err = errors.New("router stopped before it started")
		}
		return fmt.Errorf("start router: %w", err)
	case <-ctx.Done():
		_ = router.Close()
		return fmt.Errorf("context canceled while starting router: %w", ctx.Err())
	}

	c.router = router
	c.done = done
	c.running = true
	c.logger.Info().Str("transport", c.bus.Transport()).Msg("event router started")
	return nil
}

// Done returns a channel that yields the router's exit error. It is nil
// before Start.
func (c *Components) Done() <-chan error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Shutdown stops the router and waits for in-flight handlers. The bus stays
// open; its owner closes it.
func (c *Components) Shutdown(ctx context.Context) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	router, done := c.router, c.done
	c.router = nil
	c.mu.Unlock()

	if err := router.Close(); err != nil {
		c.logger.Error().Err(err).Msg("error closing event router")
	}

	select {
	case <-done:
	case <-ctx.Done():
		c.logger.Warn().Msg("event router did not stop before the shutdown deadline")
	}
	c.logger.Info().Msg("event router stopped")
}

// IsRunning reports whether the router is processing messages.
func (c *Components) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && c.router != nil && c.router.IsRunning()
}
