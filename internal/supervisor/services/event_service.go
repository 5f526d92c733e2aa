// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package services

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// errRouterStopped is returned when the event router exits on its own, so
// the supervisor restarts it.
var errRouterStopped = errors.New("event router stopped unexpectedly")

// EventComponents is satisfied by *eventprocessor.Components.
type EventComponents interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
	Done() <-chan error
}

// EventComponentsService adapts the Start/Shutdown lifecycle of the event
// router to suture.
type EventComponentsService struct {
	components      EventComponents
	shutdownTimeout time.Duration
}

// NewEventComponentsService wraps components. A non-positive timeout means 10s.
func NewEventComponentsService(components EventComponents, shutdownTimeout time.Duration) *EventComponentsService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &EventComponentsService{components: components, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. A failed Start is returned so suture
// retries with backoff.
func (s *EventComponentsService) Serve(ctx context.Context) error {
	if err := s.components.Start(ctx); err != nil {
		return fmt.Errorf("event components start failed: %w", err)
	}

	var runErr error
	select {
	case <-ctx.Done():
	case err := <-s.components.Done():
		runErr = errRouterStopped
		if err != nil {
			runErr = fmt.Errorf("%w: %w", errRouterStopped, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.components.Shutdown(shutdownCtx)

	if runErr != nil {
		return runErr
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture's logs.
func (s *EventComponentsService) String() string {
	return "event-components"
}
