// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerank/internal/embedding"
)

// Errors returned across the Engine boundary. Every failure leaving the
// Engine matches one of these with errors.Is, except caller cancellation
// (context.Canceled).
var (
	// ErrNotFound means the referenced item has no embedding. Not retryable.
	ErrNotFound = errors.New("item not found")

	// ErrUpstreamTimeout means an external source failed, timed out or is
	// shedding load behind an open circuit breaker. Retryable with backoff.
	ErrUpstreamTimeout = errors.New("upstream unavailable")

	// ErrInvalidInteraction means a recorded interaction failed validation.
	ErrInvalidInteraction = errors.New("invalid interaction")

	// ErrCatalogUnavailable means no catalog snapshot has been loaded yet.
	ErrCatalogUnavailable = errors.New("catalog not loaded")

	// ErrInternal wraps any other fault, such as a panic in a ranking
	// computation. Not retryable.
	ErrInternal = errors.New("internal recommendation error")
)

// IsRetryable reports whether err is worth retrying with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUpstreamTimeout) || errors.Is(err, ErrCatalogUnavailable)
}

// classify converts an error into the Engine taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUpstreamTimeout),
		errors.Is(err, ErrInvalidInteraction),
		errors.Is(err, ErrCatalogUnavailable),
		errors.Is(err, ErrInternal):
		return err
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, embedding.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrUpstreamTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
}
