// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerank/internal/embedding"
	"github.com/tomtom215/cinerank/internal/logging"
	"github.com/tomtom215/cinerank/internal/metrics"
)

// Upstream source names used in logs, metrics and breaker names.
const (
	sourceInteractions = "interactions"
	sourceMetadata     = "metadata"
	sourceFallback     = "fallback"
	sourceCatalog      = "catalog"
)

// upstream bounds calls to one external source with a timeout and a circuit
// breaker. Failures are reported as ErrUpstreamTimeout; caller cancellation
// passes through unchanged and does not count against the breaker.
type upstream struct {
	name    string
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker[any]
}

func newUpstream(name string, timeout time.Duration, cfg BreakerConfig) *upstream {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &upstream{name: name, timeout: timeout, cb: cb}
}

// State returns the breaker state name.
func (u *upstream) State() string {
	return u.cb.State().String()
}

// guarded runs fn against u with the combined deadline of ctx and u.timeout.
func guarded[T any](ctx context.Context, u *upstream, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if u.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.timeout)
		defer cancel()
	}

	res, err := u.cb.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, u.fail(err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(u.name, "success").Inc()
	v, ok := res.(T)
	if !ok && res != nil {
		return zero, fmt.Errorf("%s: unexpected result type %T", u.name, res)
	}
	return v, nil
}

func (u *upstream) fail(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(u.name, "rejected").Inc()
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(u.name, "failure").Inc()
	}
	metrics.RecordUpstreamFailure(u.name)
	return fmt.Errorf("%w: %s: %w", ErrUpstreamTimeout, u.name, err)
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// GuardSource wraps a catalog source with the upstream timeout and a
// circuit breaker. Load failures become ErrUpstreamTimeout.
func GuardSource(src embedding.Source, timeout time.Duration, cfg BreakerConfig) embedding.Source {
	u := newUpstream(sourceCatalog, timeout, cfg)
	return embedding.SourceFunc(func(ctx context.Context) (*embedding.Catalog, error) {
		return guarded(ctx, u, src.LoadCatalog)
	})
}
