// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"
	"sync"
	"time"
)

// HealthStatusType is the rolled-up state of the event bus.
type HealthStatusType string

const (
	HealthStatusHealthy   HealthStatusType = "healthy"
	HealthStatusDegraded  HealthStatusType = "degraded"  // working, with a component reporting trouble
	HealthStatusUnhealthy HealthStatusType = "unhealthy" // at least one component is down
)

// ComponentHealth is one component's check result.
type ComponentHealth struct {
	Healthy   bool                   `json:"healthy"`
	Degraded  bool                   `json:"degraded,omitempty"`
	Name      string                 `json:"name"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	LastCheck time.Time              `json:"last_check"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// HealthCheckable is implemented by the bus transport and the router.
type HealthCheckable interface {
	HealthCheck(ctx context.Context) ComponentHealth
}

// OverallHealth is what /api/v1/health embeds under "events".
type OverallHealth struct {
	Healthy    bool                       `json:"healthy"`
	Status     HealthStatusType           `json:"status"`
	Transport  string                     `json:"transport"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]ComponentHealth `json:"components"`
}

// HealthChecker fans a health check out to every registered component.
type HealthChecker struct {
	timeout    time.Duration
	mu         sync.RWMutex
	components map[string]HealthCheckable
}

// NewHealthChecker bounds each component check by timeout (default 5s).
func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{
		timeout:    timeout,
		components: make(map[string]HealthCheckable),
	}
}

// RegisterComponent adds or replaces the component checked under name.
func (h *HealthChecker) RegisterComponent(name string, component HealthCheckable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = component
}

// CheckAll runs every check concurrently. One unhealthy component makes
// the whole result unhealthy; a degraded one downgrades a healthy result.
func (h *HealthChecker) CheckAll(ctx context.Context) OverallHealth {
	h.mu.RLock()
	results := make(chan ComponentHealth, len(h.components))
	for name, comp := range h.components {
		go func() { results <- h.check(ctx, name, comp) }()
	}
	n := len(h.components)
	h.mu.RUnlock()

	overall := OverallHealth{
		Healthy:    true,
		Status:     HealthStatusHealthy,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth, n),
	}
	for range n {
		res := <-results
		overall.Components[res.Name] = res
		switch {
		case !res.Healthy:
			overall.Healthy = false
			overall.Status = HealthStatusUnhealthy
		case res.Degraded && overall.Status == HealthStatusHealthy:
			overall.Status = HealthStatusDegraded
		}
	}
	return overall
}

// check runs one component check, reporting a timeout as unhealthy even
// if the component ignores its context.
func (h *HealthChecker) check(ctx context.Context, name string, comp HealthCheckable) ComponentHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	done := make(chan ComponentHealth, 1)
	go func() { done <- comp.HealthCheck(ctx) }()

	var res ComponentHealth
	select {
	case res = <-done:
	case <-ctx.Done():
		res = ComponentHealth{Error: "health check timeout"}
	}
	res.Name = name
	res.LastCheck = time.Now()
	return res
}
