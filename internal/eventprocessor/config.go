// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"fmt"
	"time"
)

// BusConfig selects and configures the event transport.
type BusConfig struct {
	// NATSEnabled routes events through NATS JetStream. When false the bus
	// is an in-process Go channel and events never leave this instance.
	NATSEnabled bool

	// URL is the NATS server connection URL. Ignored with EmbeddedServer.
	URL string

	// EmbeddedServer starts a NATS server inside this process.
	EmbeddedServer bool

	// Server configures the embedded server.
	Server ServerConfig

	// Stream configures the JetStream stream holding every topic.
	Stream StreamConfig

	// SubscribersCount is the number of concurrent message processors.
	// Forced to 1 without a queue group so each instance sees each event once.
	SubscribersCount int

	// QueueGroup load-balances events across instances. Leave empty so every
	// instance receives every event.
	QueueGroup string

	// PublishTimeout bounds a single publish.
	PublishTimeout time.Duration

	// Breaker protects publishing against an unreachable server.
	Breaker CircuitBreakerConfig

	// Router configures handler middleware.
	Router RouterConfig
}

// DefaultBusConfig returns an in-process bus with production defaults.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		NATSEnabled:      false,
		URL:              "nats://127.0.0.1:4222",
		EmbeddedServer:   true,
		Server:           DefaultServerConfig(),
		Stream:           DefaultStreamConfig(),
		SubscribersCount: 1,
		PublishTimeout:   5 * time.Second,
		Breaker:          DefaultCircuitBreakerConfig("event-publisher"),
		Router:           DefaultRouterConfig(),
	}
}

// Validate checks the configuration for errors.
func (c *BusConfig) Validate() error {
	if c.PublishTimeout <= 0 {
		return fmt.Errorf("%w: publish timeout must be positive", ErrInvalidConfig)
	}
	if c.Breaker.FailureThreshold == 0 {
		return fmt.Errorf("%w: breaker failure threshold must be positive", ErrInvalidConfig)
	}
	if !c.NATSEnabled {
		return nil
	}
	if !c.EmbeddedServer && c.URL == "" {
		return fmt.Errorf("%w: NATS URL required without the embedded server", ErrInvalidConfig)
	}
	if c.Stream.Name == "" || len(c.Stream.Subjects) == 0 {
		return fmt.Errorf("%w: stream name and subjects are required", ErrInvalidConfig)
	}
	return nil
}

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int // -1 picks a random free port
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for embedded NATS server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 1 << 30,   // 1GB
	}
}

// PublisherConfig holds NATS publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for publisher.
func DefaultPublisherConfig(url string) PublisherConfig {
	return PublisherConfig{
		URL:              url,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds NATS subscriber configuration.
type SubscriberConfig struct {
	URL              string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration

	// StreamName binds the subscriber to an existing stream. Required
	// because the stream is provisioned by StreamInitializer.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for subscriber.
func DefaultSubscriberConfig(url string) SubscriberConfig {
	return SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    256,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
	}
}

// StreamConfig defines event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns production stream configuration.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Name:            "CINERANK_EVENTS",
		Subjects:        []string{SubjectRoot + ".>"},
		MaxAge:          24 * time.Hour,
		MaxBytes:        1 << 30, // 1GB
		MaxMsgs:         -1,      // Unlimited
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}
