// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// Transport names reported by Bus.Transport.
const (
	TransportChannel = "channel"
	TransportNATS    = "nats"
)

// Bus owns the publisher and subscriber for one transport together with
// everything they depend on: the embedded NATS server, the JetStream
// stream and the connection used to manage it.
type Bus struct {
	cfg        BusConfig
	instanceID string
	logger     zerolog.Logger
	wmLogger   watermill.LoggerAdapter

	publisher  *Publisher
	subscriber message.Subscriber

	server *EmbeddedServer
	conn   *natsgo.Conn
	stream *StreamInitializer

	health *HealthChecker
}

// NewBus starts the configured transport. With NATS disabled events travel
// over an in-process Go channel and reach only this instance.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBus(ctx context.Context, cfg BusConfig, logger zerolog.Logger, instanceID string) (*Bus, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if instanceID == "" {
		return nil, fmt.Errorf("%w: instance id is required", ErrInvalidConfig)
	}

	b := &Bus{
		cfg:        cfg,
		instanceID: instanceID,
		logger:     logger.With().Str("component", "eventbus").Logger(),
		health:     NewHealthChecker(5 * time.Second),
	}
	b.wmLogger = NewZerologAdapter(b.logger)

	var err error
	if cfg.NATSEnabled {
		err = b.startNATS(ctx)
	} else {
		b.startChannel()
	}
	if err != nil {
		b.Close(context.Background()) //nolint:errcheck // best-effort cleanup
		return nil, err
	}

	b.health.RegisterComponent("publisher", b.publisher)
	b.health.RegisterComponent("transport", b)

	b.logger.Info().
		Str("transport", b.Transport()).
		Str("instance_id", instanceID).
		Msg("Event bus started")
	return b, nil
}

func (b *Bus) startChannel() {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, b.wmLogger)

	b.publisher = NewPublisher(ch, NewCircuitBreaker(b.cfg.Breaker), b.cfg.PublishTimeout)
	b.subscriber = ch
}

func (b *Bus) startNATS(ctx context.Context) error {
	url := b.cfg.URL
	if b.cfg.EmbeddedServer {
		srv, err := NewEmbeddedServer(&b.cfg.Server)
		if err != nil {
			return fmt.Errorf("start embedded NATS: %w", err)
		}
		b.server = srv
		url = srv.ClientURL()
		b.logger.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	nc, err := natsgo.Connect(url,
		natsgo.Name("cinerank-"+b.instanceID),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	b.conn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	b.stream, err = NewStreamInitializer(js, &b.cfg.Stream)
	if err != nil {
		return err
	}
	if _, err := b.stream.EnsureStream(ctx); err != nil {
		return err
	}

	pub, err := newNATSPublisher(DefaultPublisherConfig(url), b.wmLogger)
	if err != nil {
		return err
	}
	b.publisher = NewPublisher(pub, NewCircuitBreaker(b.cfg.Breaker), b.cfg.PublishTimeout)

	subCfg := DefaultSubscriberConfig(url)
	subCfg.QueueGroup = b.cfg.QueueGroup
	subCfg.SubscribersCount = b.cfg.SubscribersCount
	subCfg.StreamName = b.cfg.Stream.Name
	if b.cfg.Router.CloseTimeout > 0 {
		subCfg.CloseTimeout = b.cfg.Router.CloseTimeout
	}

	b.subscriber, err = newNATSSubscriber(&subCfg, b.wmLogger)
	return err
}

// InstanceID identifies this process as an event origin.
func (b *Bus) InstanceID() string { return b.instanceID }

// Transport returns TransportNATS or TransportChannel.
func (b *Bus) Transport() string {
	if b.cfg.NATSEnabled {
		return TransportNATS
	}
	return TransportChannel
}

// Publisher returns the bus publisher.
func (b *Bus) Publisher() *Publisher { return b.publisher }

// Subscriber returns the bus subscriber.
func (b *Bus) Subscriber() message.Subscriber { return b.subscriber }

// WatermillLogger returns the adapter shared by bus components.
func (b *Bus) WatermillLogger() watermill.LoggerAdapter { return b.wmLogger }

// NewRouter creates a router consuming from this bus. Poisoned messages
// are published back onto the bus.
func (b *Bus) NewRouter() (*Router, error) {
	r, err := NewRouter(&b.cfg.Router, b.publisher.WatermillPublisher(), b.wmLogger)
	if err != nil {
		return nil, err
	}
	b.health.RegisterComponent("router", r)
	return r, nil
}

// Health checks every bus component.
func (b *Bus) Health(ctx context.Context) OverallHealth {
	h := b.health.CheckAll(ctx)
	h.Transport = b.Transport()
	return h
}

// HealthCheck implements HealthCheckable for the transport itself.
func (b *Bus) HealthCheck(ctx context.Context) ComponentHealth {
	health := ComponentHealth{Name: "transport", LastCheck: time.Now()}

	if !b.cfg.NATSEnabled {
		health.Healthy = true
		health.Message = "in-process channel"
		return health
	}

	details := map[string]interface{}{}
	health.Details = details

	if b.server != nil {
		details["embedded_server"] = b.server.IsRunning()
		if !b.server.IsRunning() {
			health.Error = "embedded NATS server not running"
			return health
		}
	}

	if b.conn == nil || !b.conn.IsConnected() {
		health.Error = "not connected to NATS"
		return health
	}
	details["url"] = b.conn.ConnectedUrl()

	if !b.stream.IsHealthy(ctx) {
		health.Error = fmt.Sprintf("stream %s unavailable", b.cfg.Stream.Name)
		return health
	}

	health.Healthy = true
	health.Message = "connected"
	return health
}

// Close shuts down the publisher, subscriber, NATS connection and embedded
// server in that order.
func (b *Bus) Close(ctx context.Context) error {
	var errs []error

	if b.publisher != nil {
		if err := b.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if b.subscriber != nil {
		if err := b.subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	if b.conn != nil {
		if err := b.conn.Drain(); err != nil && !errors.Is(err, natsgo.ErrConnectionClosed) {
			errs = append(errs, fmt.Errorf("drain NATS connection: %w", err))
		}
	}
	if b.server != nil {
		if err := b.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown embedded NATS: %w", err))
		}
	}

	return errors.Join(errs...)
}
