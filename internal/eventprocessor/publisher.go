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
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cinerank/internal/metrics"
)

// Publisher wraps a Watermill publisher with resilience patterns.
// It works over any transport: NATS JetStream or the in-process channel.
type Publisher struct {
	publisher      message.Publisher
	circuitBreaker *gobreaker.CircuitBreaker[interface{}]
	serializer     *Serializer
	timeout        time.Duration
	mu             sync.RWMutex
	closed         bool
}

// NewPublisher wraps pub. A nil breaker publishes unprotected.
func NewPublisher(pub message.Publisher, cb *gobreaker.CircuitBreaker[interface{}], timeout time.Duration) *Publisher {
	return &Publisher{
		publisher:      pub,
		circuitBreaker: cb,
		serializer:     NewSerializer(),
		timeout:        timeout,
	}
}

// newNATSPublisher creates a Watermill JetStream publisher. The stream is
// provisioned beforehand by StreamInitializer.
func newNATSPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.ReconnectBufSize(cfg.ReconnectBuffer),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS publisher disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS publisher reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	wmConfig := wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: false,
			TrackMsgId:    cfg.EnableTrackMsgID,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}

	pub, err := wmNats.NewPublisher(wmConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return pub, nil
}

// Publish sends a message to topic with circuit breaker protection.
// The message UUID is used as Nats-Msg-Id for deduplication if not already set.
func (p *Publisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	if msg.Metadata.Get(natsgo.MsgIdHdr) == "" {
		msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	msg.SetContext(ctx)

	var err error
	if p.circuitBreaker != nil {
		_, err = p.circuitBreaker.Execute(func() (interface{}, error) {
			return nil, p.publisher.Publish(topic, msg)
		})
		metrics.CircuitBreakerRequests.WithLabelValues(p.circuitBreaker.Name(), breakerResult(err)).Inc()
	} else {
		err = p.publisher.Publish(topic, msg)
	}

	metrics.RecordEventPublished(topic, err)
	if err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// PublishEvent serializes and publishes an event on its topic.
func (p *Publisher) PublishEvent(ctx context.Context, event Event) error {
	data, err := p.serializer.Marshal(event)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(event.EventID(), data)
	return p.Publish(ctx, event.Topic(), msg)
}

// Close gracefully shuts down the publisher.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	return p.publisher.Close()
}

// WatermillPublisher returns the underlying Watermill publisher, e.g. for
// the poison queue middleware.
func (p *Publisher) WatermillPublisher() message.Publisher {
	return p.publisher
}

// HealthCheck implements HealthCheckable.
func (p *Publisher) HealthCheck(_ context.Context) ComponentHealth {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()

	health := ComponentHealth{Name: "publisher", LastCheck: time.Now()}
	if closed {
		health.Error = ErrPublisherClosed.Error()
		return health
	}

	health.Healthy = true
	if p.circuitBreaker != nil {
		state := CircuitBreakerState(p.circuitBreaker)
		health.Details = map[string]interface{}{"circuit_breaker": state}
		switch p.circuitBreaker.State() {
		case gobreaker.StateOpen:
			health.Healthy = false
			health.Error = "circuit breaker open"
		case gobreaker.StateHalfOpen:
			health.Degraded = true
			health.Message = "circuit breaker half-open"
		}
	}
	return health
}

func breakerResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "failure"
	}
}
