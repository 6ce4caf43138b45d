package eventbus

import (
	"context"
	"errors"
	"log/slog"
)

// InProcessBus delivers published events synchronously to local consumers.
// Consumer failures are logged and never fail the publisher.
type InProcessBus struct {
	registry *Registry
	logger   *slog.Logger
}

// NewInProcessBus creates a bus with an empty registry.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{registry: NewRegistry(logger), logger: logger}
}

// RegisterConsumer subscribes consumer.
func (b *InProcessBus) RegisterConsumer(consumer EventConsumer) {
	b.registry.Register(consumer)
}

// Registry exposes the underlying registry.
func (b *InProcessBus) Registry() *Registry {
	return b.registry
}

func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	if err := b.registry.dispatchBody(ctx, routingKey, payload); err != nil {
		level := slog.LevelWarn
		if errors.Is(err, errUndecodable) {
			level = slog.LevelError
		}
		b.logger.Log(ctx, level, "in-process dispatch failed", "routing_key", routingKey, "error", err)
	}
	return nil
}

func (b *InProcessBus) Close() error { return nil }

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, []byte) error { return nil }

func (NoopPublisher) Close() error { return nil }
