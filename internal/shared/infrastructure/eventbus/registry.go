package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Registry routes envelopes to consumers by routing key.
type Registry struct {
	mu        sync.RWMutex
	consumers map[string][]EventConsumer
	logger    *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		consumers: make(map[string][]EventConsumer),
		logger:    logger,
	}
}

// Register subscribes consumer to each of its event types.
func (r *Registry) Register(consumer EventConsumer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range consumer.EventTypes() {
		r.consumers[key] = append(r.consumers[key], consumer)
	}
}

// RoutingKeys returns every key with at least one consumer.
func (r *Registry) RoutingKeys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.consumers))
	for k := range r.consumers {
		keys = append(keys, k)
	}
	return keys
}

// Count returns the number of registrations.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, cs := range r.consumers {
		n += len(cs)
	}
	return n
}

// Dispatch delivers event to every consumer of its routing key. All consumers
// run even when one fails; the failures are joined.
func (r *Registry) Dispatch(ctx context.Context, event *Envelope) error {
	r.mu.RLock()
	consumers := r.consumers[event.RoutingKey]
	r.mu.RUnlock()

	var errs []error
	for _, c := range consumers {
		if err := c.Handle(ctx, event); err != nil {
			r.logger.ErrorContext(ctx, "consumer failed",
				"routing_key", event.RoutingKey,
				"event_id", event.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// errUndecodable marks a body that can never be processed.
var errUndecodable = errors.New("undecodable event")

// dispatchBody decodes body and dispatches it, using routingKey when the
// envelope omits one.
func (r *Registry) dispatchBody(ctx context.Context, routingKey string, body []byte) error {
	event := &Envelope{}
	if err := json.Unmarshal(body, event); err != nil {
		return errors.Join(errUndecodable, err)
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}

	start := time.Now()
	if err := r.Dispatch(ctx, event); err != nil {
		return err
	}
	r.logger.DebugContext(ctx, "event dispatched",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
