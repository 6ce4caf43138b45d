package subscribers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/cache"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

// CacheInvalidator drops a user's cached results when their inputs change.
type CacheInvalidator struct {
	cache   cache.Cache
	metrics observability.Metrics
	logger  *slog.Logger
}

// NewCacheInvalidator creates a new cache invalidation subscriber.
func NewCacheInvalidator(c cache.Cache, metrics observability.Metrics, logger *slog.Logger) *CacheInvalidator {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheInvalidator{cache: c, metrics: metrics, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (s *CacheInvalidator) EventTypes() []string {
	return []string{domain.RoutingKeySignalsChanged}
}

// Handle invalidates the cache of the user named in the event.
func (s *CacheInvalidator) Handle(ctx context.Context, event *eventbus.Envelope) error {
	var payload domain.SignalsChanged
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", event.RoutingKey, err)
	}
	userID := payload.UserID
	if userID == "" {
		userID = event.AggregateID
	}
	if userID == "" {
		s.logger.Warn("signals changed without a user, skipping", "event_id", event.EventID)
		return nil
	}

	if event.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, event.CorrelationID)
	}
	n, err := s.cache.Invalidate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to invalidate cache of %s: %w", userID, err)
	}

	s.metrics.Counter(observability.MetricEventsConsumed, 1, observability.T("routing_key", event.RoutingKey))
	s.metrics.Counter(observability.MetricCacheInvalidate, int64(n), observability.T("scope", "user"))
	s.logger.DebugContext(ctx, "cache invalidated",
		"user_id", userID, observability.SignalKey, string(payload.Signal), "removed", n)
	return nil
}
