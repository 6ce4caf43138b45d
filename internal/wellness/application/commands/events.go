package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

// notifier publishes SignalsChanged after a command stored new inputs.
// Publishing is best effort: the command has already succeeded.
type notifier struct {
	publisher eventbus.Publisher
	logger    *slog.Logger
}

func newNotifier(publisher eventbus.Publisher, logger *slog.Logger) notifier {
	if publisher == nil {
		publisher = eventbus.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return notifier{publisher: publisher, logger: logger}
}

func (n notifier) signalsChanged(ctx context.Context, userID string, signal domain.Signal, at time.Time) {
	env, err := eventbus.NewEnvelope(domain.RoutingKeySignalsChanged, domain.AggregateType, userID,
		domain.NewSignalsChanged(userID, signal, at))
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to build event", "routing_key", domain.RoutingKeySignalsChanged, "error", err)
		return
	}
	env.CorrelationID = observability.CorrelationIDFromContext(ctx)

	if err := eventbus.PublishEnvelope(ctx, n.publisher, env); err != nil {
		n.logger.WarnContext(ctx, "failed to publish event",
			"routing_key", env.RoutingKey, "user_id", userID, observability.SignalKey, string(signal), "error", err)
	}
}
