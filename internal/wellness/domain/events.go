package domain

import (
	"time"

	"github.com/google/uuid"
)

// RoutingKeySignalsChanged is published whenever stored wellbeing inputs of a
// user change.
const RoutingKeySignalsChanged = "wellness.signals.changed"

// AggregateType of wellness events.
const AggregateType = "wellness"

// SignalsChanged is the payload of RoutingKeySignalsChanged.
type SignalsChanged struct {
	EventID    uuid.UUID `json:"event_id"`
	UserID     string    `json:"user_id"`
	Signal     Signal    `json:"signal"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewSignalsChanged creates a change notification for userID.
func NewSignalsChanged(userID string, signal Signal, at time.Time) SignalsChanged {
	return SignalsChanged{
		EventID:    uuid.New(),
		UserID:     userID,
		Signal:     signal,
		OccurredAt: at.UTC(),
	}
}
