package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// RecordInteractionsCommand summarises the call log into the history.
type RecordInteractionsCommand struct {
	UserID string
	Now    time.Time // Optional, defaults to the current time
}

// RecordInteractionsHandler handles RecordInteractionsCommand.
type RecordInteractionsHandler struct {
	tracker *services.SocialTracker
	events  notifier
}

// NewRecordInteractionsHandler creates a new record interactions handler.
func NewRecordInteractionsHandler(tracker *services.SocialTracker, publisher eventbus.Publisher, logger *slog.Logger) *RecordInteractionsHandler {
	return &RecordInteractionsHandler{
		tracker: tracker,
		events:  newNotifier(publisher, logger),
	}
}

// Handle executes the record interactions command.
func (h *RecordInteractionsHandler) Handle(ctx context.Context, cmd RecordInteractionsCommand) (*services.UpdateResult, error) {
	if cmd.UserID == "" {
		return nil, errors.New("user ID is required")
	}
	now := cmd.Now
	if now.IsZero() {
		now = time.Now()
	}

	result, err := h.tracker.Update(ctx, cmd.UserID, now)
	if err != nil {
		return nil, err
	}
	h.events.signalsChanged(ctx, cmd.UserID, domain.SignalSocial, now)
	return result, nil
}
