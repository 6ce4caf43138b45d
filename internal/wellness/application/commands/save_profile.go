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

// SaveProfileCommand replaces the profile of a user.
type SaveProfileCommand struct {
	UserID  string
	Profile domain.UserProfile
}

// SaveProfileHandler handles SaveProfileCommand.
type SaveProfileHandler struct {
	profiles *services.ProfileService
	events   notifier
}

// NewSaveProfileHandler creates a new save profile handler.
func NewSaveProfileHandler(profiles *services.ProfileService, publisher eventbus.Publisher, logger *slog.Logger) *SaveProfileHandler {
	return &SaveProfileHandler{
		profiles: profiles,
		events:   newNotifier(publisher, logger),
	}
}

// Handle executes the save profile command.
func (h *SaveProfileHandler) Handle(ctx context.Context, cmd SaveProfileCommand) error {
	if cmd.UserID == "" {
		return errors.New("user ID is required")
	}
	if err := h.profiles.Save(ctx, cmd.UserID, cmd.Profile); err != nil {
		return err
	}
	h.events.signalsChanged(ctx, cmd.UserID, domain.SignalProfile, time.Now())
	return nil
}
