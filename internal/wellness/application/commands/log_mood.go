package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// LogMoodCommand contains a self-reported mood.
type LogMoodCommand struct {
	UserID string
	Date   string // Optional, defaults to today in the profile timezone
	Level  float64
	Label  string
	Scale  *domain.MoodScale // Optional, defaults to 0-10
}

// LogMoodHandler handles LogMoodCommand.
type LogMoodHandler struct {
	moods    domain.MoodRepository
	profiles *services.ProfileService
	events   notifier
	now      func() time.Time
}

// NewLogMoodHandler creates a new log mood handler.
func NewLogMoodHandler(moods domain.MoodRepository, profiles *services.ProfileService, publisher eventbus.Publisher, logger *slog.Logger) *LogMoodHandler {
	return &LogMoodHandler{
		moods:    moods,
		profiles: profiles,
		events:   newNotifier(publisher, logger),
		now:      time.Now,
	}
}

// Handle executes the log mood command. A second entry for the same day
// replaces the first.
func (h *LogMoodHandler) Handle(ctx context.Context, cmd LogMoodCommand) (*domain.MoodEntry, error) {
	now := h.now()
	date := cmd.Date
	if date == "" {
		profile, _ := h.profiles.Get(ctx, cmd.UserID)
		date = domain.DateKey(now, profile.Location())
	}
	scale := domain.DefaultMoodScale
	if cmd.Scale != nil {
		scale = *cmd.Scale
	}

	entry, err := domain.NewMoodEntry(cmd.UserID, date, cmd.Level, cmd.Label, scale, now.UTC())
	if err != nil {
		return nil, err
	}
	if err := h.moods.Save(ctx, *entry); err != nil {
		return nil, fmt.Errorf("failed to save mood: %w", err)
	}

	h.events.signalsChanged(ctx, cmd.UserID, domain.SignalMood, now)
	return entry, nil
}
