package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// MoodEntry is a user's self-reported mood for one day on the 0-10 scale.
type MoodEntry struct {
	UserID   string    `json:"user_id"`
	Date     string    `json:"date"`
	Level    float64   `json:"level"`
	Label    string    `json:"label,omitempty"`
	LoggedAt time.Time `json:"logged_at"`
}

// MoodScale is the range a mood level was reported on.
type MoodScale struct {
	Min float64
	Max float64
}

// DefaultMoodScale is the native 0-10 scale.
var DefaultMoodScale = MoodScale{Min: 0, Max: 10}

// NormalizeMood rescales level from scale onto 0-10.
func NormalizeMood(level float64, scale MoodScale) (float64, error) {
	if math.IsNaN(level) || math.IsInf(level, 0) {
		return 0, fmt.Errorf("%w: not a number", ErrInvalidMood)
	}
	if scale.Max <= scale.Min {
		return 0, fmt.Errorf("%w: scale max %v must exceed min %v", ErrInvalidMood, scale.Max, scale.Min)
	}
	if level < scale.Min || level > scale.Max {
		return 0, fmt.Errorf("%w: %v outside [%v, %v]", ErrInvalidMood, level, scale.Min, scale.Max)
	}
	return (level - scale.Min) / (scale.Max - scale.Min) * 10, nil
}

// NewMoodEntry validates and normalizes a mood submission.
func NewMoodEntry(userID, date string, level float64, label string, scale MoodScale, loggedAt time.Time) (*MoodEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidMood)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrInvalidMood, date)
	}
	normalized, err := NormalizeMood(level, scale)
	if err != nil {
		return nil, err
	}
	return &MoodEntry{
		UserID:   userID,
		Date:     date,
		Level:    Round1(normalized),
		Label:    strings.TrimSpace(label),
		LoggedAt: loggedAt,
	}, nil
}
