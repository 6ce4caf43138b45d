package domain

import (
	"context"
	"time"
)

// InteractionHistoryRepository persists the rolling daily call summaries.
type InteractionHistoryRepository interface {
	// List returns the history newest first.
	List(ctx context.Context, userID string) ([]DailyInteractionSummary, error)
	// Replace stores history as the full retained set for the user.
	Replace(ctx context.Context, userID string, history []DailyInteractionSummary) error
}

// BaselineRepository persists one interaction baseline per user.
type BaselineRepository interface {
	// Find returns ErrInsufficientData when no baseline exists.
	Find(ctx context.Context, userID string) (*InteractionBaseline, error)
	Save(ctx context.Context, userID string, baseline InteractionBaseline) error
}

// ProfileRepository persists user profiles.
type ProfileRepository interface {
	// Find returns ErrProfileNotFound when no profile has been saved.
	Find(ctx context.Context, userID string) (*UserProfile, error)
	Save(ctx context.Context, userID string, profile UserProfile) error
}

// MoodRepository persists daily mood entries.
type MoodRepository interface {
	Save(ctx context.Context, entry MoodEntry) error
	// ListRange returns entries dated within [from, to], oldest first.
	ListRange(ctx context.Context, userID, from, to string) ([]MoodEntry, error)
}

// CallEventSource reads the device call log. Permission denial is reported
// as ErrSignalUnavailable.
type CallEventSource interface {
	CallEvents(ctx context.Context, userID string, since time.Time) ([]CallEvent, error)
}

// UsageStatsSource reads device screen time and app usage. Permission denial
// is reported as ErrSignalUnavailable.
type UsageStatsSource interface {
	ScreenTime(ctx context.Context, userID string, from, to time.Time) ([]ScreenTimeData, error)
	AppUsage(ctx context.Context, userID string, day time.Time) ([]AppUsageRecord, error)
}

// StressSource fetches the external work-stress reading.
type StressSource interface {
	CurrentStress(ctx context.Context, deviceID string) (*StressSignal, error)
}

// SleepSource reads detected sleep segments.
type SleepSource interface {
	SleepSegments(ctx context.Context, userID string, from, to time.Time) ([]SleepSegment, error)
}

// ReportGenerator delegates report text generation to an external service.
type ReportGenerator interface {
	GenerateMoodReport(ctx context.Context, req MoodReportRequest) (*Report, error)
	GenerateScreenTimeReport(ctx context.Context, req ScreenTimeReportRequest) (*Report, error)
}
