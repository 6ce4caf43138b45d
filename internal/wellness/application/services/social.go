package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// SocialConfig bounds the retained interaction history.
type SocialConfig struct {
	// RetentionDays caps the history length.
	RetentionDays int
	// BaselineMinDays is the history length needed before a baseline is
	// computed. New users are back-filled with this many days.
	BaselineMinDays int
}

// DefaultSocialConfig keeps a year of history and needs a week for a baseline.
func DefaultSocialConfig() SocialConfig {
	return SocialConfig{RetentionDays: 365, BaselineMinDays: 7}
}

// SocialTracker maintains the per-user interaction history and baseline and
// scores days against it.
type SocialTracker struct {
	history   domain.InteractionHistoryRepository
	baselines domain.BaselineRepository
	calls     domain.CallEventSource
	profiles  *ProfileService
	cfg       SocialConfig
	logger    *slog.Logger
}

// NewSocialTracker creates a tracker.
func NewSocialTracker(
	history domain.InteractionHistoryRepository,
	baselines domain.BaselineRepository,
	calls domain.CallEventSource,
	profiles *ProfileService,
	cfg SocialConfig,
	logger *slog.Logger,
) *SocialTracker {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultSocialConfig()
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = def.RetentionDays
	}
	if cfg.BaselineMinDays <= 0 {
		cfg.BaselineMinDays = def.BaselineMinDays
	}
	return &SocialTracker{
		history:   history,
		baselines: baselines,
		calls:     calls,
		profiles:  profiles,
		cfg:       cfg,
		logger:    logger,
	}
}

// UpdateResult describes what an update changed.
type UpdateResult struct {
	Summaries []domain.DailyInteractionSummary `json:"summaries"`
	Baseline  *domain.InteractionBaseline      `json:"baseline,omitempty"`
	State     domain.SocialState               `json:"state"`
	Days      int                              `json:"history_days"`
}

// Update summarises the call log since the last update into the history and
// refreshes the baseline once enough days are retained. A new user is
// back-filled with BaselineMinDays days. Failure to read the call log leaves
// the stored history untouched.
func (t *SocialTracker) Update(ctx context.Context, userID string, now time.Time) (*UpdateResult, error) {
	profile, _ := t.profiles.Get(ctx, userID)
	loc := profile.Location()

	history, err := t.history.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interaction history: %w", err)
	}

	days := t.pendingDays(history, now, loc)
	since, _ := time.ParseInLocation(domain.DateLayout, days[0], loc)

	events, err := t.calls.CallEvents(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to read call log: %w", err)
	}

	summaries := domain.SummarizeByDay(events, days, loc)
	for _, s := range summaries {
		history = domain.UpdateHistory(history, s, t.cfg.RetentionDays)
	}
	if err := t.history.Replace(ctx, userID, history); err != nil {
		return nil, fmt.Errorf("failed to store interaction history: %w", err)
	}

	result := &UpdateResult{Summaries: summaries, Days: len(history)}
	if len(history) >= t.cfg.BaselineMinDays {
		baseline, err := domain.ComputeBaseline(history)
		if err != nil {
			return nil, err
		}
		baseline.UpdatedAt = now
		if err := t.baselines.Save(ctx, userID, baseline); err != nil {
			return nil, fmt.Errorf("failed to store baseline: %w", err)
		}
		result.Baseline = &baseline
	} else {
		t.logger.DebugContext(ctx, "history too short for a baseline",
			"user_id", userID, "days", len(history), "required", t.cfg.BaselineMinDays)
		if b, err := t.baselines.Find(ctx, userID); err == nil {
			result.Baseline = b
		}
	}
	result.State = domain.SocialStateOf(result.Baseline, history)

	t.logger.InfoContext(ctx, "interaction history updated",
		"user_id", userID, "summarised_days", len(summaries), "state", result.State)
	return result, nil
}

// pendingDays lists the day keys to summarise, oldest first, ending today.
func (t *SocialTracker) pendingDays(history []domain.DailyInteractionSummary, now time.Time, loc *time.Location) []string {
	today := domain.DateKey(now, loc)
	if len(history) == 0 {
		return dayKeys(domain.Window(now, t.cfg.BaselineMinDays, loc), loc)
	}

	last := history[0].Date
	if last >= today {
		return []string{today}
	}
	lastDay, err := time.ParseInLocation(domain.DateLayout, last, loc)
	if err != nil {
		return []string{today}
	}

	window := domain.Window(now, t.cfg.RetentionDays, loc)
	var days []string
	for _, d := range window {
		if d.After(lastDay) {
			days = append(days, domain.DateKey(d, loc))
		}
	}
	return days
}

// SocialScore is the social wellbeing of the latest summarised day.
type SocialScore struct {
	Date   string              `json:"date,omitempty"`
	Score  float64             `json:"score"`
	Status domain.SignalStatus `json:"status"`
	State  domain.SocialState  `json:"state"`
}

// TodayScore scores the most recent summary against the stored baseline.
// Brand-new users and unreadable state score neutral.
func (t *SocialTracker) TodayScore(ctx context.Context, userID string) SocialScore {
	neutral := SocialScore{Score: domain.NeutralScore, State: domain.SocialNoBaseline}

	history, err := t.history.List(ctx, userID)
	if err != nil {
		t.logger.WarnContext(ctx, "failed to load interaction history, scoring neutral", "user_id", userID, "error", err)
		neutral.Status = domain.StatusUnavailable
		return neutral
	}
	baseline, err := t.baselines.Find(ctx, userID)
	if err != nil {
		neutral.Status = t.absence(ctx, userID, err)
		return neutral
	}
	if len(history) == 0 {
		t.logger.DebugContext(ctx, "no interaction history, scoring neutral", "user_id", userID)
		neutral.Status = domain.StatusDefaulted
		return neutral
	}

	score, err := domain.ComputeSocialScore(history[0], *baseline)
	status := domain.StatusMeasured
	if err != nil {
		t.logger.WarnContext(ctx, "social score degenerate, scoring neutral", "user_id", userID, "error", err)
		status = domain.StatusDefaulted
	}
	return SocialScore{
		Date:   history[0].Date,
		Score:  score,
		Status: status,
		State:  domain.SocialStateOf(baseline, history),
	}
}

// HistoricalScores scores each retained day of period against the current
// baseline, oldest first. Without a baseline the result is empty.
func (t *SocialTracker) HistoricalScores(ctx context.Context, userID string, period domain.HistoryPeriod, now time.Time) ([]domain.DatedScore, error) {
	n, err := period.Days()
	if err != nil {
		return nil, err
	}
	scores, _, err := t.scoresSince(ctx, userID, t.windowStart(ctx, userID, now, n))
	if err != nil {
		return nil, err
	}
	return scores, nil
}

// DailyScores returns social scores keyed by date for every retained day on
// or after from.
func (t *SocialTracker) DailyScores(ctx context.Context, userID, from string) (map[string]float64, domain.SignalStatus, error) {
	scores, status, err := t.scoresSince(ctx, userID, from)
	if err != nil {
		return nil, domain.StatusUnavailable, err
	}
	byDate := make(map[string]float64, len(scores))
	for _, s := range scores {
		byDate[s.Date] = s.Score
	}
	return byDate, status, nil
}

func (t *SocialTracker) scoresSince(ctx context.Context, userID, from string) ([]domain.DatedScore, domain.SignalStatus, error) {
	history, err := t.history.List(ctx, userID)
	if err != nil {
		return nil, domain.StatusUnavailable, fmt.Errorf("failed to load interaction history: %w", err)
	}
	baseline, err := t.baselines.Find(ctx, userID)
	if err != nil {
		status := t.absence(ctx, userID, err)
		if status == domain.StatusUnavailable {
			return nil, status, fmt.Errorf("failed to load baseline: %w", err)
		}
		return []domain.DatedScore{}, status, nil
	}

	scores := domain.ScoreHistory(history, *baseline, from)
	if len(scores) == 0 {
		return scores, domain.StatusDefaulted, nil
	}
	return scores, domain.StatusMeasured, nil
}

func (t *SocialTracker) windowStart(ctx context.Context, userID string, now time.Time, days int) string {
	profile, _ := t.profiles.Get(ctx, userID)
	loc := profile.Location()
	return domain.DateKey(domain.Window(now, days, loc)[0], loc)
}

// absence classifies a baseline lookup error.
func (t *SocialTracker) absence(ctx context.Context, userID string, err error) domain.SignalStatus {
	if errors.Is(err, domain.ErrInsufficientData) {
		t.logger.DebugContext(ctx, "no baseline yet, scoring neutral", "user_id", userID)
		return domain.StatusDefaulted
	}
	t.logger.WarnContext(ctx, "failed to load baseline, scoring neutral", "user_id", userID, "error", err)
	return domain.StatusUnavailable
}

func dayKeys(days []time.Time, loc *time.Location) []string {
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = domain.DateKey(d, loc)
	}
	return keys
}
