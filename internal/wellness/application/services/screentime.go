package services

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// trendWindowDays is the look-back used for trends and usage insights.
const trendWindowDays = 7

// ScreenTimeAnalyzer scores device usage for one user.
type ScreenTimeAnalyzer struct {
	usage  domain.UsageStatsSource
	logger *slog.Logger
}

// NewScreenTimeAnalyzer creates an analyzer on usage.
func NewScreenTimeAnalyzer(usage domain.UsageStatsSource, logger *slog.Logger) *ScreenTimeAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScreenTimeAnalyzer{usage: usage, logger: logger}
}

// ScreenTimeReport is today's contextual screen time assessment.
type ScreenTimeReport struct {
	Date         string                  `json:"date"`
	Score        float64                 `json:"score"`
	Status       domain.SignalStatus     `json:"status"`
	Hours        float64                 `json:"hours"`
	TimeContext  domain.TimeContext      `json:"time_context"`
	Insights     []string                `json:"insights"`
	Observations []string                `json:"observations"`
	Trend        domain.ScreenTimeTrend  `json:"trend"`
	Usage        domain.UsageAnalysis    `json:"usage"`
	History      []domain.ScreenTimeData `json:"history"`
	Apps         []domain.AppUsageRecord `json:"apps"`
}

// Analyze scores today's usage in the context of profile. Unreadable usage
// stats degrade to a neutral report rather than failing.
func (a *ScreenTimeAnalyzer) Analyze(ctx context.Context, userID string, profile domain.UserProfile, now time.Time) *ScreenTimeReport {
	loc := profile.Location()
	days := domain.Window(now, trendWindowDays, loc)
	report := &ScreenTimeReport{
		Date:         domain.DateKey(now, loc),
		Score:        domain.NeutralScore,
		TimeContext:  domain.TimeContextAt(profile, now),
		Insights:     []string{},
		Observations: []string{},
		Trend:        domain.ScreenTimeTrend{Trend: domain.TrendStable},
		History:      []domain.ScreenTimeData{},
		Apps:         []domain.AppUsageRecord{},
	}

	history, err := a.usage.ScreenTime(ctx, userID, days[0], days[len(days)-1])
	if err != nil {
		a.logger.WarnContext(ctx, "screen time unavailable, scoring neutral", "user_id", userID, "error", err)
		report.Status = domain.StatusUnavailable
		return report
	}
	apps := a.appUsage(ctx, userID, now, loc)

	in := domain.ScreenTimeContext{Usage: history, Apps: apps, Profile: profile, Now: now}
	score, err := domain.ScoreScreenTime(in)
	report.Status = domain.StatusMeasured
	if err != nil {
		a.logger.DebugContext(ctx, "no screen time for today, scoring neutral", "user_id", userID, "reason", err)
		report.Status = domain.StatusDefaulted
	}
	report.Score = domain.Round1(score)
	if today, ok := domain.ScreenTimeFor(history, report.Date); ok {
		report.Hours = today.Hours
	}

	report.Insights = domain.ScreenTimeInsights(in)
	report.Observations = domain.UsageInsights(history, apps)
	report.Trend = domain.ComputeScreenTimeTrend(history)
	report.Usage = domain.AnalyzeUsagePatterns(apps)
	report.History = history
	if apps != nil {
		report.Apps = apps
	}
	return report
}

// DailyScores returns a screen time wellbeing score per day of days keyed
// by date. Today is scored contextually when app usage is available; other
// days use the hours curve.
func (a *ScreenTimeAnalyzer) DailyScores(ctx context.Context, userID string, profile domain.UserProfile, days []time.Time, now time.Time) (map[string]float64, domain.SignalStatus, error) {
	if len(days) == 0 {
		return map[string]float64{}, domain.StatusDefaulted, nil
	}
	loc := profile.Location()
	history, err := a.usage.ScreenTime(ctx, userID, days[0], days[len(days)-1])
	if err != nil {
		return nil, domain.StatusUnavailable, err
	}

	wanted := make(map[string]bool, len(days))
	for _, k := range dayKeys(days, loc) {
		wanted[k] = true
	}
	today := domain.DateKey(now, loc)

	scores := make(map[string]float64, len(days))
	for _, d := range history {
		if !wanted[d.Date] || math.IsNaN(d.Hours) || d.Hours < 0 {
			continue
		}
		if d.Date == today {
			if apps := a.appUsage(ctx, userID, now, loc); len(apps) > 0 {
				scores[d.Date] = domain.Round1(domain.ContextualScreenTimeScore(domain.ScreenTimeContext{
					Usage: history, Apps: apps, Profile: profile, Now: now,
				}))
				continue
			}
		}
		scores[d.Date] = domain.Round1(domain.ScreenTimeWellbeing(d.Hours))
	}

	if len(scores) == 0 {
		return scores, domain.StatusDefaulted, nil
	}
	return scores, domain.StatusMeasured, nil
}

// Usage returns the raw screen time of the window and today's app usage,
// today being the date of now in loc.
func (a *ScreenTimeAnalyzer) Usage(ctx context.Context, userID string, days []time.Time, now time.Time, loc *time.Location) ([]domain.ScreenTimeData, []domain.AppUsageRecord, error) {
	if len(days) == 0 {
		return nil, nil, domain.ErrInvalidWindow
	}
	history, err := a.usage.ScreenTime(ctx, userID, days[0], days[len(days)-1])
	if err != nil {
		return nil, nil, err
	}
	return history, a.appUsage(ctx, userID, now, loc), nil
}

// appUsage reads the app usage of the local day of now.
func (a *ScreenTimeAnalyzer) appUsage(ctx context.Context, userID string, now time.Time, loc *time.Location) []domain.AppUsageRecord {
	if loc == nil {
		loc = time.UTC
	}
	apps, err := a.usage.AppUsage(ctx, userID, now.In(loc))
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, domain.ErrSignalUnavailable) {
			level = slog.LevelInfo
		}
		a.logger.Log(ctx, level, "app usage unavailable, scoring without categories", "user_id", userID, "error", err)
		return nil
	}
	return apps
}
