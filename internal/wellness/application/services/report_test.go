package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

func newReportService(f *aggregatorFixture, gen domain.ReportGenerator, sleep domain.SleepSource) *ReportService {
	return NewReportService(ReportDeps{
		Aggregator: f.agg,
		History:    f.history,
		Stress:     f.stress,
		Screen:     f.agg.screen,
		Sleep:      sleep,
		Generator:  gen,
		Metrics:    f.metrics,
		Logger:     testLogger(),
	})
}

func TestReportService_MoodReport(t *testing.T) {
	f := newAggregatorFixture()
	f.history.data["u1"] = []domain.DailyInteractionSummary{
		{Date: "2026-10-14", OutgoingCount: 2},
		{Date: "2026-10-13", IncomingCount: 1},
		{Date: "2026-09-01", MissedCount: 4},
	}
	night := time.Date(2026, 10, 13, 23, 0, 0, 0, time.UTC)
	sleep := &fakeSleep{segments: []domain.SleepSegment{
		{Start: night, End: night.Add(8 * time.Hour), Status: domain.SleepStatusSuccessful},
	}}

	gen := new(mockGenerator)
	want := &domain.Report{WeeklyInsights: []string{"Steady week"}, ImprovementSuggestions: []string{"Call a friend"}}
	gen.On("GenerateMoodReport", mock.Anything, mock.MatchedBy(func(req domain.MoodReportRequest) bool {
		return len(req.Daily) == 3 &&
			req.AverageScore == 5.9 &&
			len(req.SocialHealth.DailySummaries) == 2 &&
			req.SocialHealth.DailySummaries[0].Date == "2026-10-13" &&
			req.WorkStress.WorkStressScore == 4 &&
			req.SleepPattern.SleepTrackingAccess &&
			req.SleepPattern.SleepScore == 10 &&
			req.ScreenTimeUsage.AverageHours == 3
	})).Return(want, nil)

	report, err := newReportService(f, gen, sleep).MoodReport(context.Background(), seriesRequest(3))
	require.NoError(t, err)
	assert.Equal(t, want, report)
	gen.AssertExpectations(t)
	assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricReportGenerated, observability.T("kind", "mood")))
}

func TestReportService_MoodReportWithoutSleepAccess(t *testing.T) {
	f := newAggregatorFixture()
	gen := new(mockGenerator)
	gen.On("GenerateMoodReport", mock.Anything, mock.MatchedBy(func(req domain.MoodReportRequest) bool {
		return !req.SleepPattern.SleepTrackingAccess && req.SleepPattern.SleepScore == domain.NeutralScore
	})).Return(&domain.Report{WeeklyInsights: []string{}, ImprovementSuggestions: []string{}}, nil)

	_, err := newReportService(f, gen, &fakeSleep{err: domain.ErrSignalUnavailable}).MoodReport(context.Background(), seriesRequest(3))
	require.NoError(t, err)
	gen.AssertExpectations(t)
}

func TestReportService_Failures(t *testing.T) {
	t.Run("generator error", func(t *testing.T) {
		f := newAggregatorFixture()
		gen := new(mockGenerator)
		gen.On("GenerateMoodReport", mock.Anything, mock.Anything).Return(nil, domain.ErrMalformedResponse)

		_, err := newReportService(f, gen, nil).MoodReport(context.Background(), seriesRequest(3))
		require.ErrorIs(t, err, ErrReportFailed)
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
		assert.Equal(t, int64(1), f.metrics.GetCounter(observability.MetricReportFailed, observability.T("kind", "mood")))
	})

	t.Run("no generator configured", func(t *testing.T) {
		f := newAggregatorFixture()
		_, err := newReportService(f, nil, nil).MoodReport(context.Background(), seriesRequest(3))
		require.ErrorIs(t, err, ErrReportFailed)
		assert.ErrorIs(t, err, domain.ErrSignalUnavailable)
	})

	t.Run("fallback series is not reported", func(t *testing.T) {
		f := newAggregatorFixture()
		f.moods.err = errBackend
		f.history.listErr = errBackend
		f.usage.screenErr = errBackend
		f.stress.err = errBackend
		gen := new(mockGenerator)

		_, err := newReportService(f, gen, nil).MoodReport(context.Background(), seriesRequest(3))
		require.ErrorIs(t, err, ErrReportFailed)
		gen.AssertNotCalled(t, "GenerateMoodReport", mock.Anything, mock.Anything)
	})
}

func TestReportService_ScreenTimeReport(t *testing.T) {
	f := newAggregatorFixture()
	f.usage.appsErr = nil
	f.usage.apps = []domain.AppUsageRecord{{AppID: "com.spotify", AppName: "Spotify", Duration: 90 * time.Minute}}

	gen := new(mockGenerator)
	gen.On("GenerateScreenTimeReport", mock.Anything, domain.ScreenTimeReportRequest{
		DailyScreenTime:   []domain.DailyScreenTime{{Date: "2026-10-14", TotalHours: 3}},
		AppUsageBreakdown: []domain.AppUsageSummary{{AppName: "Spotify", UsageHours: 1.5}},
	}).Return(&domain.Report{WeeklyInsights: []string{"ok"}, ImprovementSuggestions: []string{}}, nil)

	report, err := newReportService(f, gen, nil).ScreenTimeReport(context.Background(), seriesRequest(7), wednesday)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, report.WeeklyInsights)
	gen.AssertExpectations(t)
}
