package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var wednesday = time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)

type socialFixture struct {
	history   *memHistory
	baselines *memBaselines
	calls     *fakeCalls
	tracker   *SocialTracker
}

func newSocialFixture() *socialFixture {
	f := &socialFixture{
		history:   newMemHistory(),
		baselines: newMemBaselines(),
		calls: &fakeCalls{events: []domain.CallEvent{
			{Type: domain.CallOutgoing, Timestamp: wednesday.Add(-2 * time.Hour), DurationSeconds: 120, CounterpartyID: "a"},
			{Type: domain.CallOutgoing, Timestamp: wednesday.Add(-time.Hour), DurationSeconds: 60, CounterpartyID: "b"},
			{Type: domain.CallMissed, Timestamp: wednesday.AddDate(0, 0, -1), CounterpartyID: "c"},
		}},
	}
	profiles := NewProfileService(newMemProfiles(), domain.DefaultUserProfile(), testLogger())
	f.tracker = NewSocialTracker(f.history, f.baselines, f.calls, profiles, DefaultSocialConfig(), testLogger())
	return f
}

func TestSocialTracker_UpdateBackfillsNewUser(t *testing.T) {
	ctx := context.Background()
	f := newSocialFixture()

	result, err := f.tracker.Update(ctx, "u1", wednesday)
	require.NoError(t, err)

	assert.Len(t, result.Summaries, 7)
	assert.Equal(t, 7, result.Days)
	assert.Equal(t, time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC), f.calls.since)
	assert.Equal(t, domain.SocialHasBaseline, result.State)
	require.NotNil(t, result.Baseline)
	assert.InDelta(t, 2.0/7.0, result.Baseline.AvgOutgoing, 1e-9)
	assert.InDelta(t, 1.0/7.0, result.Baseline.AvgMissed, 1e-9)
	assert.InDelta(t, 90.0, result.Baseline.AvgDuration, 1e-9)

	stored := f.history.data["u1"]
	require.Len(t, stored, 7)
	assert.Equal(t, "2026-10-14", stored[0].Date)
	assert.Equal(t, 2, stored[0].OutgoingCount)
	assert.Equal(t, 1, stored[1].MissedCount)
}

func TestSocialTracker_UpdateSameDayReplacesToday(t *testing.T) {
	ctx := context.Background()
	f := newSocialFixture()

	_, err := f.tracker.Update(ctx, "u1", wednesday)
	require.NoError(t, err)
	result, err := f.tracker.Update(ctx, "u1", wednesday.Add(time.Hour))
	require.NoError(t, err)

	require.Len(t, result.Summaries, 1)
	assert.Equal(t, "2026-10-14", result.Summaries[0].Date)
	assert.Equal(t, 7, result.Days)
}

func TestSocialTracker_UpdateShortHistoryHasNoBaseline(t *testing.T) {
	ctx := context.Background()
	f := newSocialFixture()
	f.tracker.cfg.BaselineMinDays = 10
	// Existing user whose last entry was yesterday.
	f.history.data["u1"] = []domain.DailyInteractionSummary{{Date: "2026-10-13", IncomingCount: 1}}

	result, err := f.tracker.Update(ctx, "u1", wednesday)
	require.NoError(t, err)

	assert.Len(t, result.Summaries, 1)
	assert.Equal(t, 2, result.Days)
	assert.Nil(t, result.Baseline)
	assert.Equal(t, domain.SocialNoBaseline, result.State)
}

func TestSocialTracker_UpdateSummarisesMissedDays(t *testing.T) {
	ctx := context.Background()
	f := newSocialFixture()
	// Last update on Saturday, nothing since.
	f.history.data["u1"] = []domain.DailyInteractionSummary{
		{Date: "2026-10-10", OutgoingCount: 3},
		{Date: "2026-10-09", IncomingCount: 2},
	}

	result, err := f.tracker.Update(ctx, "u1", wednesday)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 11, 0, 0, 0, 0, time.UTC), f.calls.since)
	require.Len(t, result.Summaries, 4)
	assert.Equal(t, []domain.DailyInteractionSummary{
		{Date: "2026-10-11"},
		{Date: "2026-10-12"},
	}, result.Summaries[:2])
	assert.Equal(t, 1, result.Summaries[2].MissedCount)
	assert.Equal(t, 2, result.Summaries[3].OutgoingCount)
	assert.Equal(t, 6, result.Days)

	stored := f.history.data["u1"]
	require.Len(t, stored, 6)
	dates := make([]string, len(stored))
	for i, s := range stored {
		dates[i] = s.Date
	}
	assert.Equal(t, []string{"2026-10-14", "2026-10-13", "2026-10-12", "2026-10-11", "2026-10-10", "2026-10-09"}, dates)
	assert.Equal(t, 3, stored[4].OutgoingCount)
	assert.Equal(t, 2, stored[5].IncomingCount)
}

func TestSocialTracker_UpdateCallLogFailureKeepsHistory(t *testing.T) {
	ctx := context.Background()
	f := newSocialFixture()
	f.history.data["u1"] = []domain.DailyInteractionSummary{{Date: "2026-10-10", OutgoingCount: 3}}
	f.calls.err = domain.ErrSignalUnavailable

	_, err := f.tracker.Update(ctx, "u1", wednesday)
	require.ErrorIs(t, err, domain.ErrSignalUnavailable)
	assert.Zero(t, f.history.replaced)
	assert.Len(t, f.history.data["u1"], 1)
}

func TestSocialTracker_TodayScore(t *testing.T) {
	ctx := context.Background()

	t.Run("new user scores neutral", func(t *testing.T) {
		f := newSocialFixture()
		score := f.tracker.TodayScore(ctx, "u1")
		assert.Equal(t, domain.NeutralScore, score.Score)
		assert.Equal(t, domain.StatusDefaulted, score.Status)
		assert.Equal(t, domain.SocialNoBaseline, score.State)
	})

	t.Run("active day scores above neutral", func(t *testing.T) {
		f := newSocialFixture()
		_, err := f.tracker.Update(ctx, "u1", wednesday)
		require.NoError(t, err)

		score := f.tracker.TodayScore(ctx, "u1")
		assert.Equal(t, "2026-10-14", score.Date)
		assert.Equal(t, domain.StatusMeasured, score.Status)
		assert.Equal(t, domain.SocialHasBaseline, score.State)
		assert.Greater(t, score.Score, domain.NeutralScore)
		assert.LessOrEqual(t, score.Score, 10.0)
	})

	t.Run("unreadable history is unavailable", func(t *testing.T) {
		f := newSocialFixture()
		f.history.listErr = errBackend
		score := f.tracker.TodayScore(ctx, "u1")
		assert.Equal(t, domain.StatusUnavailable, score.Status)
		assert.Equal(t, domain.NeutralScore, score.Score)
	})
}

func TestSocialTracker_HistoricalScores(t *testing.T) {
	ctx := context.Background()
	f := newSocialFixture()
	_, err := f.tracker.Update(ctx, "u1", wednesday)
	require.NoError(t, err)

	scores, err := f.tracker.HistoricalScores(ctx, "u1", domain.PeriodWeek, wednesday)
	require.NoError(t, err)
	require.Len(t, scores, 7)
	assert.Equal(t, "2026-10-08", scores[0].Date)
	assert.Equal(t, "2026-10-14", scores[6].Date)

	_, err = f.tracker.HistoricalScores(ctx, "u1", domain.HistoryPeriod("decade"), wednesday)
	require.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestSocialTracker_DailyScores(t *testing.T) {
	ctx := context.Background()

	t.Run("without baseline", func(t *testing.T) {
		f := newSocialFixture()
		scores, status, err := f.tracker.DailyScores(ctx, "u1", "2026-10-08")
		require.NoError(t, err)
		assert.Empty(t, scores)
		assert.Equal(t, domain.StatusDefaulted, status)
	})

	t.Run("baseline store down", func(t *testing.T) {
		f := newSocialFixture()
		f.baselines.findErr = errBackend
		_, status, err := f.tracker.DailyScores(ctx, "u1", "2026-10-08")
		require.Error(t, err)
		assert.Equal(t, domain.StatusUnavailable, status)
	})

	t.Run("scored window", func(t *testing.T) {
		f := newSocialFixture()
		_, err := f.tracker.Update(ctx, "u1", wednesday)
		require.NoError(t, err)

		scores, status, err := f.tracker.DailyScores(ctx, "u1", "2026-10-12")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusMeasured, status)
		assert.Len(t, scores, 3)
		assert.Contains(t, scores, "2026-10-14")
	})
}
