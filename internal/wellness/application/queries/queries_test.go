package queries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/moodscope/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/cache"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
	"github.com/felixgeelhaar/moodscope/internal/wellness/infrastructure/devicedata"
	"github.com/felixgeelhaar/moodscope/internal/wellness/infrastructure/persistence"
)

type fixture struct {
	profiles   *services.ProfileService
	tracker    *services.SocialTracker
	analyzer   *services.ScreenTimeAnalyzer
	aggregator *services.WellnessAggregator
	moods      *persistence.MoodRepository
}

// newFixture wires the services over an in-memory database and an empty
// device export directory.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	conn, err := database.Open(ctx, database.Config{Driver: database.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)

	device := devicedata.NewSource(t.TempDir())
	f := &fixture{moods: persistence.NewMoodRepository(conn)}
	f.profiles = services.NewProfileService(persistence.NewProfileRepository(conn), domain.DefaultUserProfile(), nil)
	f.tracker = services.NewSocialTracker(persistence.NewHistoryRepository(conn), persistence.NewBaselineRepository(conn),
		device, f.profiles, services.DefaultSocialConfig(), nil)
	f.analyzer = services.NewScreenTimeAnalyzer(device, nil)
	f.aggregator = services.NewWellnessAggregator(f.moods, f.tracker, f.analyzer, nil, cache.NewMemoryCache(), nil)
	return f
}

func TestGetDailySeriesHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	handler := NewGetDailySeriesHandler(f.aggregator, f.profiles, "device-1")

	t.Run("defaults to a week of neutral days", func(t *testing.T) {
		chart, err := handler.Handle(ctx, GetDailySeriesQuery{UserID: "u1"})
		require.NoError(t, err)
		assert.False(t, chart.Fallback)
		assert.Len(t, chart.Labels, DefaultWindowDays)
		for _, v := range chart.Data {
			assert.Equal(t, domain.NeutralScore, v)
		}
		for _, status := range chart.Signals {
			assert.Equal(t, domain.StatusDefaulted, status)
		}
	})

	t.Run("logged mood moves today", func(t *testing.T) {
		today := domain.DateKey(time.Now(), time.UTC)
		require.NoError(t, f.moods.Save(ctx, domain.MoodEntry{UserID: "u2", Date: today, Level: 9, LoggedAt: time.Now()}))

		chart, err := handler.Handle(ctx, GetDailySeriesQuery{UserID: "u2", Days: 3})
		require.NoError(t, err)
		require.Len(t, chart.Data, 3)
		assert.Greater(t, chart.Data[2], domain.NeutralScore)
		assert.Equal(t, domain.StatusMeasured, chart.Signals[domain.SignalMood])
	})

	t.Run("rejects oversized windows", func(t *testing.T) {
		_, err := handler.Handle(ctx, GetDailySeriesQuery{UserID: "u1", Days: services.MaxWindowDays + 1})
		require.ErrorIs(t, err, domain.ErrInvalidWindow)

		_, err = handler.Handle(ctx, GetDailySeriesQuery{UserID: "u1", Days: -1})
		require.ErrorIs(t, err, domain.ErrInvalidWindow)
	})
}

func TestGetSocialScoreHandler(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	handler := NewGetSocialScoreHandler(f.tracker)

	result, err := handler.Handle(ctx, GetSocialScoreQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodWeek, result.Period)
	assert.Equal(t, domain.NeutralScore, result.Today.Score)
	assert.Equal(t, domain.SocialNoBaseline, result.Today.State)
	assert.Empty(t, result.History)

	_, err = handler.Handle(ctx, GetSocialScoreQuery{UserID: "u1", Period: "fortnight"})
	require.ErrorIs(t, err, domain.ErrInvalidWindow)
}

func TestGetScreenTimeHandler(t *testing.T) {
	f := newFixture(t)
	report, err := NewGetScreenTimeHandler(f.analyzer, f.profiles).Handle(context.Background(), GetScreenTimeQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDefaulted, report.Status)
	assert.Equal(t, domain.NeutralScore, report.Score)
}

func TestGenerateReportHandler(t *testing.T) {
	f := newFixture(t)
	reports := services.NewReportService(services.ReportDeps{Aggregator: f.aggregator, Screen: f.analyzer})
	handler := NewGenerateReportHandler(reports, f.profiles, "device-1")

	_, err := handler.Handle(context.Background(), GenerateReportQuery{UserID: "u1", Kind: "weather"})
	require.Error(t, err)

	_, err = handler.Handle(context.Background(), GenerateReportQuery{UserID: "u1"})
	require.ErrorIs(t, err, services.ErrReportFailed)
}
