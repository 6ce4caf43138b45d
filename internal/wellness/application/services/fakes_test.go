package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var errBackend = errors.New("backend down")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

type memHistory struct {
	mu         sync.Mutex
	data       map[string][]domain.DailyInteractionSummary
	listErr    error
	replaceErr error
	replaced   int
}

func newMemHistory() *memHistory {
	return &memHistory{data: map[string][]domain.DailyInteractionSummary{}}
}

func (m *memHistory) List(_ context.Context, userID string) ([]domain.DailyInteractionSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.DailyInteractionSummary, len(m.data[userID]))
	copy(out, m.data[userID])
	return out, nil
}

func (m *memHistory) Replace(_ context.Context, userID string, history []domain.DailyInteractionSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaced++
	m.data[userID] = append([]domain.DailyInteractionSummary(nil), history...)
	return nil
}

type memBaselines struct {
	mu      sync.Mutex
	data    map[string]domain.InteractionBaseline
	findErr error
}

func newMemBaselines() *memBaselines {
	return &memBaselines{data: map[string]domain.InteractionBaseline{}}
}

func (m *memBaselines) Find(_ context.Context, userID string) (*domain.InteractionBaseline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	b, ok := m.data[userID]
	if !ok {
		return nil, domain.ErrInsufficientData
	}
	return &b, nil
}

func (m *memBaselines) Save(_ context.Context, userID string, b domain.InteractionBaseline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[userID] = b
	return nil
}

type memProfiles struct {
	data    map[string]domain.UserProfile
	findErr error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{data: map[string]domain.UserProfile{}}
}

func (m *memProfiles) Find(_ context.Context, userID string) (*domain.UserProfile, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	p, ok := m.data[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

func (m *memProfiles) Save(_ context.Context, userID string, p domain.UserProfile) error {
	m.data[userID] = p
	return nil
}

type memMoods struct {
	mu      sync.Mutex
	entries []domain.MoodEntry
	err     error
}

func (m *memMoods) Save(_ context.Context, e domain.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, e)
	return nil
}

func (m *memMoods) ListRange(_ context.Context, userID, from, to string) ([]domain.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.MoodEntry
	for _, e := range m.entries {
		if e.UserID == userID && e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

type fakeCalls struct {
	events []domain.CallEvent
	err    error
	since  time.Time
}

func (f *fakeCalls) CallEvents(_ context.Context, _ string, since time.Time) ([]domain.CallEvent, error) {
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

type fakeUsage struct {
	screen    []domain.ScreenTimeData
	apps      []domain.AppUsageRecord
	// appsByDay, when set, serves app usage keyed by the date of the
	// requested day in its own location.
	appsByDay map[string][]domain.AppUsageRecord
	screenErr error
	appsErr   error
}

func (f *fakeUsage) ScreenTime(_ context.Context, _ string, _, _ time.Time) ([]domain.ScreenTimeData, error) {
	if f.screenErr != nil {
		return nil, f.screenErr
	}
	return f.screen, nil
}

func (f *fakeUsage) AppUsage(_ context.Context, _ string, day time.Time) ([]domain.AppUsageRecord, error) {
	if f.appsErr != nil {
		return nil, f.appsErr
	}
	if f.appsByDay != nil {
		return f.appsByDay[day.Format(domain.DateLayout)], nil
	}
	return f.apps, nil
}

type fakeStress struct {
	signal *domain.StressSignal
	err    error
}

func (f *fakeStress) CurrentStress(context.Context, string) (*domain.StressSignal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.signal, nil
}

type fakeSleep struct {
	segments []domain.SleepSegment
	err      error
}

func (f *fakeSleep) SleepSegments(context.Context, string, time.Time, time.Time) ([]domain.SleepSegment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) GenerateMoodReport(ctx context.Context, req domain.MoodReportRequest) (*domain.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockGenerator) GenerateScreenTimeReport(ctx context.Context, req domain.ScreenTimeReportRequest) (*domain.Report, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}
