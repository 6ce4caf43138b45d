package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

// ErrReportFailed is the single error surfaced to callers when a report
// could not be produced.
var ErrReportFailed = errors.New("could not generate report")

// ReportService assembles signal summaries and delegates report text to
// the external generator.
type ReportService struct {
	aggregator *WellnessAggregator
	history    domain.InteractionHistoryRepository
	stress     domain.StressSource
	screen     *ScreenTimeAnalyzer
	sleep      domain.SleepSource
	generator  domain.ReportGenerator
	metrics    observability.Metrics
	logger     *slog.Logger
}

// ReportDeps are the collaborators of a ReportService. Stress, Sleep and
// Generator may be nil when not configured.
type ReportDeps struct {
	Aggregator *WellnessAggregator
	History    domain.InteractionHistoryRepository
	Stress     domain.StressSource
	Screen     *ScreenTimeAnalyzer
	Sleep      domain.SleepSource
	Generator  domain.ReportGenerator
	Metrics    observability.Metrics
	Logger     *slog.Logger
}

// NewReportService creates a report service.
func NewReportService(deps ReportDeps) *ReportService {
	s := &ReportService{
		aggregator: deps.Aggregator,
		history:    deps.History,
		stress:     deps.Stress,
		screen:     deps.Screen,
		sleep:      deps.Sleep,
		generator:  deps.Generator,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
	}
	if s.metrics == nil {
		s.metrics = observability.NoopMetrics{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// MoodReport generates the wellbeing report of the window. Any failure is
// logged and surfaced as ErrReportFailed.
func (s *ReportService) MoodReport(ctx context.Context, req SeriesRequest) (*domain.Report, error) {
	if s.generator == nil {
		return nil, s.fail(ctx, domain.ReportMood, req.UserID, fmt.Errorf("%w: no report generator configured", domain.ErrSignalUnavailable))
	}
	in, err := s.moodInputs(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, domain.ReportMood, req.UserID, err)
	}
	report, err := s.generator.GenerateMoodReport(ctx, domain.BuildMoodReportRequest(in))
	if err != nil {
		return nil, s.fail(ctx, domain.ReportMood, req.UserID, err)
	}
	s.metrics.Counter(observability.MetricReportGenerated, 1, observability.T("kind", string(domain.ReportMood)))
	return report, nil
}

// ScreenTimeReport generates the screen time report of the window.
func (s *ReportService) ScreenTimeReport(ctx context.Context, req SeriesRequest, now time.Time) (*domain.Report, error) {
	if s.generator == nil {
		return nil, s.fail(ctx, domain.ReportScreenTime, req.UserID, fmt.Errorf("%w: no report generator configured", domain.ErrSignalUnavailable))
	}
	screen, apps, err := s.screen.Usage(ctx, req.UserID, req.Days, now, req.Profile.Location())
	if err != nil {
		return nil, s.fail(ctx, domain.ReportScreenTime, req.UserID, err)
	}
	report, err := s.generator.GenerateScreenTimeReport(ctx, domain.BuildScreenTimeReportRequest(screen, apps))
	if err != nil {
		return nil, s.fail(ctx, domain.ReportScreenTime, req.UserID, err)
	}
	s.metrics.Counter(observability.MetricReportGenerated, 1, observability.T("kind", string(domain.ReportScreenTime)))
	return report, nil
}

func (s *ReportService) moodInputs(ctx context.Context, req SeriesRequest) (domain.ReportInputs, error) {
	series, err := s.aggregator.DailySeries(ctx, req)
	if err != nil {
		return domain.ReportInputs{}, err
	}
	if series.Fallback {
		return domain.ReportInputs{}, fmt.Errorf("%w: no wellness signal reachable", domain.ErrSignalUnavailable)
	}

	loc := req.Profile.Location()
	keys := dayKeys(req.Days, loc)
	in := domain.ReportInputs{Series: series}

	var history []domain.DailyInteractionSummary
	if s.history != nil {
		if history, err = s.history.List(ctx, req.UserID); err != nil {
			s.logger.WarnContext(ctx, "report without interaction history", "user_id", req.UserID, "error", err)
		}
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Date >= keys[0] && history[i].Date <= keys[len(keys)-1] {
			in.History = append(in.History, history[i])
		}
	}

	if s.stress != nil {
		signal, err := s.stress.CurrentStress(ctx, req.DeviceID)
		if err != nil {
			s.logger.WarnContext(ctx, "report without work stress", "device_id", req.DeviceID, "error", err)
		} else {
			in.Stress = signal
		}
	}

	if screen, _, err := s.screen.Usage(ctx, req.UserID, req.Days, s.aggregator.now(), loc); err == nil {
		in.Screen = screen
	} else {
		s.logger.WarnContext(ctx, "report without screen time", "user_id", req.UserID, "error", err)
	}

	in.Sleep, in.SleepAccess = s.sleepSummaries(ctx, req.UserID, req.Days, keys, loc)
	return in, nil
}

func (s *ReportService) sleepSummaries(ctx context.Context, userID string, days []time.Time, keys []string, loc *time.Location) ([]domain.SleepSummary, bool) {
	if s.sleep == nil {
		return nil, false
	}
	segments, err := s.sleep.SleepSegments(ctx, userID, days[0], days[len(days)-1].AddDate(0, 0, 1))
	if err != nil {
		s.logger.InfoContext(ctx, "sleep tracking not accessible", "user_id", userID, "error", err)
		return nil, false
	}
	summaries := make([]domain.SleepSummary, 0, len(keys))
	for _, day := range keys {
		summaries = append(summaries, domain.SummarizeSleep(segments, day, loc))
	}
	return summaries, true
}

func (s *ReportService) fail(ctx context.Context, kind domain.ReportKind, userID string, err error) error {
	s.metrics.Counter(observability.MetricReportFailed, 1, observability.T("kind", string(kind)))
	s.logger.ErrorContext(ctx, "report generation failed", "kind", kind, "user_id", userID, "error", err)
	return fmt.Errorf("%w: %w", ErrReportFailed, err)
}
