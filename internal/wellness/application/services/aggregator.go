package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/cache"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

const (
	// MaxWindowDays bounds a series request.
	MaxWindowDays = 90
	// DefaultSeriesTTL is how long a computed series is served from cache.
	DefaultSeriesTTL = 10 * time.Minute

	seriesCacheSignal = "series"
	labelLayout       = "Mon"
)

// SeriesRequest asks for the daily wellbeing series of one user.
type SeriesRequest struct {
	UserID   string
	DeviceID string
	// Days are the local midnights of the window, oldest first.
	Days    []time.Time
	Profile domain.UserProfile
}

func (r SeriesRequest) cacheKey() cache.Key {
	loc := r.Profile.Location()
	return cache.Key{
		UserID: r.UserID,
		Signal: seriesCacheSignal,
		Window: domain.DateKey(r.Days[0], loc) + ".." + domain.DateKey(r.Days[len(r.Days)-1], loc),
	}
}

// WellnessAggregator fans out to every signal and combines them per day.
type WellnessAggregator struct {
	moods   domain.MoodRepository
	social  *SocialTracker
	screen  *ScreenTimeAnalyzer
	stress  domain.StressSource
	cache   cache.Cache
	ttl     time.Duration
	metrics observability.Metrics
	now     func() time.Time
	logger  *slog.Logger
}

// NewWellnessAggregator creates an aggregator. stress may be nil when no
// stress API is configured; cache may be nil to disable caching.
func NewWellnessAggregator(
	moods domain.MoodRepository,
	social *SocialTracker,
	screen *ScreenTimeAnalyzer,
	stress domain.StressSource,
	c cache.Cache,
	logger *slog.Logger,
) *WellnessAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WellnessAggregator{
		moods:   moods,
		social:  social,
		screen:  screen,
		stress:  stress,
		cache:   c,
		ttl:     DefaultSeriesTTL,
		metrics: observability.NoopMetrics{},
		now:     time.Now,
		logger:  logger,
	}
}

// WithTTL sets the cache lifetime of computed series.
func (a *WellnessAggregator) WithTTL(ttl time.Duration) *WellnessAggregator {
	a.ttl = ttl
	return a
}

// WithMetrics sets the metrics sink.
func (a *WellnessAggregator) WithMetrics(m observability.Metrics) *WellnessAggregator {
	if m != nil {
		a.metrics = m
	}
	return a
}

// WithClock overrides the time source.
func (a *WellnessAggregator) WithClock(now func() time.Time) *WellnessAggregator {
	a.now = now
	return a
}

// signalSeries is one signal's scores over the window.
type signalSeries struct {
	status domain.SignalStatus
	scores map[string]float64
	// constant applies to every day when scores is nil.
	constant *float64
}

// at returns the score of day, nil for an unavailable signal and the
// neutral default for a missing day.
func (s signalSeries) at(day string) *float64 {
	if s.status == domain.StatusUnavailable {
		return nil
	}
	if s.constant != nil {
		return domain.Value(*s.constant)
	}
	if v, ok := s.scores[day]; ok {
		return domain.Value(v)
	}
	return domain.Value(domain.NeutralScore)
}

func unavailable() signalSeries {
	return signalSeries{status: domain.StatusUnavailable}
}

// DailySeries returns the composite score of each day in the window.
// Unreachable signals are left out of each day's weighting. When no source
// can be reached at all the static fallback dataset is returned.
func (a *WellnessAggregator) DailySeries(ctx context.Context, req SeriesRequest) (*domain.WellnessChartData, error) {
	if len(req.Days) == 0 || len(req.Days) > MaxWindowDays {
		return nil, fmt.Errorf("%w: window must hold 1 to %d days, got %d", domain.ErrInvalidWindow, MaxWindowDays, len(req.Days))
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidWindow)
	}

	key := req.cacheKey()
	if a.cache != nil {
		var cached domain.WellnessChartData
		hit, err := a.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			a.logger.WarnContext(ctx, "series cache read failed", "key", key.String(), "error", err)
		case hit:
			a.metrics.Counter(observability.MetricCacheHit, 1, observability.T("kind", seriesCacheSignal))
			return &cached, nil
		}
		a.metrics.Counter(observability.MetricCacheMiss, 1, observability.T("kind", seriesCacheSignal))
	}

	now := a.now()
	loc := req.Profile.Location()
	keys := dayKeys(req.Days, loc)

	var mood, social, screen, stress signalSeries
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		mood = a.moodSeries(gctx, req.UserID, keys)
		return nil
	})
	g.Go(func() error {
		social = a.socialSeries(gctx, req.UserID, keys[0])
		return nil
	})
	g.Go(func() error {
		screen = a.screenSeries(gctx, req, now)
		return nil
	})
	g.Go(func() error {
		stress = a.stressSeries(gctx, req.DeviceID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	weights := domain.WeightsFor(req.Profile.Age, req.Profile.Role)
	signals := map[domain.Signal]domain.SignalStatus{
		domain.SignalMood:       mood.status,
		domain.SignalSocial:     social.status,
		domain.SignalScreenTime: screen.status,
		domain.SignalWorkStress: stress.status,
	}
	a.recordStatuses(ctx, req.UserID, signals)

	allUnavailable := true
	for _, st := range signals {
		if st != domain.StatusUnavailable {
			allUnavailable = false
			break
		}
	}
	if allUnavailable {
		a.logger.WarnContext(ctx, "no wellness signal reachable, serving fallback dataset", "user_id", req.UserID)
		a.metrics.Counter(observability.MetricSeriesFallback, 1)
		fb := domain.FallbackChartData()
		fb.Weights = weights
		fb.Signals = signals
		fb.GeneratedAt = now.UTC()
		return fb, nil
	}

	chart := &domain.WellnessChartData{
		Labels:      make([]string, 0, len(keys)),
		Data:        make([]float64, 0, len(keys)),
		Days:        make([]domain.WellnessScore, 0, len(keys)),
		Signals:     signals,
		Weights:     weights,
		GeneratedAt: now.UTC(),
	}
	var total float64
	for i, day := range keys {
		score := domain.WellnessScore{
			Date:          day,
			Label:         req.Days[i].In(loc).Format(labelLayout),
			Mood:          mood.at(day),
			Social:        social.at(day),
			ScreenTime:    screen.at(day),
			WorkWellbeing: stress.at(day),
		}
		overall, ok := domain.Combine(score.Parts(weights))
		if !ok {
			overall = domain.NeutralScore
		}
		score.Overall = domain.Round1(overall)
		total += score.Overall

		chart.Labels = append(chart.Labels, score.Label)
		chart.Data = append(chart.Data, score.Overall)
		chart.Days = append(chart.Days, score)
		chart.Breakdown.Mood = append(chart.Breakdown.Mood, orNeutral(score.Mood))
		chart.Breakdown.Social = append(chart.Breakdown.Social, orNeutral(score.Social))
		chart.Breakdown.ScreenTime = append(chart.Breakdown.ScreenTime, orNeutral(score.ScreenTime))
		chart.Breakdown.WorkStress = append(chart.Breakdown.WorkStress, orNeutral(score.WorkWellbeing))
	}
	chart.Average = domain.Round1(total / float64(len(keys)))

	a.metrics.Counter(observability.MetricSeriesComputed, 1)
	a.metrics.Timing(observability.MetricSeriesDuration, a.now().Sub(now))

	if a.cache != nil {
		if err := a.cache.Set(ctx, key, chart, a.ttl); err != nil {
			a.logger.WarnContext(ctx, "series cache write failed", "key", key.String(), "error", err)
		}
	}
	return chart, nil
}

func (a *WellnessAggregator) moodSeries(ctx context.Context, userID string, keys []string) signalSeries {
	entries, err := a.moods.ListRange(ctx, userID, keys[0], keys[len(keys)-1])
	if err != nil {
		a.logger.WarnContext(ctx, "failed to load mood entries", "user_id", userID, "error", err)
		return unavailable()
	}
	s := signalSeries{status: domain.StatusDefaulted, scores: make(map[string]float64, len(entries))}
	for _, e := range entries {
		s.scores[e.Date] = e.Level
	}
	if len(s.scores) > 0 {
		s.status = domain.StatusMeasured
	}
	return s
}

func (a *WellnessAggregator) socialSeries(ctx context.Context, userID, from string) signalSeries {
	scores, status, err := a.social.DailyScores(ctx, userID, from)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to score social history", "user_id", userID, "error", err)
		return unavailable()
	}
	return signalSeries{status: status, scores: scores}
}

func (a *WellnessAggregator) screenSeries(ctx context.Context, req SeriesRequest, now time.Time) signalSeries {
	scores, status, err := a.screen.DailyScores(ctx, req.UserID, req.Profile, req.Days, now)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to read screen time", "user_id", req.UserID, "error", err)
		return unavailable()
	}
	return signalSeries{status: status, scores: scores}
}

// stressSeries broadcasts the current stress reading over the window since
// the stress API only reports the present.
func (a *WellnessAggregator) stressSeries(ctx context.Context, deviceID string) signalSeries {
	if a.stress == nil {
		neutral := domain.NeutralScore
		return signalSeries{status: domain.StatusDefaulted, constant: &neutral}
	}
	signal, err := a.stress.CurrentStress(ctx, deviceID)
	if err != nil {
		level := slog.LevelWarn
		if errors.Is(err, context.Canceled) {
			level = slog.LevelDebug
		}
		a.logger.Log(ctx, level, "failed to fetch work stress", "device_id", deviceID, "error", err)
		return unavailable()
	}
	wellbeing := domain.Round1(domain.WorkWellbeing(signal.Score))
	return signalSeries{status: domain.StatusMeasured, constant: &wellbeing}
}

func (a *WellnessAggregator) recordStatuses(ctx context.Context, userID string, signals map[domain.Signal]domain.SignalStatus) {
	for signal, status := range signals {
		switch status {
		case domain.StatusUnavailable:
			a.metrics.Counter(observability.MetricSignalDegraded, 1, observability.T("signal", string(signal)))
			a.logger.WarnContext(ctx, "signal unavailable, excluded from weighting",
				"user_id", userID, observability.SignalKey, string(signal))
		case domain.StatusDefaulted:
			a.logger.DebugContext(ctx, "signal absent, using neutral default",
				"user_id", userID, observability.SignalKey, string(signal))
		}
	}
}

func orNeutral(v *float64) float64 {
	if v == nil {
		return domain.NeutralScore
	}
	return *v
}
