package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// GetDailySeriesQuery retrieves the composite wellbeing series.
type GetDailySeriesQuery struct {
	UserID string
	Days   int // Optional, defaults to DefaultWindowDays
}

// GetDailySeriesHandler handles GetDailySeriesQuery.
type GetDailySeriesHandler struct {
	aggregator *services.WellnessAggregator
	window     windowBuilder
}

// NewGetDailySeriesHandler creates a new handler. deviceID identifies the
// device to the stress API.
func NewGetDailySeriesHandler(aggregator *services.WellnessAggregator, profiles *services.ProfileService, deviceID string) *GetDailySeriesHandler {
	return &GetDailySeriesHandler{
		aggregator: aggregator,
		window:     windowBuilder{profiles: profiles, deviceID: deviceID, now: time.Now},
	}
}

// Handle executes the query.
func (h *GetDailySeriesHandler) Handle(ctx context.Context, query GetDailySeriesQuery) (*domain.WellnessChartData, error) {
	req, _ := h.window.request(ctx, query.UserID, query.Days)
	return h.aggregator.DailySeries(ctx, req)
}
