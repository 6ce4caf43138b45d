package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// GetSocialScoreQuery retrieves today's social score and its history.
type GetSocialScoreQuery struct {
	UserID string
	Period domain.HistoryPeriod // Optional, defaults to a week
}

// SocialScoreResult contains the social score of a user.
type SocialScoreResult struct {
	Today   services.SocialScore `json:"today"`
	Period  domain.HistoryPeriod `json:"period"`
	History []domain.DatedScore  `json:"history"`
}

// GetSocialScoreHandler handles GetSocialScoreQuery.
type GetSocialScoreHandler struct {
	tracker *services.SocialTracker
	now     func() time.Time
}

// NewGetSocialScoreHandler creates a new handler.
func NewGetSocialScoreHandler(tracker *services.SocialTracker) *GetSocialScoreHandler {
	return &GetSocialScoreHandler{tracker: tracker, now: time.Now}
}

// Handle executes the query.
func (h *GetSocialScoreHandler) Handle(ctx context.Context, query GetSocialScoreQuery) (*SocialScoreResult, error) {
	period := query.Period
	if period == "" {
		period = domain.PeriodWeek
	}
	history, err := h.tracker.HistoricalScores(ctx, query.UserID, period, h.now())
	if err != nil {
		return nil, err
	}
	return &SocialScoreResult{
		Today:   h.tracker.TodayScore(ctx, query.UserID),
		Period:  period,
		History: history,
	}, nil
}
