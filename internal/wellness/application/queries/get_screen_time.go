package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
)

// GetScreenTimeQuery retrieves today's screen time assessment.
type GetScreenTimeQuery struct {
	UserID string
}

// GetScreenTimeHandler handles GetScreenTimeQuery.
type GetScreenTimeHandler struct {
	analyzer *services.ScreenTimeAnalyzer
	profiles *services.ProfileService
	now      func() time.Time
}

// NewGetScreenTimeHandler creates a new handler.
func NewGetScreenTimeHandler(analyzer *services.ScreenTimeAnalyzer, profiles *services.ProfileService) *GetScreenTimeHandler {
	return &GetScreenTimeHandler{analyzer: analyzer, profiles: profiles, now: time.Now}
}

// Handle executes the query.
func (h *GetScreenTimeHandler) Handle(ctx context.Context, query GetScreenTimeQuery) (*services.ScreenTimeReport, error) {
	profile, _ := h.profiles.Get(ctx, query.UserID)
	return h.analyzer.Analyze(ctx, query.UserID, profile, h.now()), nil
}
