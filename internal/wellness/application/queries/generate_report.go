package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// GenerateReportQuery asks the report generator for a narrative report.
type GenerateReportQuery struct {
	UserID string
	Kind   domain.ReportKind // Optional, defaults to a mood report
	Days   int               // Optional, defaults to DefaultWindowDays
}

// GenerateReportHandler handles GenerateReportQuery.
type GenerateReportHandler struct {
	reports *services.ReportService
	window  windowBuilder
}

// NewGenerateReportHandler creates a new handler.
func NewGenerateReportHandler(reports *services.ReportService, profiles *services.ProfileService, deviceID string) *GenerateReportHandler {
	return &GenerateReportHandler{
		reports: reports,
		window:  windowBuilder{profiles: profiles, deviceID: deviceID, now: time.Now},
	}
}

// Handle executes the query.
func (h *GenerateReportHandler) Handle(ctx context.Context, query GenerateReportQuery) (*domain.Report, error) {
	req, now := h.window.request(ctx, query.UserID, query.Days)
	switch query.Kind {
	case "", domain.ReportMood:
		return h.reports.MoodReport(ctx, req)
	case domain.ReportScreenTime:
		return h.reports.ScreenTimeReport(ctx, req, now)
	default:
		return nil, fmt.Errorf("unknown report kind %q", query.Kind)
	}
}
