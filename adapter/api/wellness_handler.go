package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// WellnessHandler handles the per-user scoring endpoints.
type WellnessHandler struct {
	recordInteractions *commands.RecordInteractionsHandler
	logMood            *commands.LogMoodHandler
	saveProfile        *commands.SaveProfileHandler
	clearCache         *commands.ClearCacheHandler
	dailySeries        *queries.GetDailySeriesHandler
	socialScore        *queries.GetSocialScoreHandler
	screenTime         *queries.GetScreenTimeHandler
	generateReport     *queries.GenerateReportHandler
	profiles           *services.ProfileService
	logger             *slog.Logger
}

// WellnessHandlerConfig holds dependencies for the wellness handler.
type WellnessHandlerConfig struct {
	RecordInteractions *commands.RecordInteractionsHandler
	LogMood            *commands.LogMoodHandler
	SaveProfile        *commands.SaveProfileHandler
	ClearCache         *commands.ClearCacheHandler
	DailySeries        *queries.GetDailySeriesHandler
	SocialScore        *queries.GetSocialScoreHandler
	ScreenTime         *queries.GetScreenTimeHandler
	GenerateReport     *queries.GenerateReportHandler
	Profiles           *services.ProfileService
	Logger             *slog.Logger
}

// NewWellnessHandler creates a new wellness handler.
func NewWellnessHandler(cfg WellnessHandlerConfig) *WellnessHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &WellnessHandler{
		recordInteractions: cfg.RecordInteractions,
		logMood:            cfg.LogMood,
		saveProfile:        cfg.SaveProfile,
		clearCache:         cfg.ClearCache,
		dailySeries:        cfg.DailySeries,
		socialScore:        cfg.SocialScore,
		screenTime:         cfg.ScreenTime,
		generateReport:     cfg.GenerateReport,
		profiles:           cfg.Profiles,
		logger:             cfg.Logger,
	}
}

// GetDailySeries handles GET /api/v1/users/{userID}/wellness
func (h *WellnessHandler) GetDailySeries(w http.ResponseWriter, r *http.Request) {
	days, ok := parseDays(w, r)
	if !ok {
		return
	}
	chart, err := h.dailySeries.Handle(r.Context(), queries.GetDailySeriesQuery{
		UserID: r.PathValue("userID"),
		Days:   days,
	})
	if err != nil {
		h.fail(w, r, "failed to compute series", err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

// GetSocialScore handles GET /api/v1/users/{userID}/social/score
func (h *WellnessHandler) GetSocialScore(w http.ResponseWriter, r *http.Request) {
	result, err := h.social(r)
	if err != nil {
		h.fail(w, r, "failed to get social score", err)
		return
	}
	writeJSON(w, http.StatusOK, result.Today)
}

// GetSocialHistory handles GET /api/v1/users/{userID}/social/history
func (h *WellnessHandler) GetSocialHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.social(r)
	if err != nil {
		h.fail(w, r, "failed to get social history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":  result.Period,
		"history": result.History,
	})
}

func (h *WellnessHandler) social(r *http.Request) (*queries.SocialScoreResult, error) {
	return h.socialScore.Handle(r.Context(), queries.GetSocialScoreQuery{
		UserID: r.PathValue("userID"),
		Period: domain.HistoryPeriod(r.URL.Query().Get("period")),
	})
}

// RecordInteractions handles POST /api/v1/users/{userID}/social/update
func (h *WellnessHandler) RecordInteractions(w http.ResponseWriter, r *http.Request) {
	result, err := h.recordInteractions.Handle(r.Context(), commands.RecordInteractionsCommand{
		UserID: r.PathValue("userID"),
	})
	if err != nil {
		h.fail(w, r, "failed to update interactions", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetScreenTime handles GET /api/v1/users/{userID}/screentime
func (h *WellnessHandler) GetScreenTime(w http.ResponseWriter, r *http.Request) {
	report, err := h.screenTime.Handle(r.Context(), queries.GetScreenTimeQuery{
		UserID: r.PathValue("userID"),
	})
	if err != nil {
		h.fail(w, r, "failed to analyze screen time", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type logMoodRequest struct {
	Level *float64 `json:"level"`
	Date  string   `json:"date"`
	Label string   `json:"label"`
	Scale *struct {
		Min float64 `json:"min"`
		Max float64 `json:"max"`
	} `json:"scale"`
}

// LogMood handles POST /api/v1/users/{userID}/mood
func (h *WellnessHandler) LogMood(w http.ResponseWriter, r *http.Request) {
	var req logMoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Level == nil {
		writeError(w, http.StatusBadRequest, "Field 'level' is required")
		return
	}

	cmd := commands.LogMoodCommand{
		UserID: r.PathValue("userID"),
		Date:   req.Date,
		Level:  *req.Level,
		Label:  req.Label,
	}
	if req.Scale != nil {
		cmd.Scale = &domain.MoodScale{Min: req.Scale.Min, Max: req.Scale.Max}
	}

	entry, err := h.logMood.Handle(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, "failed to log mood", err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// GetProfile handles GET /api/v1/users/{userID}/profile
func (h *WellnessHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, status := h.profiles.Get(r.Context(), r.PathValue("userID"))
	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"stored":  status == domain.StatusMeasured,
		"weights": domain.WeightsFor(profile.Age, profile.Role),
	})
}

// SaveProfile handles PUT /api/v1/users/{userID}/profile
func (h *WellnessHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var profile domain.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.saveProfile.Handle(r.Context(), commands.SaveProfileCommand{
		UserID:  r.PathValue("userID"),
		Profile: profile,
	}); err != nil {
		h.fail(w, r, "failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type reportRequest struct {
	Kind domain.ReportKind `json:"kind"`
	Days int               `json:"days"`
}

// GenerateReport handles POST /api/v1/users/{userID}/report
func (h *WellnessHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	switch req.Kind {
	case "", domain.ReportMood, domain.ReportScreenTime:
	default:
		writeError(w, http.StatusBadRequest, "Field 'kind' must be 'mood' or 'screentime'")
		return
	}

	report, err := h.generateReport.Handle(r.Context(), queries.GenerateReportQuery{
		UserID: r.PathValue("userID"),
		Kind:   req.Kind,
		Days:   req.Days,
	})
	if err != nil {
		h.fail(w, r, "failed to generate report", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// ClearCache handles POST /api/v1/users/{userID}/cache/clear
func (h *WellnessHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "User ID is required")
		return
	}
	h.clear(w, r, userID)
}

// ClearAllCaches handles POST /api/v1/cache/clear
func (h *WellnessHandler) ClearAllCaches(w http.ResponseWriter, r *http.Request) {
	h.clear(w, r, "")
}

func (h *WellnessHandler) clear(w http.ResponseWriter, r *http.Request, userID string) {
	result, err := h.clearCache.Handle(r.Context(), commands.ClearCacheCommand{UserID: userID})
	if err != nil {
		h.fail(w, r, "failed to clear cache", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// fail logs err and writes the response its class maps to. Client errors
// echo the message; server errors do not.
func (h *WellnessHandler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		h.logger.DebugContext(r.Context(), msg, "error", err)
		writeError(w, status, err.Error())
	case http.StatusBadGateway:
		writeError(w, status, services.ErrReportFailed.Error())
	default:
		h.logger.ErrorContext(r.Context(), msg, "error", err)
		writeError(w, status, "Internal server error")
	}
}

// parseDays reads the optional days parameter; a malformed value is answered
// with 400 and reported as not ok.
func parseDays(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("days")
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		writeError(w, http.StatusBadRequest, "Query parameter 'days' must be a positive integer")
		return 0, false
	}
	return days, true
}
