package cli

import (
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	RecordInteractionsHandler *commands.RecordInteractionsHandler
	LogMoodHandler            *commands.LogMoodHandler
	SaveProfileHandler        *commands.SaveProfileHandler
	ClearCacheHandler         *commands.ClearCacheHandler

	// Query Handlers
	GetDailySeriesHandler *queries.GetDailySeriesHandler
	GetSocialScoreHandler *queries.GetSocialScoreHandler
	GetScreenTimeHandler  *queries.GetScreenTimeHandler
	GenerateReportHandler *queries.GenerateReportHandler

	// Profiles resolves the stored or default profile.
	Profiles *services.ProfileService

	// Health reports backend connectivity.
	Health *observability.HealthRegistry

	// Current user (configured per environment)
	CurrentUserID string
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	recordInteractionsHandler *commands.RecordInteractionsHandler,
	logMoodHandler *commands.LogMoodHandler,
	saveProfileHandler *commands.SaveProfileHandler,
	clearCacheHandler *commands.ClearCacheHandler,
	getDailySeriesHandler *queries.GetDailySeriesHandler,
	getSocialScoreHandler *queries.GetSocialScoreHandler,
	getScreenTimeHandler *queries.GetScreenTimeHandler,
	generateReportHandler *queries.GenerateReportHandler,
	profiles *services.ProfileService,
) *App {
	return &App{
		RecordInteractionsHandler: recordInteractionsHandler,
		LogMoodHandler:            logMoodHandler,
		SaveProfileHandler:        saveProfileHandler,
		ClearCacheHandler:         clearCacheHandler,
		GetDailySeriesHandler:     getDailySeriesHandler,
		GetSocialScoreHandler:     getSocialScoreHandler,
		GetScreenTimeHandler:      getScreenTimeHandler,
		GenerateReportHandler:     generateReportHandler,
		Profiles:                  profiles,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id string) {
	a.CurrentUserID = id
}

// SetHealth updates the health registry.
func (a *App) SetHealth(h *observability.HealthRegistry) {
	a.Health = h
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
