package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/adapter/cli/cache"
	"github.com/felixgeelhaar/moodscope/adapter/cli/mood"
	"github.com/felixgeelhaar/moodscope/adapter/cli/profile"
	"github.com/felixgeelhaar/moodscope/adapter/cli/report"
	"github.com/felixgeelhaar/moodscope/adapter/cli/screentime"
	"github.com/felixgeelhaar/moodscope/adapter/cli/series"
	"github.com/felixgeelhaar/moodscope/adapter/cli/social"
	"github.com/felixgeelhaar/moodscope/internal/app"
	"github.com/felixgeelhaar/moodscope/pkg/config"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if !cfg.IsDevelopment() {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		// version and help still work without storage
		logger.Warn("failed to initialize container, running in limited mode", "error", err)
	} else {
		defer container.Close()

		cliApp = cli.NewApp(
			container.RecordInteractionsHandler,
			container.LogMoodHandler,
			container.SaveProfileHandler,
			container.ClearCacheHandler,
			container.GetDailySeriesHandler,
			container.GetSocialScoreHandler,
			container.GetScreenTimeHandler,
			container.GenerateReportHandler,
			container.Profiles,
		)
		cliApp.SetCurrentUserID(cfg.UserID)
		cliApp.SetHealth(container.Health)
	}

	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(series.Cmd)
	cli.AddCommand(social.Cmd)
	cli.AddCommand(screentime.Cmd)
	cli.AddCommand(mood.Cmd)
	cli.AddCommand(profile.Cmd)
	cli.AddCommand(report.Cmd)
	cli.AddCommand(cache.Cmd)

	cli.Execute(ctx)
}
