// Package clitest builds a local-mode CLI application for command tests.
package clitest

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	internalApp "github.com/felixgeelhaar/moodscope/internal/app"
	"github.com/felixgeelhaar/moodscope/pkg/config"
)

// UserID is the fixed user the test application acts for.
const UserID = "00000000-0000-0000-0000-000000000001"

// LocalApp is a CLI application over a temporary SQLite database and an
// empty device export directory.
type LocalApp struct {
	App       *cli.App
	Container *internalApp.Container
	DataDir   string
}

// NewLocalApp creates the application, installs it with cli.SetApp and
// removes it again when the test ends. opts adjust the configuration before
// the container is built.
func NewLocalApp(t *testing.T, opts ...func(*config.Config)) *LocalApp {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	cfg := &config.Config{
		AppEnv:               "test",
		LogLevel:             "error",
		UserID:               UserID,
		DeviceID:             "test-device",
		SQLitePath:           filepath.Join(tmpDir, "test.db"),
		HistoryRetentionDays: 365,
		BaselineMinDays:      7,
		DeviceDataDir:        dataDir,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)

	cliApp := cli.NewApp(
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
	cliApp.SetCurrentUserID(UserID)
	cliApp.SetHealth(container.Health)
	cli.SetApp(cliApp)
	cli.SetJSONOutput(false)

	t.Cleanup(func() {
		cli.SetApp(nil)
		cli.SetJSONOutput(false)
		container.Close()
	})

	return &LocalApp{App: cliApp, Container: container, DataDir: dataDir}
}
