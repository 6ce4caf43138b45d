package cache

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/adapter/cli/clitest"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
	"github.com/felixgeelhaar/moodscope/pkg/observability"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	clearCmd.SetOut(&out)
	clearCmd.SetContext(context.Background())
	t.Cleanup(func() {
		all = false
		clearCmd.Flags().Lookup("all").Changed = false
	})
	require.NoError(t, clearCmd.ParseFlags(args))
	err := clearCmd.RunE(clearCmd, nil)
	return out.String(), err
}

func TestClearCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	_, err := run(t)
	assert.Error(t, err)
}

func TestClearCmd_LocalMode(t *testing.T) {
	local := clitest.NewLocalApp(t)
	ctx := context.Background()

	_, err := local.App.GetDailySeriesHandler.Handle(ctx, queries.GetDailySeriesQuery{UserID: clitest.UserID})
	require.NoError(t, err)

	t.Run("clears the current user", func(t *testing.T) {
		out, err := run(t)
		require.NoError(t, err)
		assert.Contains(t, out, "Removed 1 cached entries.")
	})

	t.Run("clears everything", func(t *testing.T) {
		out, err := run(t, "--all")
		require.NoError(t, err)
		assert.Contains(t, out, "Cleared all cached entries.")
	})

	metrics := local.Container.Metrics
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheInvalidate, observability.T("scope", "user")))
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricCacheInvalidate, observability.T("scope", "all")))
}
