package social

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/adapter/cli/clitest"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.ParseFlags(args))
	err := cmd.RunE(cmd, cmd.Flags().Args())
	return out.String(), err
}

func TestSocialCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	for _, cmd := range []*cobra.Command{updateCmd, scoreCmd, historyCmd} {
		_, err := run(t, cmd)
		assert.Error(t, err, cmd.Name())
	}
}

func TestSocialCmd_LocalMode(t *testing.T) {
	clitest.NewLocalApp(t)

	t.Run("score before any update is neutral", func(t *testing.T) {
		out, err := run(t, scoreCmd)
		require.NoError(t, err)
		assert.Contains(t, out, "Social score: 5.0")
		assert.Contains(t, out, string(domain.SocialNoBaseline))
	})

	t.Run("update back-fills a week", func(t *testing.T) {
		cli.SetJSONOutput(true)
		defer cli.SetJSONOutput(false)
		out, err := run(t, updateCmd)
		require.NoError(t, err)

		var result services.UpdateResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Len(t, result.Summaries, 7)
		assert.Equal(t, 7, result.Days)
		assert.Equal(t, domain.SocialHasBaseline, result.State)
	})

	t.Run("history lists the period", func(t *testing.T) {
		out, err := run(t, historyCmd, "--period", "month")
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})

	t.Run("unknown period is rejected", func(t *testing.T) {
		defer func() { period = string(domain.PeriodWeek) }()
		_, err := run(t, historyCmd, "--period", "decade")
		assert.ErrorIs(t, err, domain.ErrInvalidWindow)
	})
}
