package series

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/adapter/cli/clitest"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetContext(context.Background())
	t.Cleanup(func() { days = 7 })
	require.NoError(t, Cmd.ParseFlags(args))
	err := Cmd.RunE(Cmd, Cmd.Flags().Args())
	return out.String(), err
}

func TestSeriesCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	_, err := run(t)
	assert.Error(t, err)
}

func TestSeriesCmd_LocalMode(t *testing.T) {
	local := clitest.NewLocalApp(t)

	t.Run("prints a neutral week", func(t *testing.T) {
		out, err := run(t)
		require.NoError(t, err)
		assert.Contains(t, out, "Wellbeing over 7 days")
		assert.Contains(t, out, "overall")
	})

	t.Run("json output reflects a logged mood", func(t *testing.T) {
		_, err := local.App.LogMoodHandler.Handle(context.Background(), commands.LogMoodCommand{
			UserID: clitest.UserID,
			Level:  9,
		})
		require.NoError(t, err)

		cli.SetJSONOutput(true)
		defer cli.SetJSONOutput(false)
		out, err := run(t, "--days", "3")
		require.NoError(t, err)

		var chart domain.WellnessChartData
		require.NoError(t, json.Unmarshal([]byte(out), &chart))
		assert.Len(t, chart.Data, 3)
		assert.False(t, chart.Fallback)
		assert.Equal(t, 9.0, chart.Breakdown.Mood[2])
	})

	t.Run("rejects a window beyond the maximum", func(t *testing.T) {
		_, err := run(t, "--days", "91")
		assert.ErrorIs(t, err, domain.ErrInvalidWindow)
	})
}
