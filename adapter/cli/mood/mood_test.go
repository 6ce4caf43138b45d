package mood

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/adapter/cli/clitest"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	logCmd.SetOut(&out)
	logCmd.SetContext(context.Background())
	t.Cleanup(func() {
		date, label = "", ""
		scaleMin, scaleMax = 0, 10
		for _, name := range []string{"date", "label", "scale-min", "scale-max"} {
			logCmd.Flags().Lookup(name).Changed = false
		}
	})
	require.NoError(t, logCmd.ParseFlags(args))
	err := logCmd.RunE(logCmd, logCmd.Flags().Args())
	return out.String(), err
}

func TestLogCmd_RequiresApp(t *testing.T) {
	cli.SetApp(nil)
	_, err := run(t, "5")
	assert.Error(t, err)
}

func TestLogCmd_LocalMode(t *testing.T) {
	local := clitest.NewLocalApp(t)
	ctx := context.Background()

	t.Run("logs on the native scale", func(t *testing.T) {
		out, err := run(t, "7", "--date", "2026-10-12", "--label", "rested")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged mood 7.0/10 for 2026-10-12")
		assert.Contains(t, out, "rested")

		entries, err := local.Container.MoodRepo.ListRange(ctx, clitest.UserID, "2026-10-12", "2026-10-12")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 7.0, entries[0].Level)
	})

	t.Run("rescales a custom scale", func(t *testing.T) {
		out, err := run(t, "3", "--date", "2026-10-13", "--scale-min", "1", "--scale-max", "5")
		require.NoError(t, err)
		assert.Contains(t, out, "Logged mood 5.0/10")
	})

	t.Run("rejects a level off the scale", func(t *testing.T) {
		_, err := run(t, "11")
		assert.ErrorIs(t, err, domain.ErrInvalidMood)
	})

	t.Run("rejects a non-numeric level", func(t *testing.T) {
		_, err := run(t, "happy")
		assert.ErrorIs(t, err, domain.ErrInvalidMood)
	})
}
