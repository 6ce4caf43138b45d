package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/adapter/cli/clitest"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/services"
	"github.com/felixgeelhaar/moodscope/pkg/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetContext(context.Background())
	t.Cleanup(func() {
		kind, days = "mood", 7
	})
	require.NoError(t, Cmd.ParseFlags(args))
	err := Cmd.RunE(Cmd, Cmd.Flags().Args())
	return out.String(), err
}

func TestReportCmd_WithoutGenerator(t *testing.T) {
	clitest.NewLocalApp(t)

	_, err := run(t)
	assert.ErrorIs(t, err, services.ErrReportFailed)
}

func TestReportCmd_WithGenerator(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"weekly_insights":["Steady week"],"improvement_suggestions":["Call a friend"]}`))
	}))
	defer server.Close()

	clitest.NewLocalApp(t, func(cfg *config.Config) {
		cfg.ReportAPIURL = server.URL
	})

	t.Run("mood report", func(t *testing.T) {
		out, err := run(t)
		require.NoError(t, err)
		assert.Contains(t, out, "Steady week")
		assert.Contains(t, out, "Call a friend")
	})

	t.Run("screen time report", func(t *testing.T) {
		_, err := run(t, "--kind", "screentime")
		require.NoError(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := run(t, "--kind", "sleep")
		assert.Error(t, err)
	})

	assert.Equal(t, []string{"/generate-mood-report", "/generate-screentime-report"}, paths)
	assert.NotNil(t, cli.GetApp())
}
