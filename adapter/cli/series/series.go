// Package series prints the daily wellbeing series.
package series

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var days int

// Cmd prints the wellbeing series of the current user.
var Cmd = &cobra.Command{
	Use:   "series",
	Short: "Show the daily wellbeing series",
	Long: `Show the combined wellbeing score of each day in the window ending today,
with the mood, social, screen time and work stress scores behind it.

Examples:
  moodscope series
  moodscope series --days 14
  moodscope series --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetDailySeriesHandler == nil {
			return fmt.Errorf("wellbeing series requires a database connection")
		}

		chart, err := app.GetDailySeriesHandler.Handle(cmd.Context(), queries.GetDailySeriesQuery{
			UserID: cli.UserID(),
			Days:   days,
		})
		if err != nil {
			return fmt.Errorf("failed to compute series: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), chart)
		}
		printChart(cmd, chart)
		return nil
	},
}

func printChart(cmd *cobra.Command, chart *domain.WellnessChartData) {
	out := cmd.OutOrStdout()
	if chart.Fallback {
		fmt.Fprintln(out, "No signal source could be reached; showing sample data.")
	}
	fmt.Fprintf(out, "Wellbeing over %d days (average %.1f)\n", len(chart.Data), chart.Average)
	fmt.Fprintf(out, "  %-4s %7s %6s %7s %7s %7s\n", "day", "overall", "mood", "social", "screen", "stress")
	for i, label := range chart.Labels {
		fmt.Fprintf(out, "  %-4s %7.1f %6.1f %7.1f %7.1f %7.1f\n",
			label,
			chart.Data[i],
			at(chart.Breakdown.Mood, i),
			at(chart.Breakdown.Social, i),
			at(chart.Breakdown.ScreenTime, i),
			at(chart.Breakdown.WorkStress, i),
		)
	}

	var degraded []string
	for signal, status := range chart.Signals {
		if status == domain.StatusUnavailable {
			degraded = append(degraded, string(signal))
		}
	}
	if len(degraded) > 0 {
		fmt.Fprintf(out, "Unavailable: %s\n", strings.Join(degraded, ", "))
	}
}

func at(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return domain.NeutralScore
}

func init() {
	Cmd.Flags().IntVarP(&days, "days", "d", queries.DefaultWindowDays, "number of days ending today")
}
