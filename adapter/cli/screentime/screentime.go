// Package screentime prints today's contextual screen time assessment.
package screentime

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
)

// Cmd prints the screen time report of the current user.
var Cmd = &cobra.Command{
	Use:   "screentime",
	Short: "Show today's screen time score",
	Long: `Score today's screen time against your role and the current part of the day,
and list what the app usage says about it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GetScreenTimeHandler == nil {
			return fmt.Errorf("screen time requires a database connection")
		}

		report, err := app.GetScreenTimeHandler.Handle(cmd.Context(), queries.GetScreenTimeQuery{
			UserID: cli.UserID(),
		})
		if err != nil {
			return fmt.Errorf("failed to analyze screen time: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), report)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Screen time %s: %.1fh, score %.1f (%s)\n", report.Date, report.Hours, report.Score, report.Status)
		fmt.Fprintf(out, "  Context: %s\n", report.TimeContext)
		fmt.Fprintf(out, "  Trend: %s (%+.1f%%, %.1fh/day)\n",
			report.Trend.Trend, report.Trend.ChangePercent, report.Trend.AverageHours)
		for _, line := range report.Insights {
			fmt.Fprintf(out, "  - %s\n", line)
		}
		for _, line := range report.Observations {
			fmt.Fprintf(out, "  * %s\n", line)
		}
		return nil
	},
}
