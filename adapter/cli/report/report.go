// Package report requests narrative reports from the report generator.
package report

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var (
	kind string
	days int
)

// Cmd requests a report for the current user.
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a wellbeing report",
	Long: `Send the window's scores, mood, social, stress, sleep and screen time data
to the report generator and print its insights and suggestions.

Kinds:
  mood        - overall wellbeing report
  screentime  - screen time and app usage report

Requires REPORT_API_URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.GenerateReportHandler == nil {
			return fmt.Errorf("reports require a database connection")
		}

		report, err := app.GenerateReportHandler.Handle(cmd.Context(), queries.GenerateReportQuery{
			UserID: cli.UserID(),
			Kind:   domain.ReportKind(kind),
			Days:   days,
		})
		if err != nil {
			return err
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), report)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Insights")
		for _, line := range report.WeeklyInsights {
			fmt.Fprintf(out, "  - %s\n", line)
		}
		fmt.Fprintln(out, "Suggestions")
		for _, line := range report.ImprovementSuggestions {
			fmt.Fprintf(out, "  - %s\n", line)
		}
		return nil
	},
}

func init() {
	Cmd.Flags().StringVarP(&kind, "kind", "k", string(domain.ReportMood), "report kind (mood, screentime)")
	Cmd.Flags().IntVarP(&days, "days", "d", queries.DefaultWindowDays, "number of days ending today")
}
