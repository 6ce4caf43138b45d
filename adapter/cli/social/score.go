package social

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/queries"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var period string

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Show today's social score",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := fetch(cmd)
		if err != nil {
			return err
		}
		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result.Today)
		}
		today := result.Today
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Social score: %.1f (%s)\n", today.Score, today.Status)
		if today.Date != "" {
			fmt.Fprintf(out, "  Day: %s\n", today.Date)
		}
		fmt.Fprintf(out, "  State: %s\n", today.State)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show social scores over a period",
	Long: `Score each retained day of the period against the current baseline.

Periods:
  week     - 7 days
  month    - 30 days
  quarter  - 90 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := fetch(cmd)
		if err != nil {
			return err
		}
		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result.History)
		}
		out := cmd.OutOrStdout()
		if len(result.History) == 0 {
			fmt.Fprintln(out, "No scored history yet. Run 'moodscope social update' first.")
			return nil
		}
		fmt.Fprintf(out, "Social scores (%s)\n", result.Period)
		for _, s := range result.History {
			fmt.Fprintf(out, "  %s  %.1f\n", s.Date, s.Score)
		}
		return nil
	},
}

func fetch(cmd *cobra.Command) (*queries.SocialScoreResult, error) {
	app := cli.GetApp()
	if app == nil || app.GetSocialScoreHandler == nil {
		return nil, fmt.Errorf("social scores require a database connection")
	}
	result, err := app.GetSocialScoreHandler.Handle(cmd.Context(), queries.GetSocialScoreQuery{
		UserID: cli.UserID(),
		Period: domain.HistoryPeriod(period),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get social score: %w", err)
	}
	return result, nil
}

func init() {
	historyCmd.Flags().StringVarP(&period, "period", "p", string(domain.PeriodWeek), "history period (week, month, quarter)")
}
