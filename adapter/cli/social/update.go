package social

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Summarise new call activity",
	Long: `Read the call log since the last update, append one summary per day to the
interaction history and refresh the baseline. New users are back-filled with
a week of history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.RecordInteractionsHandler == nil {
			return fmt.Errorf("interaction tracking requires a database connection")
		}

		result, err := app.RecordInteractionsHandler.Handle(cmd.Context(), commands.RecordInteractionsCommand{
			UserID: cli.UserID(),
		})
		if err != nil {
			return fmt.Errorf("failed to update interactions: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Summarised %d day(s), %d retained\n", len(result.Summaries), result.Days)
		for _, s := range result.Summaries {
			fmt.Fprintf(out, "  %s  out %d  in %d  missed %d  contacts %d\n",
				s.Date, s.OutgoingCount, s.IncomingCount, s.MissedCount, s.UniqueContacts)
		}
		fmt.Fprintf(out, "State: %s\n", result.State)
		return nil
	},
}
