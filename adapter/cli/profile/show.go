package profile

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Profiles == nil {
			return fmt.Errorf("profiles require a database connection")
		}

		p, status := app.Profiles.Get(cmd.Context(), cli.UserID())
		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), p)
		}
		if status != domain.StatusMeasured {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored profile; showing the default.")
		}
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}
