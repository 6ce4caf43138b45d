package cache

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
)

var all bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop cached series for the current user",
	Long: `Drop the cached wellbeing series of the current user so the next request
recomputes it. With --all every user's entries are dropped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.ClearCacheHandler == nil {
			return fmt.Errorf("cache management requires the application to be initialized")
		}

		clear := commands.ClearCacheCommand{UserID: cli.UserID()}
		if all {
			clear.UserID = ""
		}
		result, err := app.ClearCacheHandler.Handle(cmd.Context(), clear)
		if err != nil {
			return err
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), result)
		}
		if result.All {
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all cached entries.")
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries.\n", result.Removed)
		}
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&all, "all", false, "clear every user's cached entries")
}
