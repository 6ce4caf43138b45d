package mood

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var (
	date     string
	label    string
	scaleMin float64
	scaleMax float64
)

var logCmd = &cobra.Command{
	Use:   "log [level]",
	Short: "Log today's mood",
	Long: `Log a mood level for a day. Levels are rescaled onto 0-10; a second entry
for the same day replaces the first.

Examples:
  moodscope mood log 7
  moodscope mood log 4 --label tired
  moodscope mood log 3 --scale-min 1 --scale-max 5
  moodscope mood log 6 --date 2026-10-12`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.LogMoodHandler == nil {
			return fmt.Errorf("mood logging requires a database connection")
		}

		level, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", domain.ErrInvalidMood, args[0])
		}

		logCmd := commands.LogMoodCommand{
			UserID: cli.UserID(),
			Date:   date,
			Level:  level,
			Label:  label,
		}
		if cmd.Flags().Changed("scale-min") || cmd.Flags().Changed("scale-max") {
			logCmd.Scale = &domain.MoodScale{Min: scaleMin, Max: scaleMax}
		}

		entry, err := app.LogMoodHandler.Handle(cmd.Context(), logCmd)
		if err != nil {
			return fmt.Errorf("failed to log mood: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), entry)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Logged mood %.1f/10 for %s\n", entry.Level, entry.Date)
		if entry.Label != "" {
			fmt.Fprintf(out, "  Label: %s\n", entry.Label)
		}
		return nil
	},
}

func init() {
	logCmd.Flags().StringVar(&date, "date", "", "day to log (YYYY-MM-DD, defaults to today)")
	logCmd.Flags().StringVarP(&label, "label", "l", "", "short description of the mood")
	logCmd.Flags().Float64Var(&scaleMin, "scale-min", domain.DefaultMoodScale.Min, "lowest level of the scale used")
	logCmd.Flags().Float64Var(&scaleMax, "scale-max", domain.DefaultMoodScale.Max, "highest level of the scale used")
}
