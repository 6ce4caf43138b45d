package profile

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/adapter/cli"
	"github.com/felixgeelhaar/moodscope/internal/wellness/application/commands"
	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

var (
	name       string
	age        int
	role       string
	workStart  string
	workEnd    string
	timezone   string
	workDays   []string
	studyHours []string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Update the profile",
	Long: `Update the fields given as flags; the others keep their current value.

Roles:
  student        - study hours count as focus time
  working_adult  - work hours count as focus time
  professional   - work hours count as focus time, work stress weighs more

Examples:
  moodscope profile set --role student --study-hours 08:00,15:00
  moodscope profile set --work-start 08:30 --work-end 16:30 --timezone Europe/Berlin
  moodscope profile set --work-days monday,tuesday,thursday`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.SaveProfileHandler == nil || app.Profiles == nil {
			return fmt.Errorf("profiles require a database connection")
		}

		userID := cli.UserID()
		p, _ := app.Profiles.Get(cmd.Context(), userID)

		flags := cmd.Flags()
		if flags.Changed("name") {
			p.Name = name
		}
		if flags.Changed("age") {
			p.Age = age
		}
		if flags.Changed("role") {
			p.Role = domain.Role(role)
		}
		if flags.Changed("work-start") {
			p.WorkHours.Start = workStart
		}
		if flags.Changed("work-end") {
			p.WorkHours.End = workEnd
		}
		if flags.Changed("timezone") {
			p.Timezone = timezone
		}
		if flags.Changed("work-days") {
			p.Preferences.WorkDays = workDays
		}
		if flags.Changed("study-hours") {
			p.Preferences.StudyHours = studyHours
		}

		if err := app.SaveProfileHandler.Handle(cmd.Context(), commands.SaveProfileCommand{
			UserID:  userID,
			Profile: p,
		}); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&name, "name", "", "display name")
	setCmd.Flags().IntVar(&age, "age", 0, "age in years")
	setCmd.Flags().StringVarP(&role, "role", "r", "", "role (student, working_adult, professional)")
	setCmd.Flags().StringVar(&workStart, "work-start", "", "start of the working day (HH:MM)")
	setCmd.Flags().StringVar(&workEnd, "work-end", "", "end of the working day (HH:MM)")
	setCmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Europe/Berlin")
	setCmd.Flags().StringSliceVar(&workDays, "work-days", nil, "working weekdays, comma separated")
	setCmd.Flags().StringSliceVar(&studyHours, "study-hours", nil, "study window as start,end (HH:MM)")
}
