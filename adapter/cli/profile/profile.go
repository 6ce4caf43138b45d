// Package profile shows and edits the scoring profile.
package profile

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/moodscope/internal/wellness/domain"
)

// Cmd is the profile command group
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your scoring profile",
	Long:  `Your role, work hours and timezone decide how each signal is weighted and when the working day is.`,
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
}

func printProfile(out io.Writer, p domain.UserProfile) {
	fmt.Fprintf(out, "Name:       %s\n", p.Name)
	fmt.Fprintf(out, "Age:        %d\n", p.Age)
	fmt.Fprintf(out, "Role:       %s\n", p.Role)
	fmt.Fprintf(out, "Work hours: %s-%s\n", p.WorkHours.Start, p.WorkHours.End)
	fmt.Fprintf(out, "Timezone:   %s\n", p.Timezone)
	if len(p.Preferences.WorkDays) > 0 {
		fmt.Fprintf(out, "Work days:  %s\n", strings.Join(p.Preferences.WorkDays, ", "))
	}
	if len(p.Preferences.StudyHours) == 2 {
		fmt.Fprintf(out, "Study:      %s-%s\n", p.Preferences.StudyHours[0], p.Preferences.StudyHours[1])
	}

	w := domain.WeightsFor(p.Age, p.Role)
	fmt.Fprintf(out, "Weights:    mood %.2f  social %.2f  stress %.2f  screen %.2f\n",
		w.Mood, w.Social, w.WorkStress, w.ScreenTime)
}
