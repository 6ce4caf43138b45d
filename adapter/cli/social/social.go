// Package social records call activity and prints social scores.
package social

import (
	"github.com/spf13/cobra"
)

// Cmd is the social command group
var Cmd = &cobra.Command{
	Use:   "social",
	Short: "Track social interaction",
	Long:  `Summarise the call log into the interaction history and score days against your baseline.`,
}

func init() {
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(scoreCmd)
	Cmd.AddCommand(historyCmd)
}
