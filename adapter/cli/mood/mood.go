// Package mood records self-reported mood check-ins.
package mood

import (
	"github.com/spf13/cobra"
)

// Cmd is the mood command group
var Cmd = &cobra.Command{
	Use:   "mood",
	Short: "Record mood check-ins",
	Long:  `Log how you feel on a 0-10 scale, or on a scale of your own.`,
}

func init() {
	Cmd.AddCommand(logCmd)
}
