// Package cache drops cached wellbeing series.
package cache

import (
	"github.com/spf13/cobra"
)

// Cmd is the cache command group
var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached scores",
}

func init() {
	Cmd.AddCommand(clearCmd)
}
