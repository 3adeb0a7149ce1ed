// Package reflow provides the `reflow` command group: batch/offline runs
// of the scheduling core from the command line.
package reflow

import (
	"github.com/spf13/cobra"
)

// Cmd is the reflow command group.
var Cmd = &cobra.Command{
	Use:   "reflow",
	Short: "Run the production reflow scheduler",
	Long:  `Compute new start/end times for a set of work orders against their work centers' shift calendars.`,
}

func init() {
	Cmd.AddCommand(runCmd)
}
