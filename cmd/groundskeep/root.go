package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

var rootCmd = &cobra.Command{
	Use:   "groundskeep",
	Short: "Idle-time maintenance task selection for managed projects",
	Long: `groundskeep turns a structural snapshot of a project (dependency
health, documentation coverage, code-quality signals) into a ranked list
of maintenance opportunities, then selects exactly one to hand off for
autonomous execution.

It is the decision core of the idle-time worker: when a managed project
is quiescent, the daemon runs the scanner, feeds the snapshot through
groundskeep, and executes the selected task.

Examples:
  # Rank every candidate found in a snapshot
  groundskeep analyze snapshot.json

  # Print only the task the daemon would execute
  groundskeep select snapshot.json

  # Machine-readable output for the executor
  groundskeep analyze snapshot.json --format json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the groundskeep version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("groundskeep %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
