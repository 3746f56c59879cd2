// Package cli provides the command-line interface for chunkstat.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nemanja-m/chunkstat/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chunkstat",
		Short: "Compute statistics over large syslog files",
		Long: `chunkstat splits syslog files into line-aligned chunks, processes them
in parallel and merges the per-chunk results.

Statistics:
  - average-length   average MSG length, globally and per host
  - severity-count   emergency and alert messages, globally and per host
  - time-range       oldest and newest message, globally and per host`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
