// Package main provides the squixl-settings CLI tool.
//
// squixl-settings edits a SQUiXL settings document on a host machine. It
// drives the same persistence engine as the device: debounced commits,
// rotating numbered backups, schema migration and first-run creation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/squixl-settings/internal/logging"
	"github.com/muurk/squixl-settings/internal/ui"
	"github.com/muurk/squixl-settings/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "squixl-settings",
	Short: "Inspect and edit SQUiXL settings",
	Long: `squixl-settings reads and writes the persisted settings document of a
SQUiXL device.

Changes are committed atomically. Every commit keeps a numbered backup, and
the oldest backups are rotated out once the cap is reached. Running without a
subcommand on a terminal opens the interactive editor.`,
	Version:           version.Full(),
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !ui.IsTerminal(os.Stdout) {
			return cmd.Help()
		}
		return runEdit(cmd, args)
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := parseFormat(outputFormat)
		if err != nil {
			return err
		}
		if f == formatJSON || f == formatYAML {
			return writeStructured(cmd.OutOrStdout(), f, version.Get())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "squixl-settings %s (commit: %s)\n", version.Version, version.Commit)
		return nil
	},
}

// setupLogging applies --log-level, falling back to SQUIXL_LOG_LEVEL.
func setupLogging(cmd *cobra.Command, args []string) error {
	if logLevel != "" {
		return logging.Initialize(logLevel)
	}
	return logging.InitializeFromEnv()
}
