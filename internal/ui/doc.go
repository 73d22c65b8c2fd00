// Package ui provides the styled, run-once terminal output of the
// squixl-settings CLI.
//
// Unlike the interactive editor in internal/tui, these components render once
// and return:
//
//   - Header: a bordered banner with a title and ordered parameters
//   - Result: success, failure and warning boxes
//   - ConfirmOverwrite: a warning box that asks for typed confirmation
//   - ReadSecret: a password prompt that does not echo on a terminal
//
// Example:
//
//	ui.PrintSuccess(os.Stdout, "Backup restored",
//	    ui.D("Backup", "3"),
//	    ui.D("Path", "/settings.json"),
//	)
//
// # Logging Integration
//
// zap logging is silent unless SQUIXL_LOG_LEVEL or --log-level is set, so
// this output is displayed cleanly by default.
package ui
