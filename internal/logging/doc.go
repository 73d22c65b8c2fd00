// Package logging provides structured logging for the settings engine and the
// squixl-settings host tool.
//
// This package wraps a zap logger with convenience functions for the events
// the persistence engine cares about: loads, commits, backups, rotation and
// storage failures.
//
// # Log Levels
//
//   - Debug: Skipped saves, per-file backup deletions, document dumps
//   - Info: Loads, commits, first-run creation, backups
//   - Warn: Recoverable storage failures (write, backup, rotation)
//   - Error: Failures the caller cannot recover from
//
// # Configuration
//
// Logging is silent by default. Enable it with the SQUIXL_LOG_LEVEL
// environment variable or the --log-level flag:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Log Sink
//
// SinkWriter adapts the logger to an io.Writer so plain-text diagnostics
// (the persisted document dump) can be routed into the log stream one line
// per entry.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
