// Package persist is the persistence engine for the SQUiXL settings model.
//
// An Engine owns the committed form of one settings.Config on an afero
// filesystem. It loads the primary document at startup, migrates documents
// written by older firmware, and commits the model back when it changes.
//
// # Lifecycle
//
//	UNINITIALIZED --Load--> LOADED
//	UNINITIALIZED --Create--> FRESH
//	LOADED/FRESH --MarkDirty--> DIRTY --Save--> LOADED
//
// Init tries Load and falls back to Create when the primary file is missing,
// malformed or from a newer firmware.
//
// # Commits
//
// Save(false) commits only when the model is dirty and the last commit is
// older than the debounce interval; Save(true) always commits. A commit writes
// the staging file, syncs it and renames it over the primary file. The
// document is merged onto the last saved one so keys this version does not
// know survive.
//
// # Backups
//
// Every commit except the first-run one is followed by a copy of the primary
// file to <BackupDir>/<BackupPrefix><N>. N is one past the highest number on
// disk or issued by this process. Once more than MaxBackups exist the lowest
// numbers are deleted.
//
// # Concurrency
//
// Engine is not safe for concurrent use. The owner drives it from one
// goroutine, typically a main loop calling Tick.
package persist
