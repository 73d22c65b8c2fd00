package persist

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of a persistence failure
type ErrorType int

const (
	// ErrTypeNotFound indicates the primary file does not exist
	ErrTypeNotFound ErrorType = iota
	// ErrTypeRead indicates the primary file exists but could not be read
	ErrTypeRead
	// ErrTypeParse indicates the document is not a JSON object
	ErrTypeParse
	// ErrTypeVersion indicates a document version this firmware cannot migrate
	ErrTypeVersion
	// ErrTypeWrite indicates a commit of the primary file failed
	ErrTypeWrite
	// ErrTypeBackup indicates a backup copy, listing or rotation failed
	ErrTypeBackup
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeRead:
		return "Read Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeVersion:
		return "Version Error"
	case ErrTypeWrite:
		return "Write Error"
	case ErrTypeBackup:
		return "Backup Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// StoreError describes a failed persistence operation.
// None of these errors is fatal: load failures route to Create and write
// failures leave the model dirty for the next tick.
type StoreError struct {
	Type      ErrorType // Category of error
	Op        string    // Engine operation (load, commit, backup, ...)
	Path      string    // File involved
	Err       error     // Underlying error (if any)
	Retryable bool      // Whether the next tick may succeed
}

// Error implements the error interface
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", e.Type, e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s %s", e.Type, e.Op, e.Path)
}

// Unwrap returns the underlying error for error chain inspection
func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(t ErrorType, op, path string, err error) *StoreError {
	return &StoreError{
		Type:      t,
		Op:        op,
		Path:      path,
		Err:       err,
		Retryable: t == ErrTypeWrite || t == ErrTypeBackup,
	}
}

func hasType(err error, t ErrorType) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Type == t
}

// IsNotFound reports whether err means the primary file is missing.
func IsNotFound(err error) bool {
	return hasType(err, ErrTypeNotFound)
}

// IsParseError reports whether err means the document is malformed.
func IsParseError(err error) bool {
	return hasType(err, ErrTypeParse)
}

// IsVersionError reports whether err means the document version is unsupported.
func IsVersionError(err error) bool {
	return hasType(err, ErrTypeVersion)
}

// IsWriteError reports whether err means a commit did not reach storage.
func IsWriteError(err error) bool {
	return hasType(err, ErrTypeWrite)
}

// IsRetryable reports whether err is worth retrying on the next tick.
func IsRetryable(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Retryable
}
