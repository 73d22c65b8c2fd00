package persist

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/muurk/squixl-settings/internal/clock"
)

// Default file layout on the device filesystem.
const (
	DefaultPath         = "/settings.json"
	DefaultTempPath     = "/tmp_settings.json"
	DefaultBackupDir    = "/"
	DefaultBackupPrefix = "settings_back_"
	DefaultMaxBackups   = 10
	DefaultDebounce     = 10 * time.Second
)

// NoDebounce commits on every dirty tick. A zero Debounce means
// DefaultDebounce.
const NoDebounce time.Duration = -1

// Options configures an Engine.
type Options struct {
	Path         string        `validate:"required,startswith=/"`
	TempPath     string        `validate:"required,startswith=/,nefield=Path"`
	BackupDir    string        `validate:"required,startswith=/"`
	BackupPrefix string        `validate:"required,excludes=/"`
	MaxBackups   int           `validate:"min=1,max=1000"`
	Debounce     time.Duration `validate:"gte=-1ns"`

	// Clock defaults to the real monotonic clock.
	Clock clock.Clock `validate:"-"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultOptions returns the firmware file layout and timings.
func DefaultOptions() Options {
	return Options{
		Path:         DefaultPath,
		TempPath:     DefaultTempPath,
		BackupDir:    DefaultBackupDir,
		BackupPrefix: DefaultBackupPrefix,
		MaxBackups:   DefaultMaxBackups,
		Debounce:     DefaultDebounce,
		Clock:        clock.Real{},
	}
}

// withDefaults fills empty fields and a nil clock.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Path == "" {
		o.Path = d.Path
	}
	if o.TempPath == "" {
		o.TempPath = d.TempPath
	}
	if o.BackupDir == "" {
		o.BackupDir = d.BackupDir
	}
	if o.BackupPrefix == "" {
		o.BackupPrefix = d.BackupPrefix
	}
	if o.MaxBackups == 0 {
		o.MaxBackups = d.MaxBackups
	}
	if o.Debounce == 0 {
		o.Debounce = d.Debounce
	}
	if o.Clock == nil {
		o.Clock = d.Clock
	}
	return o
}

// Validate checks the options for structural errors.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid engine options: %w", err)
	}
	return nil
}
