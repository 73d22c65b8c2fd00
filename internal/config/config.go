package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/muurk/squixl-settings/internal/persist"
)

// CurrentVersion is the configuration file format version.
const CurrentVersion = 1

// Config is the host tool configuration.
type Config struct {
	Version      int           `yaml:"version" validate:"eq=1"`
	DataDir      string        `yaml:"data_dir" validate:"required"`
	Debounce     time.Duration `yaml:"debounce" validate:"gte=0s"`
	MaxBackups   int           `yaml:"max_backups" validate:"min=1,max=1000"`
	TickInterval time.Duration `yaml:"tick_interval" validate:"gte=100ms"`
	LogLevel     string        `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewDefault returns a Config with the engine defaults and dataDir.
func NewDefault(dataDir string) *Config {
	return &Config{
		Version:      CurrentVersion,
		DataDir:      dataDir,
		Debounce:     persist.DefaultDebounce,
		MaxBackups:   persist.DefaultMaxBackups,
		TickInterval: time.Second,
	}
}

// Validate checks every field and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", yamlName(fe.Field()), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// EngineOptions maps the configuration onto persistence engine options. A
// zero debounce commits on every dirty tick.
func (c *Config) EngineOptions() persist.Options {
	opts := persist.DefaultOptions()
	opts.Debounce = c.Debounce
	if c.Debounce == 0 {
		opts.Debounce = persist.NoDebounce
	}
	opts.MaxBackups = c.MaxBackups
	return opts
}

func yamlName(field string) string {
	switch field {
	case "DataDir":
		return "data_dir"
	case "MaxBackups":
		return "max_backups"
	case "TickInterval":
		return "tick_interval"
	case "LogLevel":
		return "log_level"
	default:
		return strings.ToLower(field)
	}
}
