// Package device assembles the settings model, its bindings and the
// persistence engine into the single application object that owns them.
package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/muurk/squixl-settings/internal/logging"
	"github.com/muurk/squixl-settings/internal/persist"
	"github.com/muurk/squixl-settings/internal/settings"
)

// DefaultTickInterval is how often Run drives the engine.
const DefaultTickInterval = time.Second

// StationsKey is the document key of the Wi-Fi station list.
const StationsKey = "wifi_options"

// ErrUnknownKey is returned for a key no option is bound to.
var ErrUnknownKey = errors.New("unknown setting")

// Device owns the value model. The registry and engine hold references into
// Config and are built after it, so they never outlive it.
type Device struct {
	Config   *settings.Config
	Engine   *persist.Engine
	Registry *settings.Registry
}

// New builds a Device on fsys. Any change made through a registry option
// marks the engine dirty.
func New(fsys afero.Fs, opts persist.Options) (*Device, error) {
	cfg := settings.NewConfig()

	engine, err := persist.New(fsys, cfg, opts)
	if err != nil {
		return nil, err
	}

	return &Device{
		Config:   cfg,
		Engine:   engine,
		Registry: settings.NewRegistry(cfg, engine.MarkDirty),
	}, nil
}

// Start loads the persisted settings or creates them on first run.
func (d *Device) Start() error {
	if err := d.Engine.Init(); err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}
	d.Engine.ResetScreenDimTime()
	return nil
}

// Option looks up the option bound to key.
func (d *Device) Option(key string) (settings.Option, error) {
	opt, ok := d.Registry.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return opt, nil
}

// Stations returns the Wi-Fi station list binding.
func (d *Device) Stations() *settings.WiFiStationsOption {
	opt, _ := d.Registry.Lookup(StationsKey)
	st, _ := opt.(*settings.WiFiStationsOption)
	return st
}

// Set applies value to the option bound to key and returns the accepted text.
// Out-of-range or malformed values are corrected by the option, not rejected.
func (d *Device) Set(key, value string) (string, error) {
	opt, err := d.Option(key)
	if err != nil {
		return "", err
	}
	return opt.SetText(value), nil
}

// Flush commits pending changes immediately.
func (d *Device) Flush() error {
	if !d.Engine.Dirty() {
		return nil
	}
	_, err := d.Engine.Save(true)
	return err
}

// Run ticks the engine every interval until ctx is done, then flushes.
// Commit failures are logged and retried on the next tick.
func (d *Device) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return d.Flush()
		case <-ticker.C:
			if _, err := d.Engine.Tick(); err != nil {
				logging.Warn("Settings tick failed", zap.Error(err))
			}
		}
	}
}
