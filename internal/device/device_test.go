package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"github.com/muurk/squixl-settings/internal/clock"
	"github.com/muurk/squixl-settings/internal/persist"
	"github.com/muurk/squixl-settings/internal/settings"
)

func newTestDevice(t *testing.T) (*Device, afero.Fs, *clock.Mock) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	clk := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	opts := persist.DefaultOptions()
	opts.Clock = clk
	d, err := New(fsys, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := d.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return d, fsys, clk
}

func TestStartFirstRun(t *testing.T) {
	d, _, clk := newTestDevice(t)

	if d.Engine.State() != persist.StateFresh {
		t.Errorf("State() = %v, want %v", d.Engine.State(), persist.StateFresh)
	}
	want := clk.Now().Add(time.Duration(d.Config.ScreenDimMins) * time.Minute)
	if !d.Engine.ScreenDimDeadline().Equal(want) {
		t.Errorf("ScreenDimDeadline() = %v, want %v", d.Engine.ScreenDimDeadline(), want)
	}
}

func TestSetMarksDirty(t *testing.T) {
	d, fsys, clk := newTestDevice(t)

	got, err := d.Set("backlight_time_step_vbus", "900")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got != "60" {
		t.Errorf("Set() = %v, want clamped 60", got)
	}
	if !d.Engine.Dirty() {
		t.Fatal("Set() should mark the engine dirty")
	}

	clk.Advance(persist.DefaultDebounce + time.Second)
	if res, err := d.Engine.Tick(); err != nil || res != persist.SaveCommitted {
		t.Fatalf("Tick() = %v, %v; want committed", res, err)
	}

	data, err := afero.ReadFile(fsys, persist.DefaultPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if v := gjson.GetBytes(data, "backlight_time_step_vbus").Int(); v != 60 {
		t.Errorf("persisted value = %d, want 60", v)
	}
}

func TestSetUnknownKey(t *testing.T) {
	d, _, _ := newTestDevice(t)

	if _, err := d.Set("no.such.key", "1"); !errors.Is(err, ErrUnknownKey) {
		t.Errorf("Set() error = %v, want ErrUnknownKey", err)
	}
	if d.Engine.Dirty() {
		t.Error("failed Set() should not mark the engine dirty")
	}
}

func TestFlush(t *testing.T) {
	d, _, _ := newTestDevice(t)

	if err := d.Flush(); err != nil {
		t.Fatalf("Flush() on clean model error = %v", err)
	}
	if n, _ := d.Engine.Backups(); len(n) != 0 {
		t.Errorf("Flush() on clean model committed, backups = %v", n)
	}

	d.Set("city", "Wellington")
	if err := d.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if d.Engine.Dirty() {
		t.Error("Dirty() after Flush() = true")
	}
}

func TestRunFlushesOnCancel(t *testing.T) {
	d, fsys, _ := newTestDevice(t)
	d.Set("country", "NZ")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := d.Run(ctx, time.Hour); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	data, err := afero.ReadFile(fsys, persist.DefaultPath)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if got := gjson.GetBytes(data, "country").String(); got != "NZ" {
		t.Errorf("persisted country = %q, want NZ", got)
	}
}

func TestStations(t *testing.T) {
	d, _, _ := newTestDevice(t)

	st := d.Stations()
	if st == nil {
		t.Fatal("Stations() returned nil")
	}
	if !st.Add(settings.NewWiFiStation("home", "secret123")) {
		t.Fatal("Add() returned false on an empty list")
	}
	if !d.Engine.Dirty() {
		t.Error("adding a station should mark the engine dirty")
	}
	if !d.Engine.HasWiFiCreds() {
		t.Error("HasWiFiCreds() should be true after adding a complete station")
	}
}
