package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/afero"

	"github.com/muurk/squixl-settings/internal/clock"
	"github.com/muurk/squixl-settings/internal/device"
	"github.com/muurk/squixl-settings/internal/persist"
	"github.com/muurk/squixl-settings/internal/settings"
)

func newTestModel(t *testing.T) (Model, *device.Device, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	opts := persist.DefaultOptions()
	opts.Clock = clk

	dev, err := device.New(afero.NewMemMapFs(), opts)
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	if err := dev.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return New(dev, time.Second), dev, clk
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestToggleBool(t *testing.T) {
	m, dev, _ := newTestModel(t)

	if dev.Config.Time24Hour {
		t.Fatal("Time24Hour should default to false")
	}
	m = press(m, "space")
	if !dev.Config.Time24Hour {
		t.Error("space on the first option should toggle Time24Hour")
	}
	if !dev.Engine.Dirty() {
		t.Error("toggle should mark the engine dirty")
	}
	if !strings.Contains(m.View(), "24H") {
		t.Error("View() should show the on label")
	}
}

func TestNudgeAndGroupSwitch(t *testing.T) {
	m, dev, _ := newTestModel(t)

	// Audio group: the volume option is last.
	m = press(m, "tab", "tab")
	if name := m.groups[m.group].Name; name != "Audio Settings" {
		t.Fatalf("group after two tabs = %q, want Audio Settings", name)
	}
	for i := 0; i < 10; i++ {
		m = press(m, "down")
	}
	if m.current().Key() != "volume" {
		t.Fatalf("cursor on %q, want volume", m.current().Key())
	}

	for i := 0; i < 10; i++ {
		m = press(m, "+")
	}
	if dev.Config.Volume != 21 {
		t.Errorf("Volume = %v, want clamped 21", dev.Config.Volume)
	}
	m = press(m, "-")
	if dev.Config.Volume != 20 {
		t.Errorf("Volume = %v, want 20", dev.Config.Volume)
	}
}

func TestEditText(t *testing.T) {
	m, dev, _ := newTestModel(t)

	m = press(m, "tab")
	var idx int
	for i, o := range m.options() {
		if o.Key() == "country" {
			idx = i
		}
	}
	for i := 0; i < idx; i++ {
		m = press(m, "down")
	}

	m = press(m, "enter")
	if !m.editing {
		t.Fatal("enter should open the editor")
	}
	m = press(m, "q", "u", "e")
	if dev.Config.Country != "" {
		t.Error("typing must not apply before enter")
	}
	m = press(m, "enter")
	if m.editing {
		t.Error("enter should close the editor")
	}
	if dev.Config.Country != "qu" {
		t.Errorf("Country = %q, want truncated qu", dev.Config.Country)
	}

	m = press(m, "enter", "x", "esc")
	if dev.Config.Country != "qu" {
		t.Errorf("esc should discard the edit, Country = %q", dev.Config.Country)
	}
}

func TestTickCommits(t *testing.T) {
	m, dev, clk := newTestModel(t)

	m = press(m, "space")
	clk.Advance(persist.DefaultDebounce + time.Second)

	next, cmd := m.Update(tickMsg(clk.Now()))
	m = next.(Model)
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	if dev.Engine.Dirty() {
		t.Error("tick past the debounce interval should commit")
	}
	if !strings.HasPrefix(m.status, "Saved") {
		t.Errorf("status = %q, want Saved...", m.status)
	}
}

func TestSaveKeyForcesCommit(t *testing.T) {
	m, dev, clk := newTestModel(t)

	m = press(m, "space", "s")
	next, _ := m.Update(tickMsg(clk.Now()))
	m = next.(Model)
	if dev.Engine.Dirty() {
		t.Error("save key should commit on the next tick regardless of debounce")
	}
	if m.Err() != nil {
		t.Errorf("Err() = %v", m.Err())
	}
}

func TestQuitFlushes(t *testing.T) {
	m, dev, _ := newTestModel(t)

	m = press(m, "space")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if dev.Engine.Dirty() {
		t.Error("quit should flush pending changes")
	}
	if m.View() != "" {
		t.Error("View() after quit should be empty")
	}
}

func TestDescribeHint(t *testing.T) {
	tests := []struct {
		d    settings.Descriptor
		want string
	}{
		{settings.Descriptor{Kind: settings.KindIntRange, Min: -12, Max: 14, Step: 1}, "[-12..14 step 1]"},
		{settings.Descriptor{Kind: settings.KindIntRange, Min: -12, Max: 14, Step: 1, HasUnset: true, Unset: 999}, "[-12..14 step 1, 999 unset]"},
		{settings.Descriptor{Kind: settings.KindString, MaxLength: 2}, "[max 2 chars]"},
		{settings.Descriptor{Kind: settings.KindString, MaxLength: -1}, ""},
		{settings.Descriptor{Kind: settings.KindColor}, "[#RRGGBB]"},
		{settings.Descriptor{Kind: settings.KindBool, OffLabel: "NO", OnLabel: "YES"}, "[NO/YES]"},
	}

	for _, tt := range tests {
		if got := describeHint(tt.d); got != tt.want {
			t.Errorf("describeHint(%v) = %q, want %q", tt.d.Kind, got, tt.want)
		}
	}
}
