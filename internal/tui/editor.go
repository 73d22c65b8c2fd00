package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/squixl-settings/internal/device"
	"github.com/muurk/squixl-settings/internal/persist"
	"github.com/muurk/squixl-settings/internal/settings"
)

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the bubbletea model of the settings editor.
type Model struct {
	dev      *device.Device
	groups   []*settings.Group
	interval time.Duration

	group  int
	cursor int

	editing bool
	input   textinput.Model

	keys     keyMap
	editKeys editKeyMap
	help     help.Model

	status   string
	lastErr  error
	quitting bool

	Width  int
	Height int
}

// New creates an editor over dev. The engine is ticked every interval.
func New(dev *device.Device, interval time.Duration) Model {
	if interval <= 0 {
		interval = device.DefaultTickInterval
	}

	input := textinput.New()
	input.CharLimit = 256
	input.Width = 50

	return Model{
		dev:      dev,
		groups:   dev.Registry.Groups(),
		interval: interval,
		input:    input,
		keys:     newKeyMap(),
		editKeys: newEditKeyMap(),
		help:     help.New(),
	}
}

// Init starts the engine tick.
func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		res, err := m.dev.Engine.Tick()
		m.lastErr = err
		if res == persist.SaveCommitted {
			m.status = "Saved at " + time.Time(msg).Format("15:04:05")
		}
		return m, tick(m.interval)

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.lastErr = m.dev.Flush()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.options())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Next):
		m.group = (m.group + 1) % len(m.groups)
		m.cursor = 0

	case key.Matches(msg, m.keys.Prev):
		m.group = (m.group + len(m.groups) - 1) % len(m.groups)
		m.cursor = 0

	case key.Matches(msg, m.keys.Toggle):
		if b, ok := m.current().(*settings.BoolOption); ok {
			b.Toggle()
		}

	case key.Matches(msg, m.keys.Inc):
		nudge(m.current(), 1)

	case key.Matches(msg, m.keys.Dec):
		nudge(m.current(), -1)

	case key.Matches(msg, m.keys.Edit):
		return m.startEditing()

	case key.Matches(msg, m.keys.Save):
		m.dev.Engine.RequestSave()
		m.status = "Saving..."

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m Model) startEditing() (tea.Model, tea.Cmd) {
	opt := m.current()
	if opt == nil {
		return m, nil
	}
	if b, ok := opt.(*settings.BoolOption); ok {
		b.Toggle()
		return m, nil
	}

	d := opt.Describe()
	m.input.SetValue(opt.Text())
	m.input.Placeholder = d.Placeholder
	m.input.EchoMode = textinput.EchoNormal
	if d.Masked {
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '•'
	}
	m.input.CursorEnd()
	m.editing = true
	return m, m.input.Focus()
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.editKeys.Accept):
		if opt := m.current(); opt != nil {
			before := opt.Text()
			if got := opt.SetText(m.input.Value()); got == before && m.input.Value() != before {
				m.status = fmt.Sprintf("%s unchanged", opt.Label())
			} else {
				m.status = ""
			}
		}
		m.editing = false
		m.input.Blur()
		return m, nil

	case key.Matches(msg, m.editKeys.Cancel):
		m.editing = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// nudge steps a numeric option; other kinds are ignored.
func nudge(opt settings.Option, steps int) {
	switch o := opt.(type) {
	case *settings.IntRangeOption:
		o.Nudge(steps)
	case *settings.FloatRangeOption:
		o.Nudge(steps)
	case *settings.IntOption:
		o.Nudge(steps)
	}
}

func (m Model) options() []settings.Option {
	if len(m.groups) == 0 {
		return nil
	}
	return m.groups[m.group].Options()
}

func (m Model) current() settings.Option {
	opts := m.options()
	if m.cursor < 0 || m.cursor >= len(opts) {
		return nil
	}
	return opts[m.cursor]
}

// Err returns the last engine error seen by the editor.
func (m Model) Err() error {
	return m.lastErr
}

// View renders the editor
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render(AppName) + " " + VersionStyle.Render(AppVersion()))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if len(m.groups) > 0 {
		if desc := m.groups[m.group].Description; desc != "" {
			b.WriteString(DescriptionStyle.Render(desc))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	b.WriteString(m.renderOptions())
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	if m.editing {
		b.WriteString(m.help.View(m.editKeys))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(m.groups))
	for i, g := range m.groups {
		style := TabStyle
		if i == m.group {
			style = ActiveTabStyle
		}
		tabs = append(tabs, style.Render(g.Name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderOptions() string {
	var b strings.Builder

	opts := m.options()
	width := 0
	for _, o := range opts {
		width = max(width, lipgloss.Width(o.Label()))
	}

	for i, o := range opts {
		label := fmt.Sprintf("%-*s", width, o.Label())
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
			label = SelectedLabelStyle.Render(label)
		}

		value := ValueStyle.Render(o.Display())
		if i == m.cursor && m.editing {
			value = m.input.View()
		}

		b.WriteString(LabelStyle.Render(prefix+label) + "  " + value)
		if hint := describeHint(o.Describe()); hint != "" && i == m.cursor {
			b.WriteString("  " + HintStyle.Render(hint))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderStatus() string {
	var parts []string
	if m.dev.Engine.Dirty() {
		parts = append(parts, DirtyStyle.Render("● unsaved"))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	if m.lastErr != nil {
		parts = append(parts, ErrorStyle.Render(m.lastErr.Error()))
	}
	if len(parts) == 0 {
		return ""
	}
	return StatusStyle.Render(strings.Join(parts, "  ")) + "\n"
}

// describeHint summarises the constraints of an option.
func describeHint(d settings.Descriptor) string {
	switch d.Kind {
	case settings.KindIntRange, settings.KindFloatRange:
		if d.HasUnset {
			return fmt.Sprintf("[%g..%g step %g, %g unset]", d.Min, d.Max, d.Step, d.Unset)
		}
		return fmt.Sprintf("[%g..%g step %g]", d.Min, d.Max, d.Step)
	case settings.KindString:
		if d.MaxLength > 0 {
			return fmt.Sprintf("[max %d chars]", d.MaxLength)
		}
	case settings.KindColor:
		return "[#RRGGBB]"
	case settings.KindWiFiStations:
		return fmt.Sprintf("[JSON, up to %d]", d.Capacity)
	case settings.KindBool:
		return fmt.Sprintf("[%s/%s]", d.OffLabel, d.OnLabel)
	}
	return ""
}

// Run starts the editor on the terminal and blocks until it exits.
func Run(dev *device.Device, interval time.Duration) error {
	p := tea.NewProgram(New(dev, interval), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("settings editor failed: %w", err)
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
