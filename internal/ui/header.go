package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is a bordered banner with a title, a subtitle and ordered parameters.
// The show command prints one per settings group.
type Header struct {
	Title    string
	Subtitle string
	Params   []Detail
	Width    int
}

// NewHeader creates a header sized to the terminal.
func NewHeader(title, subtitle string, params ...Detail) *Header {
	return &Header{
		Title:    title,
		Subtitle: subtitle,
		Params:   params,
		Width:    GetTerminalWidth(),
	}
}

// Render returns the styled header as a string
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	sections := []string{HeaderTitleStyle.Render(strings.ToUpper(h.Title))}
	if h.Subtitle != "" {
		sections = append(sections, HeaderCommandStyle.Render(h.Subtitle))
	}

	if len(h.Params) > 0 {
		dividerWidth := width - 6
		if dividerWidth < 10 {
			dividerWidth = 10
		}
		divider := lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Render(strings.Repeat("─", dividerWidth))
		sections = append(sections, divider)

		keyWidth := 0
		for _, p := range h.Params {
			if len(p.Key) > keyWidth {
				keyWidth = len(p.Key)
			}
		}
		for _, p := range h.Params {
			key := HeaderParamKeyStyle.Render(p.Key + ":" + strings.Repeat(" ", keyWidth-len(p.Key)))
			sections = append(sections, key+" "+HeaderParamValueStyle.Render(p.Value))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
