package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/squixl-settings/internal/version"
)

// AppName is shown in the header.
const AppName = "SQUiXL SETTINGS"

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor   = lipgloss.Color("#FFFFFF") // White
	SubtleColor = lipgloss.Color("#626262") // Gray
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	VersionStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	TabStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Bold(true).
			Padding(0, 1)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Italic(true).
				MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(TextColor)

	SelectedLabelStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	HintStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginTop(1)

	DirtyStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)
)

// AppVersion returns the application version from the version package
func AppVersion() string {
	return version.Version
}
