package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Detail is one key/value line of a header or result box.
type Detail struct {
	Key   string
	Value string
}

// D is shorthand for a Detail.
func D(key, value string) Detail {
	return Detail{Key: key, Value: value}
}

// Result is a success, failure or warning box printed at the end of a command.
type Result struct {
	Type    ResultType
	Title   string
	Details []Detail
	Error   error
	Hints   []string
	Width   int
}

// NewSuccessResult creates a success result box
func NewSuccessResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure result box
func NewFailureResult(title string, err error, hints ...string) *Result {
	return &Result{Type: ResultFailure, Title: title, Error: err, Hints: hints, Width: GetTerminalWidth()}
}

// NewWarningResult creates a warning result box
func NewWarningResult(title string, details ...Detail) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

// Render returns the styled result box as a string
func (r *Result) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	var (
		title  lipgloss.Style
		color  lipgloss.Color
		marker string
		word   string
	)
	switch r.Type {
	case ResultFailure:
		title, color, marker, word = ErrorTitleStyle, ErrorColor, FailureMarker, "FAILED"
	case ResultWarning:
		title, color, marker, word = WarningTitleStyle, WarningColor, WarningMarker, "WARNING"
	default:
		title, color, marker, word = SuccessTitleStyle, SuccessColor, SuccessMarker, "SUCCESS"
	}

	lines := []string{"", title.Render(fmt.Sprintf(" %s  %s  ─  %s", marker, word, r.Title)), ""}

	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render(" "+d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render(" Error: "+r.Error.Error()), "")
	}

	for _, h := range r.Hints {
		lines = append(lines, HintStyle.Render(" • "+h))
	}
	if len(r.Hints) > 0 {
		lines = append(lines, "")
	}

	return boxStyle(color, width).Render(strings.Join(lines, "\n"))
}

// String implements fmt.Stringer
func (r *Result) String() string {
	return r.Render()
}

// PrintSuccess prints a success box to w.
func PrintSuccess(w io.Writer, title string, details ...Detail) {
	_, _ = fmt.Fprintln(w, NewSuccessResult(title, details...).Render())
}

// PrintFailure prints a failure box to w.
func PrintFailure(w io.Writer, title string, err error, hints ...string) {
	_, _ = fmt.Fprintln(w, NewFailureResult(title, err, hints...).Render())
}

// PrintWarning prints a warning box to w.
func PrintWarning(w io.Writer, title string, details ...Detail) {
	_, _ = fmt.Fprintln(w, NewWarningResult(title, details...).Render())
}
