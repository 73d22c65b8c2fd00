package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ConfirmPhrase is what the user must type to accept a destructive operation.
const ConfirmPhrase = "yes"

// ErrNoInput is returned when a prompt reaches end of input.
var ErrNoInput = errors.New("no input")

// ConfirmOverwrite shows a warning box and asks the user to type
// ConfirmPhrase. It returns true only on an exact match.
func ConfirmOverwrite(in io.Reader, out io.Writer, title string, warnings []string) bool {
	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf(" %s  WARNING  ─  %s", WarningMarker, title)), ""}
	for _, w := range warnings {
		lines = append(lines, ResultValueStyle.Render(" • "+w))
	}
	lines = append(lines, "")

	_, _ = fmt.Fprintln(out, boxStyle(WarningColor, GetTerminalWidth()).Render(strings.Join(lines, "\n")))

	prompt := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	_, _ = fmt.Fprint(out, prompt.Render(fmt.Sprintf("To proceed, type %q and press Enter: ", ConfirmPhrase)))

	answer, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && answer == "" {
		return false
	}

	if strings.TrimSpace(answer) == ConfirmPhrase {
		return true
	}
	_, _ = fmt.Fprintln(out, HintStyle.Render("  Operation cancelled."))
	return false
}

// ReadSecret prompts for a value without echoing it when in is a terminal.
// Piped input is read as a single line.
func ReadSecret(in *os.File, out io.Writer, prompt string) (string, error) {
	_, _ = fmt.Fprint(out, prompt)

	if IsTerminal(in) {
		b, err := term.ReadPassword(int(in.Fd()))
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
