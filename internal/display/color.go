// Package display renders the dashboard and one-shot tables to a terminal.
//
// Styling goes through a lipgloss renderer bound to stdout. It respects the
// NO_COLOR environment variable (https://no-color.org/) and falls back to
// plain text when stdout is not a terminal.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorRed    = lipgloss.Color("1")
	colorCyan   = lipgloss.Color("6")
	colorGray   = lipgloss.Color("8")
)

var renderer = lipgloss.NewRenderer(os.Stdout)

// enabled reports whether color output is active.
var enabled bool

func init() {
	SetEnabled(shouldEnable())
}

// shouldEnable determines whether to use color output.
func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	// Respect FORCE_COLOR for testing.
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return IsTerminal(os.Stdout)
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// SetEnabled overrides the auto-detected color state.
func SetEnabled(b bool) {
	enabled = b
	if b {
		renderer.SetColorProfile(termenv.ANSI)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}
}

// Enabled reports whether color output is currently active.
func Enabled() bool {
	return enabled
}

func style() lipgloss.Style {
	return renderer.NewStyle()
}

// Bold returns text rendered in bold.
func Bold(text string) string {
	return style().Bold(true).Render(text)
}

// Dim returns text rendered faint.
func Dim(text string) string {
	return style().Faint(true).Render(text)
}

// Green returns text rendered in green.
func Green(text string) string {
	return style().Foreground(colorGreen).Render(text)
}

// Yellow returns text rendered in yellow.
func Yellow(text string) string {
	return style().Foreground(colorYellow).Render(text)
}

// Red returns text rendered in red.
func Red(text string) string {
	return style().Foreground(colorRed).Render(text)
}

// Cyan returns text rendered in cyan.
func Cyan(text string) string {
	return style().Foreground(colorCyan).Render(text)
}

// Gray returns text rendered in gray.
func Gray(text string) string {
	return style().Foreground(colorGray).Render(text)
}

// Accent marks the next event: bold red, like a highlighted table row.
func Accent(text string) string {
	return style().Bold(true).Foreground(colorRed).Render(text)
}

// Boldf formats and bolds a string.
func Boldf(format string, a ...interface{}) string {
	return Bold(fmt.Sprintf(format, a...))
}
