// Package ui prints user-facing messages for notebook users.
//
// The broker's diagnostics are dual-channel: a structured record via
// internal/log and a plain-language hint printed here. Hints go to stderr so
// they show up in the notebook cell output next to the failure.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

var writer io.Writer = os.Stderr

// SetWriter overrides the output writer (for testing).
func SetWriter(w io.Writer) {
	writer = w
}

var stderrColor = detectColor(os.Stderr)

func detectColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColorEnabled overrides color detection (for testing).
func SetColorEnabled(enabled bool) {
	stderrColor = enabled
}

func ansi(code, s string) string {
	if !stderrColor {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// Bold returns s wrapped in bold ANSI codes.
func Bold(s string) string { return ansi("1", s) }

// Dim returns s wrapped in dim ANSI codes.
func Dim(s string) string { return ansi("2", s) }

// Green returns s wrapped in green ANSI codes.
func Green(s string) string { return ansi("32", s) }

// Red returns s wrapped in red ANSI codes.
func Red(s string) string { return ansi("31", s) }

// Yellow returns s wrapped in yellow ANSI codes.
func Yellow(s string) string { return ansi("33", s) }

// Section prints a bold title with a thin underline to stdout.
func Section(title string) {
	fmt.Println(Bold(title))
	fmt.Println(Dim(strings.Repeat("─", len(title))))
}

// OKTag returns a green "✓" for success indicators.
func OKTag() string { return Green("✓") }

// FailTag returns a red "✗" for failure indicators.
func FailTag() string { return Red("✗") }

// Hint prints an actionable message with no prefix. Used at failure sites to
// point the user at the fix (enable an integration, check connectivity).
func Hint(msg string) {
	fmt.Fprintf(writer, "%s\n", msg)
}

// Hintf prints a formatted actionable message with no prefix.
func Hintf(format string, args ...any) {
	fmt.Fprintf(writer, format+"\n", args...)
}

// Warn prints a user-facing warning.
func Warn(msg string) {
	fmt.Fprintf(writer, "%s %s\n", ansi("33", "Warning:"), msg)
}

// Warnf prints a formatted user-facing warning.
func Warnf(format string, args ...any) {
	fmt.Fprintf(writer, "%s %s\n", ansi("33", "Warning:"), fmt.Sprintf(format, args...))
}

// Error prints a user-facing error.
func Error(msg string) {
	fmt.Fprintf(writer, "%s %s\n", ansi("31", "Error:"), msg)
}

// Errorf prints a formatted user-facing error.
func Errorf(format string, args ...any) {
	fmt.Fprintf(writer, "%s %s\n", ansi("31", "Error:"), fmt.Sprintf(format, args...))
}
