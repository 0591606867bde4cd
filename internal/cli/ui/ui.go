// Package ui formats CLI status lines.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	failureColor = color.New(color.FgRed, color.Bold)
	warnColor    = color.New(color.FgYellow)
	labelColor   = color.New(color.FgCyan, color.Bold)
)

// Success writes "✓ message".
func Success(w io.Writer, format string, args ...any) {
	successColor.Fprintf(w, "✓ %s\n", fmt.Sprintf(format, args...))
}

// Failure writes "✗ message".
func Failure(w io.Writer, format string, args ...any) {
	failureColor.Fprintf(w, "✗ %s\n", fmt.Sprintf(format, args...))
}

// Warn writes "! message".
func Warn(w io.Writer, format string, args ...any) {
	warnColor.Fprintf(w, "! %s\n", fmt.Sprintf(format, args...))
}

// Field writes an indented "label: value" line.
func Field(w io.Writer, label string, value any) {
	labelColor.Fprintf(w, "  %s: ", label)
	fmt.Fprintln(w, value)
}
