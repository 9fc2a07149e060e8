// Package ui provides colored console output utilities for user interfaces.
// All output goes to stderr: stdout is reserved for the JSON documents the
// host reads back from every plugin operation.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// VerboseEnvVar enables debug output when set to "1" or "true"
const VerboseEnvVar = "NODE_PLUGIN_VERBOSE"

var (
	// Color functions for different message types
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	debugColor   = color.New(color.FgHiBlack)

	// Symbols
	successSymbol = "✓"
	errorSymbol   = "✗"
	warningSymbol = "⚠"
	infoSymbol    = "→"
	debugSymbol   = "·"

	verboseMode bool
	out         io.Writer = color.Error
)

// SetVerbose enables or disables debug output
func SetVerbose(enabled bool) {
	verboseMode = enabled
}

// IsVerbose reports whether debug output is enabled
func IsVerbose() bool {
	return verboseMode
}

// CheckVerboseEnv turns on verbose mode when NODE_PLUGIN_VERBOSE is set
func CheckVerboseEnv() {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(VerboseEnvVar)))
	if value == "1" || value == "true" {
		verboseMode = true
	}
}

// SetOutput redirects all messages to w and returns the previous writer.
// Passing nil restores stderr.
func SetOutput(w io.Writer) io.Writer {
	previous := out
	if w == nil {
		w = color.Error
	}
	out = w
	return previous
}

// Success prints a success message in green with a checkmark
func Success(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = successColor.Fprintf(out, "%s %s\n", successSymbol, message)
}

// Error prints an error message in red with an X
func Error(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = errorColor.Fprintf(out, "%s %s\n", errorSymbol, message)
}

// Warning prints a warning message in yellow with a warning symbol
func Warning(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = warningColor.Fprintf(out, "%s %s\n", warningSymbol, message)
}

// Info prints an info message in cyan with an arrow
func Info(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = infoColor.Fprintf(out, "%s %s\n", infoSymbol, message)
}

// Debug prints a dimmed message, only in verbose mode
func Debug(format string, args ...interface{}) {
	if !verboseMode {
		return
	}
	message := fmt.Sprintf(format, args...)
	_, _ = debugColor.Fprintf(out, "%s %s\n", debugSymbol, message)
}

// Highlight returns text in the emphasis color
func Highlight(text string) string {
	return color.New(color.FgCyan, color.Bold).Sprint(text)
}
