// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"
)

// ParseLevel converts a config level name into a pterm log level.
// Unknown names fall back to info.
func ParseLevel(level string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// New returns a logger writing to stderr at the given level.
func New(level string) *pterm.Logger {
	return pterm.DefaultLogger.
		WithLevel(ParseLevel(level)).
		WithWriter(os.Stderr)
}

// Discard returns a logger that drops everything. Used in tests and as the
// default for packages constructed without a logger.
func Discard() *pterm.Logger {
	return pterm.DefaultLogger.
		WithLevel(pterm.LogLevelDisabled).
		WithWriter(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *pterm.Logger) *pterm.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
