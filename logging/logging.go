// SPDX-License-Identifier: MIT

// Package logging builds the process logger once, at start-up, from
// configuration. Library packages never call it: they accept a *slog.Logger
// through their WithLogger options and default to discarding.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing records at level and above to w (stderr when
// w is nil) in the given format.
func New(level slog.Level, format string, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch format {
	case FormatText, "":
		h = slog.NewTextHandler(w, opts)
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	return slog.New(h), nil
}

// ParseLevel maps "debug", "info", "warn" or "error" (any case) to a level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging: %w", err)
	}

	return lvl, nil
}
