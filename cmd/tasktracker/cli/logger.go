// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewCommandLogger returns the stderr logger handed to Run. Diagnostics
// never share stdout with command results, so "tasktracker list --json
// | jq" stays clean at any level. Interactive stderr gets slog's text
// format and redirected stderr gets JSON lines.
func NewCommandLogger(level slog.Leveler) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewJSONHandler(os.Stderr, options))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, options))
}
