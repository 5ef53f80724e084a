// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/tasktracker/lib/task"
)

// Run shows the TUI on the alt screen until the user quits or ctx is
// cancelled. Cancellation is a normal exit, not an error.
func Run(ctx context.Context, store *task.Store, options Options) error {
	model := NewModel(store, options)
	model.reload = func() error { return store.Reload(ctx) }

	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithContext(ctx),
	)
	if options.LogHandler != nil {
		options.LogHandler.SetProgram(program)
	}

	_, err := program.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
