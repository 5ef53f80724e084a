// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/tasktracker/lib/clock"
	"github.com/bureau-foundation/tasktracker/lib/localstore"
	"github.com/bureau-foundation/tasktracker/lib/task"
)

// testNow is the fake clock's start: the day task 2 is due.
var testNow = time.Date(2024, 2, 15, 9, 30, 0, 0, time.UTC)

type testEnv struct {
	store   *task.Store
	backend *localstore.Store
	clock   *clock.FakeClock
}

// newTestEnv opens a store seeded with the three sample tasks in a
// temporary directory.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	fake := clock.Fake(testNow)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, err := localstore.Open(localstore.Options{Directory: t.TempDir(), Clock: fake, Logger: logger})
	if err != nil {
		t.Fatalf("localstore.Open: %v", err)
	}
	store, err := task.Open(context.Background(), task.Options{
		Backend: backend,
		Clock:   fake,
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("task.Open: %v", err)
	}
	return testEnv{store: store, backend: backend, clock: fake}
}

// newTestModel returns a sized dashboard over the sample tasks.
func newTestModel(t *testing.T) (Model, testEnv) {
	t.Helper()
	env := newTestEnv(t)
	model := NewModel(env.store, Options{})
	return update(t, model, tea.WindowSizeMsg{Width: 120, Height: 30}), env
}

// update feeds one message and returns the resulting Model.
func update(t *testing.T, model Model, message tea.Msg) Model {
	t.Helper()
	updated, _ := model.Update(message)
	return updated.(Model)
}

// updateCmd feeds one message and returns the Model and command.
func updateCmd(t *testing.T, model Model, message tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := model.Update(message)
	return updated.(Model), cmd
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// typeText sends each rune as its own key press.
func typeText(t *testing.T, model Model, text string) Model {
	t.Helper()
	for _, character := range text {
		if character == ' ' {
			model = update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		model = update(t, model, runes(string(character)))
	}
	return model
}

// runCmd executes cmd and fails if it produced nothing.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

// nextEvent reads the store event that a mutation has already queued.
func nextEvent(t *testing.T, model Model) storeEventMsg {
	t.Helper()
	select {
	case event := <-model.eventChannel:
		return storeEventMsg{event: event}
	case <-time.After(time.Second):
		t.Fatal("no store event queued")
		return storeEventMsg{}
	}
}

func rowIDs(model Model) []int64 {
	ids := make([]int64, len(model.rows))
	for index, row := range model.rows {
		ids[index] = row.Task.ID
	}
	return ids
}
