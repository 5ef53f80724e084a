// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/tasktracker/lib/task"
)

func TestDashboardView(t *testing.T) {
	model, _ := newTestModel(t)
	view := ansi.Strip(model.View())

	for _, want := range []string{
		"Task Tracker App",
		"3 shown  2 open  1 done",
		"Prepare agenda for team meeting",
		"Show: All ▾",
		"[LIST]",
		"1/3",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if lines := strings.Split(view, "\n"); len(lines) != 30 {
		t.Errorf("view has %d lines, want 30", len(lines))
	}
}

func TestViewBeforeResize(t *testing.T) {
	env := newTestEnv(t)
	if view := NewModel(env.store, Options{}).View(); view != "Loading..." {
		t.Errorf("View() before WindowSizeMsg = %q", view)
	}
}

func TestToggleFlowsThroughStore(t *testing.T) {
	model, env := newTestModel(t)

	model, cmd := updateCmd(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	message := runCmd(t, cmd)
	if message != (toggleTaskMsg{ID: 1}) {
		t.Fatalf("space emitted %#v, want toggleTaskMsg{ID: 1}", message)
	}

	model, cmd = updateCmd(t, model, message)
	if result := runCmd(t, cmd).(mutationResultMsg); result.err != nil {
		t.Fatalf("toggle failed: %v", result.err)
	}
	if updated, _ := env.store.Get(1); !updated.IsComplete {
		t.Fatal("task 1 should be complete after toggle")
	}

	model, cmd = updateCmd(t, model, nextEvent(t, model))
	if cmd == nil {
		t.Error("store event should re-listen and start the heat tick")
	}
	if !model.tickRunning {
		t.Error("heat tick should be running after a change")
	}
	if heat := model.heatTracker.Heat(1, env.clock.Now()); heat != 1.0 {
		t.Errorf("changed row heat = %v, want 1.0", heat)
	}
	if !strings.Contains(ansi.Strip(model.View()), "3 shown  1 open  2 done") {
		t.Error("header counts should reflect the toggle")
	}
}

func TestHeatTickStopsWhenCold(t *testing.T) {
	model, env := newTestModel(t)
	if _, _, err := env.store.ToggleComplete(3); err != nil {
		t.Fatal(err)
	}
	model = update(t, model, nextEvent(t, model))

	model, cmd := updateCmd(t, model, heatTickMsg{})
	if cmd == nil || !model.tickRunning {
		t.Fatal("tick should continue while the row is hot")
	}

	env.clock.Advance(6 * time.Second)
	model, cmd = updateCmd(t, model, heatTickMsg{})
	if cmd != nil || model.tickRunning {
		t.Error("tick should stop once every row has cooled")
	}
}

func TestDeleteKeyRemovesSelectedTask(t *testing.T) {
	model, env := newTestModel(t)
	model = update(t, model, runes("j"))

	model, cmd := updateCmd(t, model, runes("d"))
	message := runCmd(t, cmd)
	if message != (deleteTaskMsg{ID: 2}) {
		t.Fatalf("d emitted %#v, want deleteTaskMsg{ID: 2}", message)
	}
	model, cmd = updateCmd(t, model, message)
	runCmd(t, cmd)

	model = update(t, model, nextEvent(t, model))
	if ids := rowIDs(model); !slices.Equal(ids, []int64{1, 3}) {
		t.Errorf("rows after delete = %v, want [1 3]", ids)
	}
	if env.store.Len() != 2 {
		t.Errorf("store has %d tasks, want 2", env.store.Len())
	}
	if selected, _ := model.selected(); selected.ID != 3 {
		t.Errorf("selection should move to the next row, got %d", selected.ID)
	}
}

func TestCompletionDropdown(t *testing.T) {
	model, _ := newTestModel(t)

	model = update(t, model, runes("c"))
	if model.focusRegion != FocusDropdown || model.dropdown == nil {
		t.Fatal("c should open the completion dropdown")
	}
	if !strings.Contains(ansi.Strip(model.View()), "> All") {
		t.Error("dropdown should be spliced onto the view")
	}

	model = update(t, model, runes("j"))
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.focusRegion != FocusList || model.dropdown != nil {
		t.Error("enter should close the dropdown")
	}
	if model.filterBar.Completion != task.ShowComplete {
		t.Fatalf("completion = %v, want ShowComplete", model.filterBar.Completion)
	}
	if ids := rowIDs(model); !slices.Equal(ids, []int64{2}) {
		t.Errorf("complete rows = %v, want [2]", ids)
	}

	model = update(t, model, runes("c"))
	model = update(t, model, runes("j"))
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if ids := rowIDs(model); !slices.Equal(ids, []int64{1, 3}) {
		t.Errorf("incomplete rows = %v, want [1 3]", ids)
	}

	model = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if len(model.rows) != 3 {
		t.Errorf("esc should clear the filter, got %d rows", len(model.rows))
	}
}

func TestDropdownDismissWithQ(t *testing.T) {
	model, _ := newTestModel(t)
	model = update(t, model, runes("c"))
	model, cmd := updateCmd(t, model, runes("q"))
	if cmd != nil {
		t.Error("q in the dropdown should not quit")
	}
	if model.dropdown != nil || model.focusRegion != FocusList {
		t.Error("q should dismiss the dropdown")
	}
}

func TestDueDateFilter(t *testing.T) {
	model, _ := newTestModel(t)

	model = update(t, model, runes("D"))
	if model.focusRegion != FocusDue {
		t.Fatal("D should focus the due-date input")
	}
	model = typeText(t, model, "2024-13-01")
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.focusRegion != FocusDue {
		t.Error("an invalid date should keep the input focused")
	}
	if !strings.Contains(ansi.Strip(model.View()), "invalid date") {
		t.Error("the parse error should be shown in the bar")
	}

	for range len("2024-13-01") {
		model = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	model = typeText(t, model, "2024-02-15")
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.focusRegion != FocusList {
		t.Fatal("a valid date should return focus to the list")
	}
	if ids := rowIDs(model); !slices.Equal(ids, []int64{2}) {
		t.Errorf("rows due 2024-02-15 = %v, want [2]", ids)
	}

	model = update(t, model, runes("D"))
	model = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlU})
	model = typeText(t, model, "2030-01-01")
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if len(model.rows) != 0 {
		t.Errorf("unused date should give an empty list, got %v", rowIDs(model))
	}
	if !strings.Contains(ansi.Strip(model.View()), "No tasks match the filter") {
		t.Error("empty filtered list should say so")
	}
}

func TestSearchNarrowsInOrder(t *testing.T) {
	model, _ := newTestModel(t)

	model = update(t, model, runes("/"))
	if model.focusRegion != FocusQuery {
		t.Fatal("/ should focus the search input")
	}
	model = typeText(t, model, "task")
	if ids := rowIDs(model); !slices.Equal(ids, []int64{1, 3}) {
		t.Errorf("rows matching %q = %v, want [1 3]", "task", ids)
	}
	if len(model.rows[0].Positions) != 4 {
		t.Errorf("expected 4 highlighted runes, got %v", model.rows[0].Positions)
	}

	// q is text while searching.
	model, cmd := updateCmd(t, model, runes("q"))
	if cmd != nil {
		t.Error("q in the search input should not quit")
	}
	if model.filterBar.Query() != "taskq" {
		t.Errorf("query = %q", model.filterBar.Query())
	}

	model = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.filterBar.Query() != "" || model.focusRegion != FocusQuery {
		t.Error("first esc clears the text and keeps focus")
	}
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.focusRegion != FocusList {
		t.Error("second esc leaves the search input")
	}
}

func TestSearchComposesWithCompletion(t *testing.T) {
	model, _ := newTestModel(t)
	model.filterBar.Completion = task.ShowComplete
	model = update(t, model, runes("/"))
	model = typeText(t, model, "task")
	if len(model.rows) != 0 {
		t.Errorf("no complete task matches %q, got %v", "task", rowIDs(model))
	}
}

func TestEscClearsOneFilterLayerAtATime(t *testing.T) {
	model, _ := newTestModel(t)
	model.filterBar.Completion = task.ShowIncomplete
	model = update(t, model, runes("D"))
	model = typeText(t, model, "2024-02-12")
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	model = update(t, model, runes("/"))
	model = typeText(t, model, "feature")
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if ids := rowIDs(model); !slices.Equal(ids, []int64{1}) {
		t.Fatalf("filtered rows = %v, want [1]", ids)
	}

	model = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.filterBar.Query() != "" || model.filterBar.DueDate.IsZero() {
		t.Fatal("first esc should clear only the search")
	}

	model = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if !model.filterBar.DueDate.IsZero() || model.filterBar.Completion != task.ShowIncomplete {
		t.Fatal("second esc should clear only the due date")
	}
	if ids := rowIDs(model); !slices.Equal(ids, []int64{1, 3}) {
		t.Errorf("rows = %v, want [1 3]", ids)
	}

	model = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.filterBar.Completion != task.ShowAll || len(model.rows) != 3 {
		t.Errorf("third esc should clear completion, got %v", rowIDs(model))
	}
}

func TestNewTaskForm(t *testing.T) {
	model, env := newTestModel(t)

	model = update(t, model, runes("n"))
	if model.route != RouteNewTask {
		t.Fatal("n should open the form")
	}
	view := ansi.Strip(model.View())
	if !strings.Contains(view, "New Task") || !strings.Contains(view, "2024-02-15") {
		t.Errorf("form should show its title and the pre-filled due date:\n%s", view)
	}

	model = typeText(t, model, "Buy milk")
	model = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = typeText(t, model, "two litres")

	model, cmd := updateCmd(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	added, ok := runCmd(t, cmd).(taskAddedMsg)
	if !ok || added.err != nil {
		t.Fatalf("submit result = %#v", added)
	}
	model = update(t, model, added)

	if model.route != RouteDashboard {
		t.Error("a successful submit returns to the dashboard")
	}
	if env.store.Len() != 4 {
		t.Fatalf("store has %d tasks, want 4", env.store.Len())
	}
	created, found := env.store.Get(added.task.ID)
	if !found || created.Title != "Buy milk" || created.Description != "two litres" || created.IsComplete {
		t.Errorf("created task = %+v", created)
	}
	if created.DueDate != task.MustParseDate("2024-02-15") {
		t.Errorf("due date = %v", created.DueDate)
	}
	if selected, _ := model.selected(); selected.ID != created.ID {
		t.Errorf("new task should be selected, got %d", selected.ID)
	}
}

func TestNewTaskFormValidation(t *testing.T) {
	model, env := newTestModel(t)
	model = update(t, model, runes("n"))

	model, cmd := updateCmd(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Error("an invalid form should not be submitted")
	}
	if model.route != RouteNewTask {
		t.Error("validation errors keep the form open")
	}
	if !strings.Contains(ansi.Strip(model.View()), "title is required") {
		t.Error("the validation error should be shown inline")
	}

	model = update(t, model, tea.KeyMsg{Type: tea.KeyShiftTab})
	model = update(t, model, tea.KeyMsg{Type: tea.KeyCtrlU})
	model = typeText(t, model, "soon")
	model, _ = updateCmd(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(ansi.Strip(model.View()), "invalid date") {
		t.Error("a malformed due date should be reported")
	}

	model = update(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.route != RouteDashboard {
		t.Error("esc cancels the form")
	}
	if env.store.Len() != 3 {
		t.Errorf("cancelled form should not create anything, store has %d", env.store.Len())
	}
}

func TestCardRoute(t *testing.T) {
	model, env := newTestModel(t)
	model = update(t, model, runes("G"))
	model = update(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.route != RouteCard {
		t.Fatal("enter should open the card")
	}
	view := ansi.Strip(model.View())
	for _, want := range []string{"Task #3", "Add new tasks to appear below", "◷ Incomplete", "due in 3d", "clock"} {
		if !strings.Contains(view, want) {
			t.Errorf("card view missing %q", want)
		}
	}

	// Toggling from the card updates it in place.
	model, cmd := updateCmd(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, cmd = updateCmd(t, model, runCmd(t, cmd))
	runCmd(t, cmd)
	model = update(t, model, nextEvent(t, model))
	if !strings.Contains(ansi.Strip(model.View()), "✓ Complete") {
		t.Error("card should show the toggled state")
	}

	// Deleting the shown task returns to the dashboard.
	model, cmd = updateCmd(t, model, runes("d"))
	model, cmd = updateCmd(t, model, runCmd(t, cmd))
	runCmd(t, cmd)
	model = update(t, model, nextEvent(t, model))
	if model.route != RouteDashboard {
		t.Error("deleting the shown task should leave the card")
	}
	if _, found := env.store.Get(3); found {
		t.Error("task 3 should be deleted")
	}
}

func TestStorageChangeReloads(t *testing.T) {
	model, env := newTestModel(t)

	external := append(task.SampleTasks(), task.Task{
		ID:        99,
		Title:     "Written by another process",
		DueDate:   task.MustParseDate("2024-03-01"),
		DateAdded: testNow,
	})
	data, err := json.Marshal(external)
	if err != nil {
		t.Fatal(err)
	}
	if err := env.backend.Set(env.store.Key(), data); err != nil {
		t.Fatal(err)
	}

	model, cmd := updateCmd(t, model, storageChangedMsg{})
	batch, ok := runCmd(t, cmd).(tea.BatchMsg)
	if !ok || len(batch) != 2 {
		t.Fatalf("storage change should batch a reload and a re-listen, got %#v", batch)
	}
	result := batch[0]().(reloadResultMsg)
	if result.err != nil {
		t.Fatalf("reload: %v", result.err)
	}
	model = update(t, model, result)
	model = update(t, model, nextEvent(t, model))

	if ids := rowIDs(model); !slices.Equal(ids, []int64{1, 2, 3, 99}) {
		t.Errorf("rows after reload = %v", ids)
	}
	if model.heatTracker.Heat(99, env.clock.Now()) == 0 {
		t.Error("externally added row should glow")
	}
}

func TestLogRecordNotice(t *testing.T) {
	model, _ := newTestModel(t)

	model, cmd := updateCmd(t, model, logRecordMsg{Summary: "storage watch stopped", Level: slog.LevelWarn})
	if cmd == nil {
		t.Fatal("a notice should schedule its fade")
	}
	if !strings.Contains(ansi.Strip(model.View()), "storage watch stopped") {
		t.Error("notice should replace the help line")
	}

	stale := logRecordFadeMsg{sequence: model.noticeSequence}
	model = update(t, model, logRecordMsg{Summary: "second", Level: slog.LevelError})
	model = update(t, model, stale)
	if model.notice != "second" {
		t.Error("an older fade must not clear a newer notice")
	}
	model = update(t, model, logRecordFadeMsg{sequence: model.noticeSequence})
	if model.notice != "" {
		t.Error("matching fade should clear the notice")
	}
	if !strings.Contains(ansi.Strip(model.View()), "[LIST]") {
		t.Error("help should return after the fade")
	}
}

func TestMouseClickZones(t *testing.T) {
	model, _ := newTestModel(t)
	rowY := model.contentStartY() + 1
	rowWidth := model.listWidth() - 1

	press := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	}

	model, cmd := updateCmd(t, model, press(1, rowY))
	if message := runCmd(t, cmd); message != (toggleTaskMsg{ID: 2}) {
		t.Errorf("icon click = %#v, want toggleTaskMsg{ID: 2}", message)
	}
	if selected, _ := model.selected(); selected.ID != 2 {
		t.Errorf("click should select the row, got %d", selected.ID)
	}

	model, cmd = updateCmd(t, model, press(rowWidth-2, rowY))
	if message := runCmd(t, cmd); message != (deleteTaskMsg{ID: 2}) {
		t.Errorf("delete click = %#v, want deleteTaskMsg{ID: 2}", message)
	}

	model, cmd = updateCmd(t, model, press(20, rowY))
	if cmd != nil || model.route != RouteCard {
		t.Error("clicking the body of the selected row should open it")
	}
}

func TestMouseFilterBar(t *testing.T) {
	model, _ := newTestModel(t)
	press := func(x, y int) tea.MouseMsg {
		return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	}

	model = update(t, model, press(completionValueX, filterBarY))
	if model.dropdown == nil {
		t.Fatal("clicking the completion value should open the dropdown")
	}
	// Third option is Incomplete.
	model = update(t, model, press(completionValueX+1, model.dropdown.AnchorY+2))
	if model.filterBar.Completion != task.ShowIncomplete {
		t.Errorf("completion = %v, want ShowIncomplete", model.filterBar.Completion)
	}

	model = update(t, model, press(queryX+2, filterBarY))
	if model.focusRegion != FocusQuery {
		t.Error("clicking the search should focus it")
	}
}

func TestSplitResize(t *testing.T) {
	model, _ := newTestModel(t)
	before := model.listWidth()
	model = update(t, model, runes("]"))
	if model.listWidth() <= before {
		t.Error("] should grow the list")
	}
	for range 20 {
		model = update(t, model, runes("["))
	}
	if model.splitRatio != splitRatioMin {
		t.Errorf("split ratio = %v, want clamp at %v", model.splitRatio, splitRatioMin)
	}
}

func TestNarrowTerminalHidesPreview(t *testing.T) {
	model, _ := newTestModel(t)
	model = update(t, model, tea.WindowSizeMsg{Width: 50, Height: 20})
	if model.listWidth() != 50 {
		t.Errorf("list width = %d, want the full 50", model.listWidth())
	}
	for index, line := range strings.Split(model.View(), "\n") {
		if width := ansi.StringWidth(line); width > 50 {
			t.Errorf("line %d is %d columns wide", index, width)
		}
	}
}

func TestQuit(t *testing.T) {
	model, _ := newTestModel(t)
	_, cmd := updateCmd(t, model, runes("q"))
	if _, ok := runCmd(t, cmd).(tea.QuitMsg); !ok {
		t.Error("q on the list should quit")
	}

	model = update(t, model, runes("n"))
	_, cmd = updateCmd(t, model, tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := runCmd(t, cmd).(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit from the form")
	}
}
