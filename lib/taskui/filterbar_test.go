// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/tui"
)

func applyIDs(bar *FilterBar) []int64 {
	var ids []int64
	for _, row := range bar.Apply(task.SampleTasks()) {
		ids = append(ids, row.Task.ID)
	}
	return ids
}

func TestFilterBarApply(t *testing.T) {
	bar := NewFilterBar()
	if ids := applyIDs(&bar); !slices.Equal(ids, []int64{1, 2, 3}) {
		t.Errorf("empty filter = %v", ids)
	}

	bar.Completion = task.ShowIncomplete
	if ids := applyIDs(&bar); !slices.Equal(ids, []int64{1, 3}) {
		t.Errorf("incomplete = %v", ids)
	}

	bar.Completion = task.ShowAll
	bar.DueDate = task.MustParseDate("2024-02-18")
	if ids := applyIDs(&bar); !slices.Equal(ids, []int64{3}) {
		t.Errorf("due 2024-02-18 = %v", ids)
	}

	bar.DueDate = task.Date{}
	bar.UpdateQuery(runes("agnda"))
	rows := bar.Apply(task.SampleTasks())
	if len(rows) != 1 || rows[0].Task.ID != 2 {
		t.Fatalf("query %q matched %v", "agnda", rows)
	}
	title := []rune(rows[0].Task.Title)
	var matched strings.Builder
	for _, position := range rows[0].Positions {
		matched.WriteRune(title[position])
	}
	if strings.ToLower(matched.String()) != "agnda" {
		t.Errorf("highlighted %q, want %q", matched.String(), "agnda")
	}
}

func TestFilterBarQueryLifecycle(t *testing.T) {
	bar := NewFilterBar()
	if bar.ClearQuery() {
		t.Error("ClearQuery on an empty query should report false")
	}
	bar.UpdateQuery(runes("agenda"))
	if bar.Query() != "agenda" {
		t.Errorf("Query() = %q", bar.Query())
	}
	if !bar.ClearQuery() || bar.Query() != "" {
		t.Error("ClearQuery should empty the query")
	}
}

func TestFilterBarDueEdit(t *testing.T) {
	bar := NewFilterBar()
	bar.BeginDueEdit()
	bar.UpdateDue(runes("2024-02-30"))
	if err := bar.CommitDue(); err == nil {
		t.Fatal("2024-02-30 should not parse")
	}
	if !bar.DueDate.IsZero() {
		t.Error("a failed commit must keep the old date")
	}
	if view := ansi.Strip(bar.View(tui.DefaultTheme, 120, FocusDue)); !strings.Contains(view, "invalid date") {
		t.Errorf("error should be shown in the bar: %q", view)
	}

	bar.UpdateDue(tea.KeyMsg{Type: tea.KeyBackspace})
	bar.UpdateDue(tea.KeyMsg{Type: tea.KeyBackspace})
	if view := ansi.Strip(bar.View(tui.DefaultTheme, 120, FocusDue)); strings.Contains(view, "invalid date") {
		t.Error("editing should clear the error")
	}
	bar.UpdateDue(runes("29"))
	if err := bar.CommitDue(); err != nil {
		t.Fatalf("CommitDue: %v", err)
	}
	if bar.DueDate != task.MustParseDate("2024-02-29") {
		t.Errorf("DueDate = %v", bar.DueDate)
	}

	bar.BeginDueEdit()
	bar.UpdateDue(tea.KeyMsg{Type: tea.KeyCtrlU})
	if err := bar.CommitDue(); err != nil || !bar.DueDate.IsZero() {
		t.Errorf("an empty commit should clear the date, got %v, %v", bar.DueDate, err)
	}
}

func TestFilterBarTarget(t *testing.T) {
	bar := NewFilterBar()
	tests := []struct {
		x    int
		want filterBarTarget
	}{
		{0, barNone},
		{completionLabelX, barCompletion},
		{completionValueX + 3, barCompletion},
		{dueLabelX - 1, barNone},
		{dueValueX, barDue},
		{queryX, barQuery},
		{200, barQuery},
	}
	for _, test := range tests {
		if got := bar.Target(test.x); got != test.want {
			t.Errorf("Target(%d) = %v, want %v", test.x, got, test.want)
		}
	}
}

func TestFilterBarView(t *testing.T) {
	bar := NewFilterBar()
	view := bar.View(tui.DefaultTheme, 100, FocusList)
	if width := ansi.StringWidth(view); width != 100 {
		t.Errorf("view width = %d, want 100", width)
	}
	plain := ansi.Strip(view)
	for _, want := range []string{"Show: All ▾", "Due: any", "/ search"} {
		if !strings.Contains(plain, want) {
			t.Errorf("view %q missing %q", plain, want)
		}
	}
	if got := ansi.StringWidth(plain[:strings.Index(plain, "Due:")]); got != dueLabelX {
		t.Errorf("Due: label at column %d, want %d", got, dueLabelX)
	}

	bar.Completion = task.ShowComplete
	bar.DueDate = task.MustParseDate("2024-02-15")
	plain = ansi.Strip(bar.View(tui.DefaultTheme, 100, FocusList))
	if !strings.Contains(plain, "Complete ▾") || !strings.Contains(plain, "Due: 2024-02-15") {
		t.Errorf("active filter view = %q", plain)
	}
}

func TestCompletionDropdownAnchor(t *testing.T) {
	bar := NewFilterBar()
	bar.Completion = task.ShowIncomplete
	dropdown := bar.CompletionDropdown(filterBarY)
	if dropdown.AnchorX != completionValueX || dropdown.AnchorY != filterBarY+1 {
		t.Errorf("anchor = (%d, %d)", dropdown.AnchorX, dropdown.AnchorY)
	}
	if dropdown.Selected().Value != "incomplete" {
		t.Errorf("cursor should start on the current choice, got %q", dropdown.Selected().Value)
	}
}
