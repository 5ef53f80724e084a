// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/util"

	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/tui"
)

// Filter bar layout, in columns from the left edge:
//
//	" Show: Incomplete ▾   Due: 2024-02-15   / query"
const (
	completionLabelX     = 1
	completionValueX     = completionLabelX + len("Show: ")
	completionValueWidth = 12 // Widest label plus " ▾".
	dueLabelX            = completionValueX + completionValueWidth + 3
	dueValueX            = dueLabelX + len("Due: ")
	dueValueWidth        = 10
	queryX               = dueValueX + dueValueWidth + 3
)

// fzf's default slab sizes.
const (
	slab16Size = 100 * 1024
	slab32Size = 2048
)

// filterRow is one task that passed the filter, with the title rune
// positions matched by the search query.
type filterRow struct {
	Task      task.Task
	Positions []int
}

// FilterBar holds the dashboard's filter inputs: the completion
// choice, the due date, and a fuzzy title query. The completion and
// due-date predicates form a [task.Filter]; the query narrows its
// result further on the client side.
type FilterBar struct {
	Completion task.Completion
	DueDate    task.Date

	due      tui.TextInput
	query    tui.TextInput
	dueError string
	slab     *util.Slab
}

// NewFilterBar creates a filter bar that matches everything.
func NewFilterBar() FilterBar {
	due := tui.NewTextInput("YYYY-MM-DD")
	due.CharLimit = dueValueWidth
	return FilterBar{
		due:   due,
		query: tui.NewTextInput("search titles"),
		slab:  util.MakeSlab(slab16Size, slab32Size),
	}
}

// Filter returns the completion and due-date predicates.
func (bar FilterBar) Filter() task.Filter {
	return task.Filter{Completion: bar.Completion, DueDate: bar.DueDate}
}

// Query returns the search text.
func (bar FilterBar) Query() string {
	return bar.query.Value()
}

// Apply runs the filter and then the fuzzy query over tasks. Order is
// preserved: search narrows the list but never ranks it.
func (bar FilterBar) Apply(tasks []task.Task) []filterRow {
	filtered := bar.Filter().Apply(tasks)
	pattern := []rune(strings.TrimSpace(bar.Query()))

	rows := make([]filterRow, 0, len(filtered))
	for _, item := range filtered {
		if len(pattern) == 0 {
			rows = append(rows, filterRow{Task: item})
			continue
		}
		result := tui.FuzzyMatch(item.Title, pattern, bar.slab)
		if result.Score > 0 {
			rows = append(rows, filterRow{Task: item, Positions: result.Positions})
		}
	}
	return rows
}

// UpdateQuery routes a key to the search input. Returns true if the
// query changed.
func (bar *FilterBar) UpdateQuery(message tea.KeyMsg) bool {
	return bar.query.Update(message)
}

// ClearQuery empties the search. Returns true if there was one.
func (bar *FilterBar) ClearQuery() bool {
	if bar.query.Empty() {
		return false
	}
	bar.query.Reset()
	return true
}

// BeginDueEdit loads the current due date into the input.
func (bar *FilterBar) BeginDueEdit() {
	bar.due.SetValue(bar.DueDate.String())
	bar.dueError = ""
}

// UpdateDue routes a key to the due-date input.
func (bar *FilterBar) UpdateDue(message tea.KeyMsg) {
	if bar.due.Update(message) {
		bar.dueError = ""
	}
}

// CommitDue parses the due-date input into the filter. An empty input
// clears the date. On a parse error the filter keeps its old date and
// the error is shown in the bar.
func (bar *FilterBar) CommitDue() error {
	date, err := task.ParseDate(bar.due.Value())
	if err != nil {
		bar.dueError = err.Error()
		return err
	}
	bar.DueDate = date
	bar.dueError = ""
	return nil
}

// ClearDue removes the due-date predicate.
func (bar *FilterBar) ClearDue() {
	bar.DueDate = task.Date{}
	bar.due.Reset()
	bar.dueError = ""
}

// CompletionDropdown builds the dropdown for choosing the completion
// filter, anchored under the value in the bar at row barY.
func (bar FilterBar) CompletionDropdown(barY int) *tui.DropdownOverlay {
	options := make([]tui.DropdownOption, len(task.Completions))
	for index, completion := range task.Completions {
		options[index] = tui.DropdownOption{Label: completion.Label(), Value: completion.String()}
	}
	return tui.NewDropdown("completion", options, bar.Completion.String(), completionValueX, barY+1)
}

// filterBarTarget identifies the part of the bar under a click.
type filterBarTarget int

const (
	barNone filterBarTarget = iota
	barCompletion
	barDue
	barQuery
)

// Target maps a column in the bar to the input it belongs to.
func (bar FilterBar) Target(x int) filterBarTarget {
	switch {
	case x >= completionLabelX && x < completionValueX+completionValueWidth:
		return barCompletion
	case x >= dueLabelX && x < dueValueX+dueValueWidth:
		return barDue
	case x >= queryX:
		return barQuery
	default:
		return barNone
	}
}

// View renders the bar as one line of the given width. focus says
// which input, if any, is being edited.
func (bar FilterBar) View(theme tui.Theme, width int, focus FocusRegion) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	valueStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	activeStyle := lipgloss.NewStyle().Foreground(theme.AccentForeground).Bold(true)

	var line strings.Builder
	line.WriteString(" " + labelStyle.Render("Show: "))
	completionStyle := valueStyle
	if bar.Completion != task.ShowAll {
		completionStyle = activeStyle
	}
	if focus == FocusDropdown {
		completionStyle = activeStyle
	}
	line.WriteString(padTo(completionStyle.Render(bar.Completion.Label()+" ▾"), completionValueWidth))

	line.WriteString("   " + labelStyle.Render("Due: "))
	switch {
	case focus == FocusDue:
		line.WriteString(bar.due.Render(theme, dueValueWidth, 1, true)[0])
	case bar.DueDate.IsZero():
		line.WriteString(padTo(labelStyle.Render("any"), dueValueWidth))
	default:
		line.WriteString(activeStyle.Render(bar.DueDate.String()))
	}

	line.WriteString("   ")
	searchStyle := labelStyle
	if focus == FocusQuery || !bar.query.Empty() {
		searchStyle = activeStyle
	}
	line.WriteString(searchStyle.Render("/ "))
	queryWidth := max(width-queryX-2, 1)
	if bar.dueError != "" {
		queryWidth = max(queryWidth-len(bar.dueError)-2, 1)
	}
	if focus == FocusQuery || !bar.query.Empty() {
		line.WriteString(bar.query.Render(theme, queryWidth, 1, focus == FocusQuery)[0])
	} else {
		line.WriteString(padTo(labelStyle.Render("search"), queryWidth))
	}
	if bar.dueError != "" {
		line.WriteString("  " + lipgloss.NewStyle().Foreground(theme.ErrorForeground).Render(bar.dueError))
	}
	return padTo(line.String(), width)
}
