// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/tui"
)

// toggleTaskMsg asks the model to flip a task's completion.
type toggleTaskMsg struct {
	ID int64
}

// deleteTaskMsg asks the model to delete a task.
type deleteTaskMsg struct {
	ID int64
}

func toggleTask(id int64) tea.Cmd {
	return func() tea.Msg { return toggleTaskMsg{ID: id} }
}

func deleteTask(id int64) tea.Cmd {
	return func() tea.Msg { return deleteTaskMsg{ID: id} }
}

// Row layout, in columns:
//
//	" ◷ " title  due-date  excerpt " ✗ "
//
// The three leading and three trailing columns are the click zones
// for toggling and deleting.
const (
	itemLeadingWidth  = 3
	itemTrailingWidth = 3
	itemDueWidth      = 10
	itemGapWidth      = 2

	iconComplete   = "✓"
	iconIncomplete = "◷"
	iconDelete     = "✗"
)

// itemZone is the part of a row under a mouse click.
type itemZone int

const (
	zoneBody itemZone = iota
	zoneToggle
	zoneDelete
)

// ItemRenderer draws single task rows at a fixed width. It holds only
// layout configuration: the task, the selection and the match
// positions are passed in on every call.
type ItemRenderer struct {
	theme            tui.Theme
	width            int
	showDescriptions bool
}

// NewItemRenderer creates a renderer for rows of the given width.
func NewItemRenderer(theme tui.Theme, width int, showDescriptions bool) ItemRenderer {
	return ItemRenderer{theme: theme, width: width, showDescriptions: showDescriptions}
}

// columns returns the title and excerpt widths. The excerpt column
// disappears on narrow rows.
func (renderer ItemRenderer) columns() (titleWidth, excerptWidth int) {
	middle := renderer.width - itemLeadingWidth - itemTrailingWidth - itemDueWidth - itemGapWidth
	if middle < 4 {
		return max(middle, 1), 0
	}
	if !renderer.showDescriptions || middle < 40 {
		return middle, 0
	}
	titleWidth = middle * 3 / 5
	return titleWidth, middle - titleWidth - itemGapWidth
}

// Render draws one row. today colors the due date; positions are rune
// indices into the title to highlight for the active search.
func (renderer ItemRenderer) Render(item task.Task, today task.Date, selected bool, positions []int) string {
	theme := renderer.theme
	titleWidth, excerptWidth := renderer.columns()

	icon := lipgloss.NewStyle().Foreground(theme.IncompleteForeground).Render(iconIncomplete)
	titleStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	if item.IsComplete {
		icon = lipgloss.NewStyle().Foreground(theme.CompleteForeground).Render(iconComplete)
		titleStyle = lipgloss.NewStyle().Foreground(theme.FaintText).Strikethrough(true)
	}
	if selected {
		titleStyle = titleStyle.Foreground(theme.SelectedForeground).Bold(true)
	}
	highlightStyle := titleStyle.Background(theme.SearchHighlightBackground)

	title := []rune(item.Title)
	if len(title) > 0 && ansi.StringWidth(item.Title) > titleWidth {
		title = []rune(ansi.Truncate(item.Title, titleWidth-1, "") + "…")
	}
	var visible []int
	for _, position := range positions {
		if position < len(title) {
			visible = append(visible, position)
		}
	}
	titleText := tui.HighlightRunes(string(title), visible, titleStyle, highlightStyle)
	titleText = padTo(titleText, titleWidth)

	due := lipgloss.NewStyle().
		Foreground(theme.DueColor(daysUntil(item.DueDate, today), item.IsComplete)).
		Render(padTo(item.DueDate.String(), itemDueWidth))

	var row strings.Builder
	row.WriteString(" " + icon + " ")
	row.WriteString(titleText)
	row.WriteString(strings.Repeat(" ", itemGapWidth/2))
	row.WriteString(due)
	if excerptWidth > 0 {
		excerpt := tui.Excerpt(item.Description, excerptWidth)
		row.WriteString(strings.Repeat(" ", itemGapWidth))
		row.WriteString(lipgloss.NewStyle().Foreground(theme.FaintText).Render(padTo(excerpt, excerptWidth)))
	}
	row.WriteString(strings.Repeat(" ", itemGapWidth/2))
	deleteStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	if selected {
		deleteStyle = deleteStyle.Foreground(theme.ErrorForeground)
	}
	row.WriteString(" " + deleteStyle.Render(iconDelete) + " ")

	rendered := padTo(row.String(), renderer.width)
	if selected {
		rendered = lipgloss.NewStyle().
			Background(theme.SelectedBackground).
			Width(renderer.width).
			MaxWidth(renderer.width).
			Render(rendered)
	}
	return ansi.Truncate(rendered, renderer.width, "")
}

// Zone maps a column within a row to its click zone.
func (renderer ItemRenderer) Zone(x int) itemZone {
	switch {
	case x >= 0 && x < itemLeadingWidth:
		return zoneToggle
	case x >= renderer.width-itemTrailingWidth && x < renderer.width:
		return zoneDelete
	default:
		return zoneBody
	}
}

// Action returns the message command for a click at column x on the
// row of the given task, or nil for the row body.
func (renderer ItemRenderer) Action(id int64, x int) tea.Cmd {
	switch renderer.Zone(x) {
	case zoneToggle:
		return toggleTask(id)
	case zoneDelete:
		return deleteTask(id)
	default:
		return nil
	}
}

// daysUntil returns the whole days from today to due, negative when
// due is in the past. An unset due date counts as far in the future.
func daysUntil(due, today task.Date) int {
	if due.IsZero() || today.IsZero() {
		return 1 << 20
	}
	return int(due.Time().Sub(today.Time()).Hours() / 24)
}

// padTo pads or truncates a styled string to exactly width columns.
func padTo(styled string, width int) string {
	current := ansi.StringWidth(styled)
	switch {
	case current > width:
		return ansi.Truncate(styled, width, "")
	case current < width:
		return styled + strings.Repeat(" ", width-current)
	default:
		return styled
	}
}
