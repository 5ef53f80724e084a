// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/tui"
)

// renderTaskDetail renders a task's title, status line and markdown
// description at the given width. Shared by the dashboard preview and
// the card route.
func renderTaskDetail(theme tui.Theme, item task.Task, today task.Date, width int) string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Width(width)
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)

	status := lipgloss.NewStyle().Foreground(theme.IncompleteForeground).Render(iconIncomplete + " Incomplete")
	if item.IsComplete {
		status = lipgloss.NewStyle().Foreground(theme.CompleteForeground).Render(iconComplete + " Complete")
	}
	due := lipgloss.NewStyle().
		Foreground(theme.DueColor(daysUntil(item.DueDate, today), item.IsComplete)).
		Render(dueDescription(item.DueDate, today))

	meta := status + faint.Render("  ·  ") + due
	added := faint.Render(fmt.Sprintf("#%d  added %s", item.ID, item.DateAdded.UTC().Format("2006-01-02 15:04")))

	sections := []string{titleStyle.Render(item.Title), meta, added}
	if description := tui.RenderMarkdown(item.Description, theme, width); description != "" {
		sections = append(sections, "", description)
	} else {
		sections = append(sections, "", faint.Render("No description."))
	}
	return strings.Join(sections, "\n")
}

// dueDescription phrases a due date relative to today.
func dueDescription(due, today task.Date) string {
	if due.IsZero() {
		return "no due date"
	}
	days := daysUntil(due, today)
	switch {
	case days == 0:
		return "due today (" + due.String() + ")"
	case days == 1:
		return "due tomorrow (" + due.String() + ")"
	case days < 0:
		return fmt.Sprintf("overdue by %dd (%s)", -days, due)
	default:
		return fmt.Sprintf("due in %dd (%s)", days, due)
	}
}

// CardView is the card route: one task in a scrollable viewport with
// a scrollbar column on the right.
type CardView struct {
	viewport viewport.Model
	theme    tui.Theme
	width    int
	height   int

	// Retained so SetSize can re-render at a new width.
	item    task.Task
	today   task.Date
	hasTask bool
}

// NewCardView creates an empty card view.
func NewCardView(theme tui.Theme) CardView {
	return CardView{theme: theme}
}

// contentWidth excludes the left padding and scrollbar columns.
func (card CardView) contentWidth() int {
	return max(card.width-3, 10)
}

// SetSize updates the dimensions, re-rendering when the width changed.
func (card *CardView) SetSize(width, height int) {
	previousWidth := card.width
	card.width = width
	card.height = height
	card.viewport.Width = card.contentWidth()
	card.viewport.Height = max(height, 1)
	if card.hasTask && width != previousWidth {
		card.render()
	}
}

// SetTask shows a task. Showing a different task scrolls to the top;
// re-showing the same one (after an edit) keeps the scroll position.
func (card *CardView) SetTask(item task.Task, today task.Date) {
	sameTask := card.hasTask && card.item.ID == item.ID
	card.item = item
	card.today = today
	card.hasTask = true
	previousOffset := card.viewport.YOffset
	card.render()
	if sameTask {
		card.viewport.SetYOffset(previousOffset)
	} else {
		card.viewport.GotoTop()
	}
}

// TaskID returns the id of the shown task.
func (card CardView) TaskID() (int64, bool) {
	return card.item.ID, card.hasTask
}

// Clear empties the view.
func (card *CardView) Clear() {
	card.hasTask = false
	card.item = task.Task{}
	card.viewport.SetContent("")
}

func (card *CardView) render() {
	card.viewport.SetContent(renderTaskDetail(card.theme, card.item, card.today, card.contentWidth()))
}

// LineUp scrolls up by count lines.
func (card *CardView) LineUp(count int) { card.viewport.LineUp(count) }

// LineDown scrolls down by count lines.
func (card *CardView) LineDown(count int) { card.viewport.LineDown(count) }

// PageUp scrolls up by half a page.
func (card *CardView) PageUp() { card.viewport.HalfViewUp() }

// PageDown scrolls down by half a page.
func (card *CardView) PageDown() { card.viewport.HalfViewDown() }

// Top scrolls to the first line.
func (card *CardView) Top() { card.viewport.GotoTop() }

// Bottom scrolls to the last page.
func (card *CardView) Bottom() { card.viewport.GotoBottom() }

// View renders the card with its scrollbar.
func (card CardView) View() string {
	paddingStyle := lipgloss.NewStyle().
		PaddingLeft(1).
		Width(card.width - 1).
		Height(card.viewport.Height)
	scrollbar := tui.RenderScrollbar(card.theme, card.viewport.Height,
		card.viewport.TotalLineCount(), card.viewport.Height, card.viewport.YOffset, true)
	return lipgloss.JoinHorizontal(lipgloss.Top, paddingStyle.Render(card.viewport.View()), scrollbar)
}
