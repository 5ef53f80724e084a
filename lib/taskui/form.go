// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package taskui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/tui"
)

// formField identifies an input on the new-task form.
type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDueDate
	fieldCount
)

func (field formField) label() string {
	switch field {
	case fieldTitle:
		return "Title"
	case fieldDescription:
		return "Description"
	default:
		return "Due date"
	}
}

// formAction is what a key did to the form as a whole.
type formAction int

const (
	formEditing formAction = iota
	formSubmit
	formCancel
)

const (
	formTitleLimit       = 200
	formDescriptionLines = 6
	formMaxWidth         = 72
)

// TaskForm collects a title, a description and a due date. It does
// not create anything itself: on submit the model turns [TaskForm.Draft]
// into a task through the store, and reports failures back with
// [TaskForm.SetError].
type TaskForm struct {
	title       tui.TextInput
	description tui.TextInput
	dueDate     tui.TextInput
	focus       formField
	err         string
}

// NewTaskForm creates an empty form with the due date pre-filled.
func NewTaskForm(today task.Date) TaskForm {
	title := tui.NewTextInput("What needs doing?")
	title.CharLimit = formTitleLimit
	dueDate := tui.NewTextInput("YYYY-MM-DD")
	dueDate.CharLimit = len("2006-01-02")
	dueDate.SetValue(today.String())
	return TaskForm{
		title:       title,
		description: tui.NewTextArea("Details (markdown)"),
		dueDate:     dueDate,
	}
}

func (form *TaskForm) input(field formField) *tui.TextInput {
	switch field {
	case fieldTitle:
		return &form.title
	case fieldDescription:
		return &form.description
	default:
		return &form.dueDate
	}
}

// Update routes a key to the focused field. Tab and Shift+Tab move
// between fields; Ctrl+S submits and Esc cancels.
func (form *TaskForm) Update(message tea.KeyMsg, keys KeyMap) formAction {
	switch {
	case key.Matches(message, keys.Submit):
		return formSubmit
	case key.Matches(message, keys.Back):
		return formCancel
	case key.Matches(message, keys.NextField):
		form.focus = (form.focus + 1) % fieldCount
		return formEditing
	case key.Matches(message, keys.PrevField):
		form.focus = (form.focus + fieldCount - 1) % fieldCount
		return formEditing
	case message.Type == tea.KeyEnter && form.focus != fieldDescription:
		// Enter on a single-line field advances, and submits from
		// the last one.
		if form.focus == fieldDueDate {
			return formSubmit
		}
		form.focus++
		return formEditing
	}
	if form.input(form.focus).Update(message) {
		form.err = ""
	}
	return formEditing
}

// Draft returns the form content as a draft. A malformed due date is
// reported here; missing fields are left to [task.Draft.Validate].
func (form TaskForm) Draft() (task.Draft, error) {
	dueDate, err := task.ParseDate(form.dueDate.Value())
	if err != nil {
		return task.Draft{}, err
	}
	return task.Draft{
		Title:       form.title.Value(),
		Description: form.description.Value(),
		DueDate:     dueDate,
	}, nil
}

// SetError shows a message under the fields until the next edit.
func (form *TaskForm) SetError(message string) {
	form.err = message
}

// View renders the form into a width by height area.
func (form TaskForm) View(theme tui.Theme, width, height int) string {
	innerWidth := min(width-4, formMaxWidth)
	if innerWidth < 10 {
		innerWidth = max(width, 1)
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	focusedLabelStyle := lipgloss.NewStyle().Foreground(theme.AccentForeground).Bold(true)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.BorderColor).
		PaddingLeft(1)
	focusedBoxStyle := boxStyle.BorderForeground(theme.AccentForeground)

	var sections []string
	for field := fieldTitle; field < fieldCount; field++ {
		focused := form.focus == field
		label := labelStyle.Render(field.label())
		box := boxStyle
		if focused {
			label = focusedLabelStyle.Render(field.label())
			box = focusedBoxStyle
		}
		lines := 1
		if field == fieldDescription {
			lines = formDescriptionLines
		}
		input := form.input(field)
		rendered := input.Render(theme, innerWidth-2, lines, focused)
		sections = append(sections, label, box.Render(strings.Join(rendered, "\n")), "")
	}

	if form.err != "" {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.ErrorForeground).Render("✗ "+form.err))
	} else {
		sections = append(sections, "")
	}

	body := lipgloss.NewStyle().Width(innerWidth).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().PaddingTop(1).Render(body))
}
