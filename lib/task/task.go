// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors. Callers match them with errors.Is; the wrapped
// message carries the detail.
var (
	// ErrInvalid marks a draft that fails required-field checks.
	ErrInvalid = errors.New("invalid task")

	// ErrDuplicateID marks a create whose id is already in the store.
	ErrDuplicateID = errors.New("duplicate task id")

	// ErrMalformed marks stored data that cannot be decoded.
	ErrMalformed = errors.New("malformed task data")
)

// Task is a single to-do item. The json tags are the storage record
// shape and match the keys the browser tracker wrote to local storage.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     Date      `json:"dueDate"`
	DateAdded   time.Time `json:"dateAdded"`
	IsComplete  bool      `json:"isComplete"`
}

// Draft is the user-supplied part of a new task: everything the form
// collects. The id and dateAdded are assigned by [NewTask].
type Draft struct {
	Title       string
	Description string
	DueDate     Date
}

// Validate checks required-field presence: a non-blank title and a
// due date.
func (draft Draft) Validate() error {
	var problems []string
	if strings.TrimSpace(draft.Title) == "" {
		problems = append(problems, "title is required")
	}
	if draft.DueDate.IsZero() {
		problems = append(problems, "due date is required")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, ", "))
	}
	return nil
}

// NewTask validates draft and builds an incomplete Task with the given
// id. dateAdded is truncated to milliseconds, the precision the stored
// record keeps.
func NewTask(draft Draft, id int64, added time.Time) (Task, error) {
	if err := draft.Validate(); err != nil {
		return Task{}, err
	}
	return Task{
		ID:          id,
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		DueDate:     draft.DueDate,
		DateAdded:   added.UTC().Truncate(time.Millisecond),
		IsComplete:  false,
	}, nil
}

// sampleDateAdded is the creation stamp shared by the sample tasks.
var sampleDateAdded = time.Date(2024, 1, 28, 12, 34, 56, 789_000_000, time.UTC)

// SampleTasks returns the tasks seeded into an empty store. A fresh
// slice is returned on every call.
func SampleTasks() []Task {
	return []Task{
		{
			ID:          1,
			Title:       "Complete feature integration for task management",
			Description: "Integrate new features into the task management system for enhanced functionality.",
			DueDate:     MustParseDate("2024-02-12"),
			DateAdded:   sampleDateAdded,
			IsComplete:  false,
		},
		{
			ID:          2,
			Title:       "Prepare agenda for team meeting",
			Description: "Create an agenda outlining key topics and updates for the upcoming team meeting.",
			DueDate:     MustParseDate("2024-02-15"),
			DateAdded:   sampleDateAdded,
			IsComplete:  true,
		},
		{
			ID:    3,
			Title: "Add new tasks to appear below these sample tasks",
			Description: "You can mark the task as completed by clicking on the clock icon and " +
				"similarly unmarked by clicking on the check icon. Delete the task by clicking on the trash icon.",
			DueDate:    MustParseDate("2024-02-18"),
			DateAdded:  sampleDateAdded,
			IsComplete: false,
		},
	}
}
