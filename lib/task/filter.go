// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"fmt"
	"strings"
)

// Completion selects tasks by completion state.
type Completion int

const (
	// ShowAll matches every task regardless of completion.
	ShowAll Completion = iota
	// ShowComplete matches tasks with IsComplete set.
	ShowComplete
	// ShowIncomplete matches tasks with IsComplete clear.
	ShowIncomplete
)

// String returns the canonical name used by the CLI and config.
func (completion Completion) String() string {
	switch completion {
	case ShowComplete:
		return "complete"
	case ShowIncomplete:
		return "incomplete"
	default:
		return "all"
	}
}

// Label returns the display label used in the dashboard dropdown.
func (completion Completion) Label() string {
	switch completion {
	case ShowComplete:
		return "Complete"
	case ShowIncomplete:
		return "Incomplete"
	default:
		return "All"
	}
}

// ParseCompletion parses a completion filter name. The browser
// tracker's select values ("all", "true", "false") are accepted
// alongside the canonical names.
func ParseCompletion(value string) (Completion, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all":
		return ShowAll, nil
	case "complete", "completed", "true":
		return ShowComplete, nil
	case "incomplete", "pending", "false":
		return ShowIncomplete, nil
	default:
		return ShowAll, fmt.Errorf("unknown completion filter %q (want all, complete, or incomplete)", value)
	}
}

// Completions lists the completion filters in dropdown order.
var Completions = []Completion{ShowAll, ShowComplete, ShowIncomplete}

// Filter is the pair of predicates that narrows the visible list. The
// zero Filter matches everything.
type Filter struct {
	Completion Completion

	// DueDate, when set, requires an exact calendar-date match.
	DueDate Date
}

// IsZero reports whether the filter matches every task.
func (filter Filter) IsZero() bool {
	return filter.Completion == ShowAll && filter.DueDate.IsZero()
}

// Matches reports whether a task satisfies both predicates.
func (filter Filter) Matches(task Task) bool {
	switch filter.Completion {
	case ShowComplete:
		if !task.IsComplete {
			return false
		}
	case ShowIncomplete:
		if task.IsComplete {
			return false
		}
	}
	if !filter.DueDate.IsZero() && task.DueDate != filter.DueDate {
		return false
	}
	return true
}

// Apply returns the matching tasks in their original order. The input
// slice is not modified. The result is never nil.
func (filter Filter) Apply(tasks []Task) []Task {
	result := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if filter.Matches(task) {
			result = append(result, task)
		}
	}
	return result
}

// Partition splits the tasks that pass the date predicate into
// complete and incomplete subsequences, each in original order. The
// filter's own Completion is ignored.
func (filter Filter) Partition(tasks []Task) (complete, incomplete []Task) {
	dateOnly := Filter{DueDate: filter.DueDate}
	for _, task := range tasks {
		if !dateOnly.Matches(task) {
			continue
		}
		if task.IsComplete {
			complete = append(complete, task)
		} else {
			incomplete = append(incomplete, task)
		}
	}
	return complete, incomplete
}

// String describes the filter for log attributes and status lines.
func (filter Filter) String() string {
	if filter.DueDate.IsZero() {
		return "show=" + filter.Completion.String()
	}
	return "show=" + filter.Completion.String() + " due=" + filter.DueDate.String()
}
