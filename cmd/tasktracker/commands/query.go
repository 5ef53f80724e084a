// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/bureau-foundation/tasktracker/cmd/tasktracker/cli"
	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/tui"
)

// --- list ---

type listParams struct {
	storeParams
	cli.JSONOutput
	Completion string `flag:"complete" desc:"completion filter: all, complete, or incomplete" default:"all"`
	Due        string `flag:"due" desc:"only tasks due on this date (YYYY-MM-DD)"`
	ExitStatus bool   `flag:"exit-status" desc:"exit with status 1 when no task matches"`
}

func listCommand(stdout io.Writer) *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List tasks, optionally filtered",
		Description: `Print the task list in stored order. --complete and --due narrow it
the same way the dashboard's filter bar does; both must match.`,
		Usage: "tasktracker list [flags]",
		Examples: []cli.Example{
			{
				Description: "Open tasks",
				Command:     "tasktracker list --complete incomplete",
			},
			{
				Description: "Fail a script when anything is due today",
				Command:     "! tasktracker list --complete incomplete --due $(date +%F) --exit-status",
			},
			{
				Description: "Everything due on a day, as JSON",
				Command:     "tasktracker list --due 2024-02-15 --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			completion, err := task.ParseCompletion(params.Completion)
			if err != nil {
				return cli.Validation("--complete: %w", err)
			}
			dueDate, err := task.ParseDate(params.Due)
			if err != nil {
				return cli.Validation("--due: %w", err)
			}

			current, err := params.open(ctx, logger)
			if err != nil {
				return err
			}
			defer current.Close()

			filter := task.Filter{Completion: completion, DueDate: dueDate}
			tasks := filter.Apply(current.store.Tasks())

			if done, err := params.EmitJSON(stdout, tasks); done {
				if err == nil && len(tasks) == 0 && params.ExitStatus {
					return &cli.ExitError{Code: 1}
				}
				return err
			}
			if len(tasks) == 0 {
				logger.Info("no tasks match", "filter", filter.String(), "total", current.store.Len())
				if params.ExitStatus {
					return &cli.ExitError{Code: 1}
				}
				return nil
			}
			return writeTaskTable(stdout, tasks, current.store.Today())
		},
	}
}

// writeTaskTable prints one aligned row per task.
func writeTaskTable(w io.Writer, tasks []task.Task, today task.Date) error {
	tw := tabwriter.NewWriter(w, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tSTATUS\tDUE\tTITLE\n")
	for _, item := range tasks {
		status := "open"
		if item.IsComplete {
			status = "done"
		} else if !item.DueDate.IsZero() && item.DueDate.Before(today) {
			status = "overdue"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", item.ID, status, item.DueDate, item.Title)
	}
	return tw.Flush()
}

// --- show ---

type showParams struct {
	storeParams
	cli.JSONOutput
}

func showCommand(stdout io.Writer) *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show one task in full",
		Description: `Print a task's fields and description. On a terminal the markdown
description is rendered; otherwise it is printed as written.`,
		Usage:  "tasktracker show <id> [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			id, err := parseTaskID(args)
			if err != nil {
				return err
			}
			current, err := params.open(ctx, logger)
			if err != nil {
				return err
			}
			defer current.Close()

			item, found := current.store.Get(id)
			if !found {
				return taskNotFound(id)
			}
			if done, err := params.EmitJSON(stdout, item); done {
				return err
			}
			return writeTaskDetail(stdout, item)
		},
	}
}

func writeTaskDetail(w io.Writer, item task.Task) error {
	status := "open"
	if item.IsComplete {
		status = "done"
	}
	var out strings.Builder
	fmt.Fprintf(&out, "#%d  %s\n", item.ID, item.Title)
	fmt.Fprintf(&out, "Status:  %s\n", status)
	fmt.Fprintf(&out, "Due:     %s\n", item.DueDate)
	fmt.Fprintf(&out, "Added:   %s\n", item.DateAdded.UTC().Format("2006-01-02 15:04:05Z"))
	if item.Description != "" {
		out.WriteString("\n")
		if width, ok := terminalWidth(w); ok {
			out.WriteString(tui.RenderMarkdown(item.Description, tui.DefaultTheme, min(width, 100)))
		} else {
			out.WriteString(item.Description)
		}
		out.WriteString("\n")
	}
	_, err := io.WriteString(w, out.String())
	return err
}

// terminalWidth returns the column count of w when it is a terminal.
func terminalWidth(w io.Writer) (int, bool) {
	file, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return 0, false
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return 80, true
	}
	return width, true
}
