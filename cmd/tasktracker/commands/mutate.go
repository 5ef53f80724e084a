// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/tasktracker/cmd/tasktracker/cli"
	"github.com/bureau-foundation/tasktracker/lib/task"
)

// --- add ---

type addParams struct {
	storeParams
	cli.JSONOutput
	Title       string `flag:"title,t" desc:"task title (required)"`
	Description string `flag:"description,d" desc:"task description, markdown"`
	Due         string `flag:"due" desc:"due date, YYYY-MM-DD (required)"`
}

func addCommand(stdout io.Writer) *cli.Command {
	var params addParams

	return &cli.Command{
		Name:    "add",
		Summary: "Add a task",
		Description: `Create an incomplete task at the end of the list and print its id.
The title and due date are required.`,
		Usage: "tasktracker add --title TITLE --due YYYY-MM-DD [flags]",
		Examples: []cli.Example{
			{
				Description: "Add a task with a markdown description",
				Command:     "tasktracker add -t 'Quarterly taxes' --due 2024-04-15 -d 'Needs **receipts** from the shoebox'",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			dueDate, err := task.ParseDate(params.Due)
			if err != nil {
				return cli.Validation("--due: %w", err)
			}
			draft := task.Draft{Title: params.Title, Description: params.Description, DueDate: dueDate}
			if err := draft.Validate(); err != nil {
				return cli.Validation("%w", err).WithHint("Pass --title and --due.")
			}

			current, err := params.open(ctx, logger)
			if err != nil {
				return err
			}
			defer current.Close()

			created, err := current.store.Add(draft)
			switch {
			case errors.Is(err, task.ErrDuplicateID):
				return cli.Conflict("%w", err)
			case err != nil:
				return cli.Internal("adding task: %w", err)
			}

			if done, err := params.EmitJSON(stdout, created); done {
				return err
			}
			_, err = fmt.Fprintf(stdout, "%d\n", created.ID)
			return err
		},
	}
}

// --- toggle ---

type toggleParams struct {
	storeParams
	cli.JSONOutput
}

func toggleCommand(stdout io.Writer) *cli.Command {
	var params toggleParams

	return &cli.Command{
		Name:        "toggle",
		Summary:     "Flip a task between open and done",
		Description: `Mark an open task done, or a done task open again.`,
		Usage:       "tasktracker toggle <id> [flags]",
		Params:      func() any { return &params },
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

			updated, found, err := current.store.ToggleComplete(id)
			switch {
			case err != nil:
				return cli.Internal("toggling task %d: %w", id, err)
			case !found:
				return taskNotFound(id)
			}

			if done, err := params.EmitJSON(stdout, updated); done {
				return err
			}
			status := "open"
			if updated.IsComplete {
				status = "done"
			}
			_, err = fmt.Fprintf(stdout, "%d %s\n", updated.ID, status)
			return err
		},
	}
}

// --- delete ---

type deleteParams struct {
	storeParams
	cli.JSONOutput
}

func deleteCommand(stdout io.Writer) *cli.Command {
	var params deleteParams

	return &cli.Command{
		Name:        "delete",
		Summary:     "Delete a task",
		Description: `Remove a task from the list. There is no undo; export first if unsure.`,
		Usage:       "tasktracker delete <id> [flags]",
		Params:      func() any { return &params },
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

			removed, found, err := current.store.Delete(id)
			switch {
			case err != nil:
				return cli.Internal("deleting task %d: %w", id, err)
			case !found:
				return taskNotFound(id)
			}

			if done, err := params.EmitJSON(stdout, removed); done {
				return err
			}
			_, err = fmt.Fprintf(stdout, "%d deleted\n", removed.ID)
			return err
		},
	}
}
