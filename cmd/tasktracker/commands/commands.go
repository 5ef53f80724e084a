// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/bureau-foundation/tasktracker/cmd/tasktracker/cli"
	"github.com/bureau-foundation/tasktracker/lib/version"
)

// Root builds the command tree. Commands read piped input from stdin
// and write results to stdout; diagnostics go to the stderr logger.
func Root(stdin io.Reader, stdout io.Writer) *cli.Command {
	ui := uiCommand()
	return &cli.Command{
		Name: "tasktracker",
		Description: `tasktracker: a personal task list.

Run without a command to open the dashboard. Tasks have a title, a
markdown description, a due date, and a completion flag, and are kept
in a single file under the storage directory.`,
		Usage:  "tasktracker [command] [flags]",
		Params: ui.Params,
		Run:    ui.Run,
		Subcommands: []*cli.Command{
			ui,
			listCommand(stdout),
			showCommand(stdout),
			addCommand(stdout),
			toggleCommand(stdout),
			deleteCommand(stdout),
			exportCommand(stdout),
			importCommand(stdin, stdout),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, _ []string, _ *slog.Logger) error {
					_, err := fmt.Fprintf(stdout, "tasktracker %s\n", version.Full())
					return err
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Open the dashboard",
				Command:     "tasktracker",
			},
			{
				Description: "Add a task from a script",
				Command:     "tasktracker add --title 'Renew passport' --due 2024-03-01",
			},
			{
				Description: "Show what is still open",
				Command:     "tasktracker list --complete incomplete",
			},
			{
				Description: "Back up the list, encrypted to a new key",
				Command:     "tasktracker export --output tasks.archive --generate-key tasks.key",
			},
		},
	}
}
