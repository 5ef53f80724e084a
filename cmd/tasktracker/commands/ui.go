// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	"github.com/bureau-foundation/tasktracker/cmd/tasktracker/cli"
	"github.com/bureau-foundation/tasktracker/lib/taskui"
)

type uiParams struct {
	storeParams
}

func uiCommand() *cli.Command {
	var params uiParams

	return &cli.Command{
		Name:    "ui",
		Summary: "Open the dashboard (the default)",
		Description: `Open the interactive dashboard on the alternate screen.

The dashboard lists tasks with a filter bar for completion, due date,
and a fuzzy title search, a preview of the selected task, a form for
new tasks, and a full-screen card view. When storage.watch is set,
changes written by other tasktracker processes appear live.`,
		Usage:  "tasktracker ui [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			return runUI(ctx, params, logger)
		},
	}
}

// runUI opens the store with a logger that reports into the status bar
// (warnings and above) and, when configured, the log file. Writing to
// stderr would corrupt the alt screen.
func runUI(ctx context.Context, params uiParams, logger *slog.Logger) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}
	level, _ := cfg.SlogLevel()

	statusBar := taskui.NewTUILogHandler(max(level, slog.LevelWarn))
	handler := slog.Handler(statusBar)
	logFile, err := openLogFile(cfg)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
		handler = taskui.Fanout(statusBar, fileHandler(cfg, logFile))
	}
	uiLogger := slog.New(handler)

	current, err := openSession(ctx, cfg, uiLogger, openOptions{})
	if err != nil {
		return err
	}

	var changes <-chan struct{}
	if cfg.Storage.Watch {
		watch, stop, err := current.backend.Watch(cfg.Storage.Key)
		if err != nil {
			logger.Warn("storage watch unavailable, external changes will not appear", "error", err)
		} else {
			defer stop()
			changes = watch
		}
	}

	return taskui.Run(ctx, current.store, taskui.Options{
		SplitRatio:       cfg.UI.SplitRatio,
		ShowDescriptions: cfg.UI.ShowDescriptions,
		Changes:          changes,
		LogHandler:       statusBar,
	})
}
