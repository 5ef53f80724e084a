// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/bureau-foundation/tasktracker/cmd/tasktracker/cli"
	"github.com/bureau-foundation/tasktracker/lib/config"
	"github.com/bureau-foundation/tasktracker/lib/localstore"
	"github.com/bureau-foundation/tasktracker/lib/task"
	"github.com/bureau-foundation/tasktracker/lib/taskui"
)

// storeParams is embedded by every command that opens the task list.
type storeParams struct {
	ConfigPath string `flag:"config" desc:"config file (default: $TASKTRACKER_CONFIG, else built-in defaults)"`
}

// loadConfig resolves and validates the configuration and applies its
// log level to the command logger.
func (params storeParams) loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(params.ConfigPath)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration: %w", err)
	}
	level, _ := cfg.SlogLevel()
	cli.LogLevel.Set(level)
	return cfg, nil
}

// session is an opened task list and the storage behind it.
type session struct {
	config  *config.Config
	backend *localstore.Store
	store   *task.Store
	logger  *slog.Logger
	logFile *os.File
}

// open loads configuration and opens the store, logging to logger and,
// when logging.file is set, to that file as well.
func (params storeParams) open(ctx context.Context, logger *slog.Logger) (*session, error) {
	return params.openWith(ctx, logger, openOptions{})
}

// openForRestore is open for a command that is about to replace the
// whole list: stored data that no longer decodes is set aside in
// memory instead of failing, so a backup can be restored over it.
func (params storeParams) openForRestore(ctx context.Context, logger *slog.Logger) (*session, error) {
	return params.openWith(ctx, logger, openOptions{discardMalformed: true})
}

type openOptions struct {
	discardMalformed bool
}

func (params storeParams) openWith(ctx context.Context, logger *slog.Logger, options openOptions) (*session, error) {
	cfg, err := params.loadConfig()
	if err != nil {
		return nil, err
	}
	logFile, err := openLogFile(cfg)
	if err != nil {
		return nil, err
	}
	if logFile != nil {
		logger = slog.New(taskui.Fanout(logger.Handler(), fileHandler(cfg, logFile)))
	}
	current, err := openSession(ctx, cfg, logger, options)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, err
	}
	current.logFile = logFile
	return current, nil
}

func openSession(ctx context.Context, cfg *config.Config, logger *slog.Logger, options openOptions) (*session, error) {
	if err := cfg.EnsurePaths(); err != nil {
		return nil, cli.Internal("%w", err)
	}
	backend, err := localstore.Open(localstore.Options{
		Directory: cfg.Storage.Directory,
		Logger:    logger,
	})
	if err != nil {
		return nil, cli.Internal("%w", err)
	}
	format, err := task.ParseFormat(cfg.Storage.Format)
	if err != nil {
		return nil, cli.Validation("storage.format: %w", err)
	}
	store, err := task.Open(ctx, task.Options{
		Backend:     backend,
		Key:         cfg.Storage.Key,
		Format:      format,
		Logger:      logger,
		SkipSamples: !cfg.Storage.SeedSamples,

		DiscardMalformed: options.discardMalformed,
	})
	if err != nil {
		if errors.Is(err, task.ErrMalformed) {
			path, _ := backend.Path(cfg.Storage.Key)
			return nil, cli.Internal("%w", err).
				WithHint(fmt.Sprintf("Fix or move aside %s, or restore it with 'tasktracker import'.", path))
		}
		return nil, cli.Internal("%w", err)
	}
	return &session{config: cfg, backend: backend, store: store, logger: logger}, nil
}

// Close releases the log file, if any.
func (current *session) Close() {
	if current.logFile != nil {
		current.logFile.Close()
	}
}

// openLogFile opens logging.file for appending, or returns nil when it
// is not configured.
func openLogFile(cfg *config.Config) (*os.File, error) {
	if cfg.Logging.File == "" {
		return nil, nil
	}
	if err := cfg.EnsurePaths(); err != nil {
		return nil, cli.Internal("%w", err)
	}
	file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, cli.Internal("opening log file: %w", err)
	}
	return file, nil
}

func fileHandler(cfg *config.Config, file *os.File) slog.Handler {
	level, _ := cfg.SlogLevel()
	return slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
}

// parseTaskID parses the single positional task id.
func parseTaskID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, cli.Validation("expected exactly one task id, got %d arguments", len(args))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, cli.Validation("invalid task id %q", args[0])
	}
	return id, nil
}

func taskNotFound(id int64) *cli.ToolError {
	return cli.NotFound("task %d not found", id).
		WithHint("Run 'tasktracker list' to see task ids.")
}
