// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"filippo.io/age"

	"github.com/bureau-foundation/tasktracker/cmd/tasktracker/cli"
	"github.com/bureau-foundation/tasktracker/lib/archive"
	"github.com/bureau-foundation/tasktracker/lib/task"
)

// --- export ---

type exportParams struct {
	storeParams
	cli.JSONOutput
	Output      string   `flag:"output,o" desc:"archive file to write, or - for stdout (required)"`
	Compression string   `flag:"compression" desc:"zstd, lz4, or none (default: export.compression)"`
	Recipients  []string `flag:"recipient,r" desc:"age public key to encrypt to; repeatable (default: export.recipients)"`
	GenerateKey string   `flag:"generate-key" desc:"create a new age identity file at this path and encrypt to it"`
}

// exportResult is the --json output of export.
type exportResult struct {
	Path         string         `json:"path"`
	Header       archive.Header `json:"header"`
	IdentityFile string         `json:"identity_file,omitempty"`
}

func exportCommand(stdout io.Writer) *cli.Command {
	var params exportParams

	return &cli.Command{
		Name:    "export",
		Summary: "Write the task list to an archive",
		Description: `Write every task to a single-file archive: a JSON header line followed
by the compressed list, optionally encrypted with age so that only the
holders of the matching identities can read it. The header carries a
blake3 checksum that import verifies.`,
		Usage: "tasktracker export --output FILE [flags]",
		Examples: []cli.Example{
			{
				Description: "Plain zstd backup",
				Command:     "tasktracker export -o tasks.archive",
			},
			{
				Description: "Encrypted to an existing key",
				Command:     "tasktracker export -o tasks.archive -r age1ql3z7hjy54pw3hyww5ayyfg7zqgvc7w3j2elw8zmrj2kg5sfn9aqmcac8p",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Output == "" {
				return cli.Validation("--output is required")
			}
			if params.Output == "-" && params.OutputJSON {
				return cli.Validation("--json cannot be combined with --output -")
			}

			current, err := params.open(ctx, logger)
			if err != nil {
				return err
			}
			defer current.Close()

			compression := params.Compression
			if compression == "" {
				compression = current.config.Export.Compression
			}
			parsed, err := archive.ParseCompression(compression)
			if err != nil {
				return cli.Validation("--compression: %w", err)
			}
			recipients := params.Recipients
			if len(recipients) == 0 {
				recipients = current.config.Export.Recipients
			}
			if _, err := archive.ParseRecipients(recipients); err != nil {
				return cli.Validation("%w", err)
			}

			if params.GenerateKey != "" {
				keypair, err := writeIdentityFile(params.GenerateKey)
				if err != nil {
					return err
				}
				recipients = append(recipients, keypair.Recipient)
				logger.Info("generated age identity", "path", params.GenerateKey, "recipient", keypair.Recipient)
			}

			options := archive.ExportOptions{Compression: parsed, Recipients: recipients}
			tasks := current.store.Tasks()
			var header archive.Header
			if params.Output == "-" {
				header, err = archive.Export(stdout, tasks, options)
			} else {
				header, err = exportToFile(params.Output, tasks, options)
			}
			if err != nil {
				return cli.Internal("exporting tasks: %w", err)
			}

			result := exportResult{Path: params.Output, Header: header, IdentityFile: params.GenerateKey}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			logger.Info("exported tasks",
				"path", params.Output,
				"count", header.Count,
				"compression", header.Compression,
				"encrypted", header.Encrypted,
			)
			return nil
		},
	}
}

// writeIdentityFile generates a keypair and writes its identity to a
// new 0600 file. An existing file is never overwritten: it may be the
// only key to older archives.
func writeIdentityFile(path string) (archive.Keypair, error) {
	keypair, err := archive.GenerateKeypair()
	if err != nil {
		return archive.Keypair{}, cli.Internal("%w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return archive.Keypair{}, cli.Conflict("identity file %s already exists", path).
			WithHint("Choose another path, or pass its public key with --recipient.")
	}
	if err != nil {
		return archive.Keypair{}, cli.Internal("creating identity file: %w", err)
	}
	if _, err := file.WriteString(keypair.IdentityFile()); err != nil {
		file.Close()
		return archive.Keypair{}, cli.Internal("writing identity file: %w", err)
	}
	if err := file.Close(); err != nil {
		return archive.Keypair{}, cli.Internal("writing identity file: %w", err)
	}
	return keypair, nil
}

// exportToFile writes the archive next to path and renames it into
// place, so a failed export never leaves a truncated archive behind.
func exportToFile(path string, tasks []task.Task, options archive.ExportOptions) (archive.Header, error) {
	temporary, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return archive.Header{}, err
	}
	defer os.Remove(temporary.Name())

	header, err := archive.Export(temporary, tasks, options)
	if err != nil {
		temporary.Close()
		return archive.Header{}, err
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return archive.Header{}, err
	}
	if err := temporary.Close(); err != nil {
		return archive.Header{}, err
	}
	return header, os.Rename(temporary.Name(), path)
}

// --- import ---

type importParams struct {
	storeParams
	cli.JSONOutput
	Input        string `flag:"input,i" desc:"archive or JSON task array to read, or - for stdin (required)"`
	IdentityFile string `flag:"identity-file" desc:"age identity file for an encrypted archive"`
}

// importResult is the --json output of import.
type importResult struct {
	Count  int             `json:"count"`
	Header *archive.Header `json:"header,omitempty"`
}

func importCommand(stdin io.Reader, stdout io.Writer) *cli.Command {
	var params importParams

	return &cli.Command{
		Name:    "import",
		Summary: "Replace the task list from an archive or JSON file",
		Description: `Replace the whole task list with the contents of an export archive or
a JSON array of tasks (comments allowed, as in JSONC). The archive's
checksum is verified before anything is written.`,
		Usage: "tasktracker import --input FILE [flags]",
		Examples: []cli.Example{
			{
				Description: "Restore an encrypted backup",
				Command:     "tasktracker import -i tasks.archive --identity-file tasks.key",
			},
			{
				Description: "Load tasks exported from the browser tracker",
				Command:     "tasktracker import -i localStorage-tasks.json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			if params.Input == "" {
				return cli.Validation("--input is required")
			}

			var identities []age.Identity
			if params.IdentityFile != "" {
				file, err := os.Open(params.IdentityFile)
				if err != nil {
					return cli.Validation("opening identity file: %w", err)
				}
				identities, err = archive.ParseIdentities(file)
				file.Close()
				if err != nil {
					return cli.Validation("%w", err)
				}
			}

			reader := stdin
			if params.Input != "-" {
				file, err := os.Open(params.Input)
				if err != nil {
					return cli.Validation("opening input: %w", err)
				}
				defer file.Close()
				reader = file
			}

			tasks, header, err := archive.Import(reader, archive.ImportOptions{Identities: identities})
			if err != nil {
				toolErr := cli.Validation("importing %s: %w", params.Input, err)
				if errors.Is(err, archive.ErrNotEncrypted) {
					toolErr.WithHint("Pass --identity-file with a key the archive was encrypted to.")
				}
				return toolErr
			}

			current, err := params.openForRestore(ctx, logger)
			if err != nil {
				return err
			}
			defer current.Close()

			previous := current.store.Len()
			if err := current.store.Replace(tasks); err != nil {
				if errors.Is(err, task.ErrDuplicateID) {
					return cli.Conflict("importing %s: %w", params.Input, err)
				}
				return cli.Internal("importing %s: %w", params.Input, err)
			}

			result := importResult{Count: len(tasks)}
			if header.Format != "" {
				result.Header = &header
			}
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			logger.Info("imported tasks", "path", params.Input, "count", len(tasks), "replaced", previous)
			return nil
		},
	}
}
