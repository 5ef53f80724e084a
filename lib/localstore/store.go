// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package localstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bureau-foundation/tasktracker/lib/clock"
)

// ErrInvalidKey marks a key that cannot be used as a filename.
var ErrInvalidKey = errors.New("invalid storage key")

// keyPattern restricts keys to plain filenames. Dots are allowed
// inside a key but a key cannot start with one, which keeps "." and
// ".." and hidden files out.
var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-][A-Za-z0-9._-]*$`)

// temporarySuffix ends the name of a value still being written.
const temporarySuffix = ".tmp"

// Options configures [Open].
type Options struct {
	// Directory holds one file per key. Created with mode 0700 if it
	// does not exist. Required.
	Directory string

	// Clock drives the watcher's debounce. Defaults to the real clock.
	Clock clock.Clock

	// Logger receives watcher diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// Store is a directory of key files. It holds no open descriptors
// between calls and is safe for concurrent use; concurrent Sets to the
// same key are last-write-wins.
type Store struct {
	directory string
	clock     clock.Clock
	logger    *slog.Logger
}

// Open prepares the directory and returns a Store over it.
func Open(options Options) (*Store, error) {
	if options.Directory == "" {
		return nil, fmt.Errorf("localstore: directory is required")
	}
	directory, err := filepath.Abs(options.Directory)
	if err != nil {
		return nil, fmt.Errorf("resolving storage directory: %w", err)
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	if options.Clock == nil {
		options.Clock = clock.Real()
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Store{
		directory: directory,
		clock:     options.Clock,
		logger:    options.Logger,
	}, nil
}

// Path returns the file that holds key.
func (store *Store) Path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(store.directory, key), nil
}

// Get returns the value stored under key. found is false when the key
// has never been written.
func (store *Store) Get(key string) ([]byte, bool, error) {
	path, err := store.Path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

// Set atomically replaces the value stored under key. The file is
// created with mode 0600. Each call writes its own temporary file, so
// concurrent writers of one key, in this process or another, never
// disturb each other: the last rename wins.
func (store *Store) Set(key string, data []byte) error {
	path, err := store.Path(key)
	if err != nil {
		return err
	}

	// The leading dot keeps temporary names outside the key space.
	file, err := os.CreateTemp(store.directory, "."+key+".*"+temporarySuffix)
	if err != nil {
		return fmt.Errorf("creating temporary file for %s: %w", key, err)
	}
	temporaryPath := file.Name()

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary file for %s: %w", key, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary file for %s: %w", key, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file for %s: %w", key, err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming %s into place: %w", key, err)
	}

	// The rename is only durable once the directory entry is flushed.
	if directory, err := os.Open(store.directory); err == nil {
		directory.Sync()
		directory.Close()
	}
	return nil
}
