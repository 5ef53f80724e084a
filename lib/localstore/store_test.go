// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package localstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Options{Directory: filepath.Join(t.TempDir(), "data")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store
}

func TestOpenCreatesDirectory(t *testing.T) {
	directory := filepath.Join(t.TempDir(), "nested", "data")
	store, err := Open(Options{Directory: directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	info, err := os.Stat(store.directory)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if !info.IsDir() {
		t.Fatal("storage path is not a directory")
	}
	if info.Mode().Perm() != 0o700 {
		t.Errorf("directory mode = %o, want 700", info.Mode().Perm())
	}
}

func TestOpenRequiresDirectory(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatal("Open with no directory should fail")
	}
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	data, found, err := store.Get("tasks")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found || data != nil {
		t.Errorf("Get on empty store = (%q, %v), want (nil, false)", data, found)
	}
}

func TestSetGetOverwrite(t *testing.T) {
	store := openTestStore(t)

	if err := store.Set("tasks", []byte(`[1]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set("tasks", []byte(`[1,2]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	data, found, err := store.Get("tasks")
	if err != nil || !found {
		t.Fatalf("Get = found %v, err %v", found, err)
	}
	if string(data) != `[1,2]` {
		t.Errorf("Get = %q, want last write", data)
	}

	path, _ := store.Path("tasks")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("file mode = %o, want 600", info.Mode().Perm())
	}
	matches, _ := filepath.Glob(filepath.Join(store.directory, "*"+temporarySuffix))
	hidden, _ := filepath.Glob(filepath.Join(store.directory, ".*"+temporarySuffix))
	if leftover := append(matches, hidden...); len(leftover) > 0 {
		t.Errorf("temporary files left behind: %v", leftover)
	}
}

func TestConcurrentSetsToOneKey(t *testing.T) {
	first := openTestStore(t)
	// A second Store over the same directory stands in for another
	// process writing while the dashboard is open.
	second, err := Open(Options{Directory: first.directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	const rounds = 100
	errs := make(chan error, 2*rounds)
	var group sync.WaitGroup
	for _, store := range []*Store{first, second} {
		group.Add(1)
		go func() {
			defer group.Done()
			for round := range rounds {
				errs <- store.Set("tasks", []byte(fmt.Sprintf("[%d]", round)))
			}
		}()
	}
	group.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	entries, err := os.ReadDir(first.directory)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "tasks" {
		var names []string
		for _, entry := range entries {
			names = append(names, entry.Name())
		}
		t.Errorf("directory holds %v, want only tasks", names)
	}
}

func TestInvalidKeys(t *testing.T) {
	store := openTestStore(t)
	for _, key := range []string{"", ".", "..", "../escape", "a/b", ".hidden", "spaced key"} {
		if _, _, err := store.Get(key); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Get(%q) error = %v, want ErrInvalidKey", key, err)
		}
		if err := store.Set(key, nil); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Set(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
	for _, key := range []string{"tasks", "tasks.cbor", "backup-2024_01"} {
		if _, err := store.Path(key); err != nil {
			t.Errorf("Path(%q): %v", key, err)
		}
	}
}
