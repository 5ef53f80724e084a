// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package localstore

import (
	"testing"
	"time"
)

func TestWatchReportsWrites(t *testing.T) {
	store := openTestStore(t)
	changes, stop, err := store.Watch("tasks")
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	// A second Store over the same directory stands in for another
	// process.
	other, err := Open(Options{Directory: store.directory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := other.Set("tasks", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	select {
	case _, ok := <-changes:
		if !ok {
			t.Fatal("changes channel closed before stop")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification after write")
	}
}

func TestWatchIgnoresOtherKeys(t *testing.T) {
	store := openTestStore(t)
	changes, stop, err := store.Watch("tasks")
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer stop()

	if err := store.Set("settings", []byte(`{}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	select {
	case <-changes:
		t.Fatal("notification for an unrelated key")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchStopClosesChannel(t *testing.T) {
	store := openTestStore(t)
	changes, stop, err := store.Watch("tasks")
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	stop()
	stop() // idempotent

	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("changes channel not closed after stop")
		}
	}
}

func TestWatchRejectsInvalidKey(t *testing.T) {
	store := openTestStore(t)
	if _, _, err := store.Watch("../tasks"); err == nil {
		t.Fatal("Watch with an invalid key should fail")
	}
}

func TestInotifyMatchesName(t *testing.T) {
	// wd=1 mask=0 cookie=0 len=8 name="tasks\0\0\0"
	event := []byte{
		1, 0, 0, 0,
		0, 0, 0, 0,
		0, 0, 0, 0,
		8, 0, 0, 0,
		't', 'a', 's', 'k', 's', 0, 0, 0,
	}
	if !inotifyMatchesName(event, "tasks") {
		t.Error("event naming tasks should match")
	}
	if inotifyMatchesName(event, "tasks.tmp") {
		t.Error("event naming tasks should not match tasks.tmp")
	}
	if inotifyMatchesName(event[:10], "tasks") {
		t.Error("truncated buffer should not match")
	}
}
