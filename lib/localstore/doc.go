// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package localstore is a directory-backed key/value store: the
// terminal equivalent of a browser's local storage. Each key is one
// file in the directory, and each value is written whole.
//
// Writes are atomic. The value goes to a temporary file in the same
// directory, which is fsynced and renamed over the key's file, and then
// the directory itself is fsynced. A reader (another tasktracker
// process, or the same one reloading) never sees a partial value.
//
// On Linux, [Store.Watch] reports changes made to a key by other
// processes using inotify on the directory, so an open UI picks up
// edits made through the CLI.
package localstore
