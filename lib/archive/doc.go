// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive exports and imports task lists as portable files.
//
// An archive is a single JSON header line followed by a binary
// payload:
//
//	{"format":"tasktracker-archive","version":1,"compression":"zstd","encrypted":true,"blake3":"…","size":812}
//	<payload>
//
// The payload is the task list as a JSON array, compressed (zstd, lz4
// block, or none), then optionally age-encrypted to one or more X25519
// recipients. The header records the blake3 hash and length of the
// uncompressed JSON so that Import can verify the list it reconstructs
// before anything replaces the store's contents.
//
// Import also accepts a bare JSON array of tasks, with or without
// comments and trailing commas (JSONC), so hand-written lists and
// copies of the storage file load directly.
package archive
