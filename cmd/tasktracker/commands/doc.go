// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the tasktracker command tree. With no
// subcommand the binary opens the dashboard; the other subcommands
// read and change the same stored list from scripts.
package commands
