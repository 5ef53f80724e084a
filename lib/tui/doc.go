// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface components for
// the task tracker's dashboard. Built on bubbletea (Elm architecture),
// these components handle common patterns like dropdown overlays,
// single- and multi-line text input, change animation, fuzzy
// matching, markdown rendering, and ANSI-aware text manipulation.
//
// The dashboard in lib/taskui owns the data source, layout, and the
// task-specific rendering; this package holds the pieces that know
// nothing about tasks.
package tui
