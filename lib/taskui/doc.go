// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package taskui is the interactive terminal UI for the task tracker.
//
// The UI has three routes. The dashboard shows the header, the filter
// bar (completion dropdown, due-date input, fuzzy title search), the
// task list, and a preview of the selected task. The new-task route
// is a form whose submission goes through [task.Store.Add]. The card
// route shows one task with its description rendered as markdown in a
// scrollable viewport.
//
// Every change reaches the screen through the store's event channel,
// whether it came from this UI, from a CLI command in another process
// (picked up by the storage watcher and [task.Store.Reload]), or from
// an import. Changed rows glow briefly and fade.
//
// Rows are drawn by a stateless item renderer. Row actions (toggle,
// delete) are emitted as messages carrying the task id and applied by
// the top-level [Model].
package taskui
