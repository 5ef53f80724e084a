// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package task holds the task tracker's data model, the Store that owns
// the ordered task list, and the Filter that derives the visible view.
//
// A [Task] is a to-do item with a title, a description, a calendar due
// date ([Date]), an immutable creation timestamp, and a completion flag.
// Tasks keep insertion order for their whole life: the Store appends on
// create and never re-sorts, and [Filter.Apply] returns an
// order-preserving subsequence.
//
// The [Store] persists the entire list under a single key of a
// [Backend] after every mutation, synchronously, overwriting whatever
// was there. On open it rehydrates from the same key, seeding three
// sample tasks when the key is absent. Stored data that does not decode
// is an error ([ErrMalformed]), never silently replaced.
//
// Dates are written as ISO-8601 calendar dates ("2024-02-12") both at
// rest and in filter comparisons. Decoding also accepts full RFC 3339
// timestamps, taking the UTC calendar date, so lists written by the
// browser version of the tracker load unchanged.
package task
