// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source.
//
// The task store stamps ids and creation times from a Clock, and the
// storage watcher debounces bursts of filesystem events with one.
// Production code passes Real(); tests pass Fake() so that generated
// ids and dateAdded values are deterministic:
//
//	fakeClock := clock.Fake(time.Date(2024, 1, 28, 12, 34, 56, 789_000_000, time.UTC))
//	store, err := task.Open(ctx, task.Options{Clock: fakeClock, ...})
//	fakeClock.Advance(time.Millisecond)
//
// Goroutines that wait on a FakeClock (After, Sleep) register a pending
// waiter. Tests call WaitForWaiters before Advance so that the waiter
// exists when time moves.
package clock
