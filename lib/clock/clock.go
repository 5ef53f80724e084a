// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock is the time source shared by the task store (ids, dateAdded,
// "today" for due-date displays) and the storage watcher's debounce.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses the calling goroutine for at least d. A FakeClock
	// only wakes sleepers when advanced.
	Sleep(d time.Duration)
}
