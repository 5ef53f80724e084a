// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock set to initial. Time stands still until
// Advance or Set is called.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{current: initial}
	fake.waitersChanged = sync.NewCond(&fake.mu)
	return fake
}

// FakeClock is a deterministic Clock for tests. It is safe for
// concurrent use.
type FakeClock struct {
	mu             sync.Mutex
	current        time.Time
	waiters        []*fakeWaiter
	waitersChanged *sync.Cond
}

// fakeWaiter is a pending After or Sleep call.
type fakeWaiter struct {
	deadline time.Time
	channel  chan time.Time
}

// Now returns the current fake time.
func (fake *FakeClock) Now() time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return fake.current
}

// After registers a waiter that fires when the clock reaches now+d.
func (fake *FakeClock) After(d time.Duration) <-chan time.Time {
	fake.mu.Lock()
	defer fake.mu.Unlock()

	channel := make(chan time.Time, 1)
	if d <= 0 {
		channel <- fake.current
		return channel
	}
	fake.waiters = append(fake.waiters, &fakeWaiter{
		deadline: fake.current.Add(d),
		channel:  channel,
	})
	fake.waitersChanged.Broadcast()
	return channel
}

// Sleep blocks until the clock is advanced past now+d.
func (fake *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-fake.After(d)
}

// Advance moves the clock forward by d and fires every waiter whose
// deadline has been reached, in deadline order.
func (fake *FakeClock) Advance(d time.Duration) {
	fake.mu.Lock()
	fake.current = fake.current.Add(d)
	fake.fireExpiredLocked()
	fake.mu.Unlock()
}

// Set moves the clock to an absolute time. Moving backwards is
// allowed (tests use it to force id collisions) and fires nothing.
func (fake *FakeClock) Set(now time.Time) {
	fake.mu.Lock()
	fake.current = now
	fake.fireExpiredLocked()
	fake.mu.Unlock()
}

// WaitForWaiters blocks until at least count After or Sleep calls are
// pending.
func (fake *FakeClock) WaitForWaiters(count int) {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	for len(fake.waiters) < count {
		fake.waitersChanged.Wait()
	}
}

// PendingWaiters returns the number of unfired After or Sleep calls.
func (fake *FakeClock) PendingWaiters() int {
	fake.mu.Lock()
	defer fake.mu.Unlock()
	return len(fake.waiters)
}

func (fake *FakeClock) fireExpiredLocked() {
	var expired, remaining []*fakeWaiter
	for _, waiter := range fake.waiters {
		if !waiter.deadline.After(fake.current) {
			expired = append(expired, waiter)
		} else {
			remaining = append(remaining, waiter)
		}
	}
	fake.waiters = remaining

	sort.Slice(expired, func(i, j int) bool {
		return expired[i].deadline.Before(expired[j].deadline)
	})
	for _, waiter := range expired {
		// Buffered with capacity 1 and sent exactly once.
		waiter.channel <- fake.current
	}
}
