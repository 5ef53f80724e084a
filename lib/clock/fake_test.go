// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 28, 12, 34, 56, 789_000_000, time.UTC)

func TestFakeNowStandsStill(t *testing.T) {
	fake := Fake(epoch)
	if !fake.Now().Equal(epoch) {
		t.Fatalf("Now() = %v, want %v", fake.Now(), epoch)
	}
	fake.Advance(time.Millisecond)
	if got := fake.Now().Sub(epoch); got != time.Millisecond {
		t.Errorf("after Advance(1ms), elapsed = %v, want 1ms", got)
	}
}

func TestFakeAfterFiresOnAdvance(t *testing.T) {
	fake := Fake(epoch)
	channel := fake.After(50 * time.Millisecond)

	fake.Advance(49 * time.Millisecond)
	select {
	case <-channel:
		t.Fatal("After fired before its deadline")
	default:
	}

	fake.Advance(time.Millisecond)
	select {
	case fired := <-channel:
		if !fired.Equal(epoch.Add(50 * time.Millisecond)) {
			t.Errorf("fired at %v, want %v", fired, epoch.Add(50*time.Millisecond))
		}
	default:
		t.Fatal("After did not fire at its deadline")
	}

	if pending := fake.PendingWaiters(); pending != 0 {
		t.Errorf("PendingWaiters() = %d after firing, want 0", pending)
	}
}

func TestFakeAfterNonPositiveIsImmediate(t *testing.T) {
	fake := Fake(epoch)
	select {
	case <-fake.After(0):
	default:
		t.Fatal("After(0) should be ready immediately")
	}
}

func TestFakeSleepUnblocksAfterAdvance(t *testing.T) {
	fake := Fake(epoch)
	done := make(chan struct{})
	go func() {
		fake.Sleep(time.Second)
		close(done)
	}()

	fake.WaitForWaiters(1)
	fake.Advance(time.Second)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Sleep did not return after Advance")
	}
}

func TestFakeSetBackwards(t *testing.T) {
	fake := Fake(epoch)
	earlier := epoch.Add(-time.Hour)
	fake.Set(earlier)
	if !fake.Now().Equal(earlier) {
		t.Errorf("Now() = %v, want %v", fake.Now(), earlier)
	}
}
