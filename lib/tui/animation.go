// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "time"

const (
	// HeatDecayDuration is how long a row glows after it changes. Heat
	// falls linearly from 1 to 0 across it.
	HeatDecayDuration = 5 * time.Second

	// HeatTickInterval paces re-renders while anything glows.
	HeatTickInterval = 100 * time.Millisecond
)

// HeatKind picks the glow color.
type HeatKind int

const (
	// HeatChanged marks a row that was added, edited, or toggled.
	HeatChanged HeatKind = iota
	// HeatRemoved marks a row that is about to disappear.
	HeatRemoved
)

type ignition struct {
	at   time.Time
	kind HeatKind
}

// HeatTracker remembers when each row last changed so views can fade
// a highlight out over [HeatDecayDuration]. Time is always passed in,
// so a fake clock drives it in tests. Not safe for concurrent use; it
// lives inside a bubbletea model.
type HeatTracker[K comparable] struct {
	ignitions map[K]ignition
}

func NewHeatTracker[K comparable]() *HeatTracker[K] {
	return &HeatTracker[K]{ignitions: make(map[K]ignition)}
}

// Ignite starts (or restarts) the glow for key.
func (tracker *HeatTracker[K]) Ignite(key K, kind HeatKind, now time.Time) {
	tracker.ignitions[key] = ignition{at: now, kind: kind}
}

// Heat is 1 at ignition and 0 once HeatDecayDuration has passed.
func (tracker *HeatTracker[K]) Heat(key K, now time.Time) float64 {
	entry, ok := tracker.ignitions[key]
	if !ok {
		return 0
	}
	remaining := HeatDecayDuration - now.Sub(entry.at)
	if remaining <= 0 {
		return 0
	}
	return float64(remaining) / float64(HeatDecayDuration)
}

// Kind reports how key was last ignited. Unknown keys read as
// HeatChanged.
func (tracker *HeatTracker[K]) Kind(key K) HeatKind {
	return tracker.ignitions[key].kind
}

// HasHot reports whether anything still glows, forgetting the keys
// that have cooled. The tick loop stops when it returns false.
func (tracker *HeatTracker[K]) HasHot(now time.Time) bool {
	for key, entry := range tracker.ignitions {
		if now.Sub(entry.at) >= HeatDecayDuration {
			delete(tracker.ignitions, key)
		}
	}
	return len(tracker.ignitions) > 0
}
