// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"slices"
	"strings"
	"sync"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is the outcome of matching one text against a pattern.
type FuzzyResult struct {
	// Score is fzf's match score; 0 means no match (or an empty
	// pattern). Higher is better.
	Score int

	// Positions are the rune indices in the text that matched,
	// ascending.
	Positions []int
}

var fuzzyInitOnce sync.Once

// FuzzyMatch runs fzf's V2 algorithm against text. Matching is case
// insensitive: both sides are lowered rune by rune, so Positions index
// the original text. slab may be nil; passing one reused across calls
// avoids per-call allocation.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	fuzzyInitOnce.Do(func() { algo.Init("default") })

	lowered := []rune(text)
	for index, character := range lowered {
		lowered[index] = unicode.ToLower(character)
	}
	loweredPattern := make([]rune, len(pattern))
	for index, character := range pattern {
		loweredPattern[index] = unicode.ToLower(character)
	}

	chars := util.RunesToChars(lowered)
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, loweredPattern, true, slab)
	if result.Start < 0 || result.Score <= 0 {
		return FuzzyResult{}
	}

	var matched []int
	if positions != nil {
		matched = slices.Clone(*positions)
		slices.Sort(matched)
	}
	return FuzzyResult{Score: result.Score, Positions: matched}
}

// HighlightRunes renders text with the runes at positions drawn in
// highlight and everything else in base. Consecutive runs of the same
// style are rendered together to keep the ANSI output compact.
func HighlightRunes(text string, positions []int, base, highlight lipgloss.Style) string {
	if len(positions) == 0 {
		return base.Render(text)
	}
	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}

	runes := []rune(text)
	var result strings.Builder
	runStart := 0
	for index := 1; index <= len(runes); index++ {
		if index < len(runes) && matched[index] == matched[runStart] {
			continue
		}
		chunk := string(runes[runStart:index])
		if matched[runStart] {
			result.WriteString(highlight.Render(chunk))
		} else {
			result.WriteString(base.Render(chunk))
		}
		runStart = index
	}
	return result.String()
}
