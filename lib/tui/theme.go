// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette and visual properties for the
// terminal UI. All colors use lipgloss ANSI 256-color codes for broad
// terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Completion state.
	CompleteForeground   lipgloss.Color
	IncompleteForeground lipgloss.Color

	// Due date urgency for incomplete tasks.
	OverdueForeground  lipgloss.Color
	DueTodayForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	AccentForeground lipgloss.Color // Focused scrollbar thumb, active field label.
	ErrorForeground  lipgloss.Color
	WarnForeground   lipgloss.Color

	// Background tints for rows that glow after a change.
	HotAccentChanged lipgloss.Color
	HotAccentRemoved lipgloss.Color

	// Fuzzy match highlighting.
	SearchHighlightBackground lipgloss.Color

	// Overlays (dropdowns, the form panel).
	TooltipForeground lipgloss.Color
	TooltipBackground lipgloss.Color
}

// DueColor returns the foreground for a due date: overdue and
// due-today incomplete tasks stand out, everything else is faint.
// daysUntil is negative for past dates.
func (theme Theme) DueColor(daysUntil int, complete bool) lipgloss.Color {
	switch {
	case complete:
		return theme.FaintText
	case daysUntil < 0:
		return theme.OverdueForeground
	case daysUntil == 0:
		return theme.DueTodayForeground
	default:
		return theme.NormalText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed for
// 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	CompleteForeground:   lipgloss.Color("114"), // green
	IncompleteForeground: lipgloss.Color("220"), // amber

	OverdueForeground:  lipgloss.Color("196"), // red
	DueTodayForeground: lipgloss.Color("208"), // orange

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	AccentForeground: lipgloss.Color("220"),
	ErrorForeground:  lipgloss.Color("196"),
	WarnForeground:   lipgloss.Color("208"),

	HotAccentChanged: lipgloss.Color("58"), // dark amber
	HotAccentRemoved: lipgloss.Color("52"), // dark red

	SearchHighlightBackground: lipgloss.Color("58"),

	TooltipForeground: lipgloss.Color("252"),
	TooltipBackground: lipgloss.Color("237"),
}
