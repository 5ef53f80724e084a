// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar draws a one-column track of height rows for a list
// of total rows, visible at a time, scrolled by offset. The thumb is
// drawn in the accent color while the list has focus.
func RenderScrollbar(theme Theme, height, total, visible, offset int, focused bool) string {
	if height <= 0 {
		return ""
	}
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.AccentForeground
	}
	thumb := lipgloss.NewStyle().Foreground(thumbColor).Render("┃")

	start, size := ScrollThumb(height, total, visible, offset)
	cells := make([]string, height)
	for row := range cells {
		cells[row] = track
		if row >= start && row < start+size {
			cells[row] = thumb
		}
	}
	return strings.Join(cells, "\n")
}

// ScrollThumb returns the thumb's first row and its length. A list
// that fits gets a full-height thumb; otherwise the thumb is at least
// one row and never runs past the track.
func ScrollThumb(height, total, visible, offset int) (start, size int) {
	if total <= 0 || total <= visible {
		return 0, height
	}
	size = max(1, height*visible/total)
	if travel, scrollable := height-size, total-visible; travel > 0 {
		start = offset * travel / scrollable
	}
	return min(start, height-size), size
}
