// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// resetSGR closes any styling left open on either side of a splice.
const resetSGR = "\x1b[0m"

// SpliceOverlay paints overlay lines over view with the top-left corner
// at column x, row y. Cells left and right of the overlay keep their
// original styling; rows outside the view are skipped. Every overlay
// line is assumed to be as wide as the first.
func SpliceOverlay(view string, overlay []string, x, y int) string {
	if len(overlay) == 0 {
		return view
	}
	rows := strings.Split(view, "\n")
	right := x + ansi.StringWidth(overlay[0])

	for offset, patch := range overlay {
		row := y + offset
		if row < 0 || row >= len(rows) {
			continue
		}
		original := rows[row]
		width := ansi.StringWidth(original)

		var line strings.Builder
		line.WriteString(ansi.Truncate(original, x, ""))
		if width < x {
			line.WriteString(strings.Repeat(" ", x-width))
		}
		line.WriteString(resetSGR + patch + resetSGR)
		if right < width {
			line.WriteString(ansi.TruncateLeft(original, right, ""))
		}
		rows[row] = line.String()
	}
	return strings.Join(rows, "\n")
}

// Excerpt is the first non-blank line of a task description, cut to
// width with a trailing ellipsis. Markdown markers are left in place.
func Excerpt(description string, width int) string {
	if width <= 0 {
		return ""
	}
	for line := range strings.SplitSeq(description, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			continue
		case ansi.StringWidth(line) <= width:
			return line
		default:
			return ansi.Truncate(line, width-1, "") + "…"
		}
	}
	return ""
}
