// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// TextInput is a rune-buffer text editor for form fields and inline
// prompts. A single-line input ignores Enter and newlines in pasted
// text; a multi-line input splits the current line on Enter.
type TextInput struct {
	// Multiline allows Enter to insert line breaks.
	Multiline bool

	// Placeholder is shown faint when the input is empty.
	Placeholder string

	// CharLimit caps the total rune count when positive.
	CharLimit int

	lines   [][]rune
	cursorY int
	cursorX int
}

// NewTextInput creates an empty single-line input.
func NewTextInput(placeholder string) TextInput {
	return TextInput{Placeholder: placeholder, lines: [][]rune{{}}}
}

// NewTextArea creates an empty multi-line input.
func NewTextArea(placeholder string) TextInput {
	return TextInput{Multiline: true, Placeholder: placeholder, lines: [][]rune{{}}}
}

// Value returns the current text, lines joined with "\n".
func (input TextInput) Value() string {
	parts := make([]string, len(input.lines))
	for index, line := range input.lines {
		parts[index] = string(line)
	}
	return strings.Join(parts, "\n")
}

// SetValue replaces the content and moves the cursor to the end.
func (input *TextInput) SetValue(value string) {
	if !input.Multiline {
		value = strings.ReplaceAll(value, "\n", " ")
	}
	input.lines = nil
	for line := range strings.SplitSeq(value, "\n") {
		input.lines = append(input.lines, []rune(line))
	}
	input.cursorY = len(input.lines) - 1
	input.cursorX = len(input.lines[input.cursorY])
}

// Reset clears the content.
func (input *TextInput) Reset() {
	input.lines = [][]rune{{}}
	input.cursorY = 0
	input.cursorX = 0
}

// Empty reports whether the input holds no text.
func (input TextInput) Empty() bool {
	return len(input.lines) <= 1 && (len(input.lines) == 0 || len(input.lines[0]) == 0)
}

// LineCount returns the number of lines in the buffer.
func (input TextInput) LineCount() int {
	return max(len(input.lines), 1)
}

func (input *TextInput) ensureLines() {
	if len(input.lines) == 0 {
		input.lines = [][]rune{{}}
	}
}

func (input TextInput) runeCount() int {
	count := len(input.lines) - 1
	for _, line := range input.lines {
		count += len(line)
	}
	return count
}

// Update processes a key message. Returns true if the content changed.
func (input *TextInput) Update(message tea.KeyMsg) bool {
	input.ensureLines()
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		changed := false
		for _, character := range message.Runes {
			if character == '\n' || character == '\r' {
				if input.Multiline {
					changed = input.splitLine() || changed
				} else {
					changed = input.insertRune(' ') || changed
				}
				continue
			}
			changed = input.insertRune(character) || changed
		}
		return changed

	case tea.KeyEnter:
		if input.Multiline {
			return input.splitLine()
		}

	case tea.KeyBackspace:
		if input.cursorX > 0 {
			line := input.lines[input.cursorY]
			input.lines[input.cursorY] = append(line[:input.cursorX-1], line[input.cursorX:]...)
			input.cursorX--
			return true
		}
		if input.cursorY > 0 {
			previousLine := input.lines[input.cursorY-1]
			input.cursorX = len(previousLine)
			input.lines[input.cursorY-1] = append(previousLine, input.lines[input.cursorY]...)
			input.lines = append(input.lines[:input.cursorY], input.lines[input.cursorY+1:]...)
			input.cursorY--
			return true
		}

	case tea.KeyDelete:
		line := input.lines[input.cursorY]
		if input.cursorX < len(line) {
			input.lines[input.cursorY] = append(line[:input.cursorX], line[input.cursorX+1:]...)
			return true
		}
		if input.cursorY < len(input.lines)-1 {
			input.lines[input.cursorY] = append(line, input.lines[input.cursorY+1]...)
			input.lines = append(input.lines[:input.cursorY+1], input.lines[input.cursorY+2:]...)
			return true
		}

	case tea.KeyCtrlU:
		if input.cursorX > 0 {
			input.lines[input.cursorY] = input.lines[input.cursorY][input.cursorX:]
			input.cursorX = 0
			return true
		}

	case tea.KeyLeft:
		if input.cursorX > 0 {
			input.cursorX--
		} else if input.cursorY > 0 {
			input.cursorY--
			input.cursorX = len(input.lines[input.cursorY])
		}

	case tea.KeyRight:
		if input.cursorX < len(input.lines[input.cursorY]) {
			input.cursorX++
		} else if input.cursorY < len(input.lines)-1 {
			input.cursorY++
			input.cursorX = 0
		}

	case tea.KeyUp:
		if input.cursorY > 0 {
			input.cursorY--
			input.cursorX = min(input.cursorX, len(input.lines[input.cursorY]))
		}

	case tea.KeyDown:
		if input.cursorY < len(input.lines)-1 {
			input.cursorY++
			input.cursorX = min(input.cursorX, len(input.lines[input.cursorY]))
		}

	case tea.KeyHome, tea.KeyCtrlA:
		input.cursorX = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		input.cursorX = len(input.lines[input.cursorY])
	}
	return false
}

func (input *TextInput) insertRune(character rune) bool {
	if input.CharLimit > 0 && input.runeCount() >= input.CharLimit {
		return false
	}
	line := input.lines[input.cursorY]
	newLine := make([]rune, len(line)+1)
	copy(newLine, line[:input.cursorX])
	newLine[input.cursorX] = character
	copy(newLine[input.cursorX+1:], line[input.cursorX:])
	input.lines[input.cursorY] = newLine
	input.cursorX++
	return true
}

func (input *TextInput) splitLine() bool {
	if input.CharLimit > 0 && input.runeCount() >= input.CharLimit {
		return false
	}
	line := input.lines[input.cursorY]
	before := append([]rune(nil), line[:input.cursorX]...)
	after := append([]rune(nil), line[input.cursorX:]...)

	newLines := make([][]rune, 0, len(input.lines)+1)
	newLines = append(newLines, input.lines[:input.cursorY]...)
	newLines = append(newLines, before, after)
	newLines = append(newLines, input.lines[input.cursorY+1:]...)
	input.lines = newLines
	input.cursorY++
	input.cursorX = 0
	return true
}

// Render draws the input into a box of the given size. Lines longer
// than width are clipped, and the view scrolls vertically to keep the
// cursor visible. The cursor cell is shown in reverse video when
// focused. Every returned line is exactly width columns wide.
func (input TextInput) Render(theme Theme, width, height int, focused bool) []string {
	if width <= 0 || height <= 0 {
		return nil
	}
	input.ensureLines()

	textStyle := lipgloss.NewStyle().Foreground(theme.NormalText)
	placeholderStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	if input.Empty() {
		lines := make([]string, height)
		first := ""
		if focused {
			first = cursorStyle.Render(" ")
		}
		if input.Placeholder != "" {
			placeholder := ansi.Truncate(input.Placeholder, width-ansi.StringWidth(first), "")
			first += placeholderStyle.Render(placeholder)
		}
		lines[0] = padRight(first, width)
		for index := 1; index < height; index++ {
			lines[index] = strings.Repeat(" ", width)
		}
		return lines
	}

	scrollOffset := 0
	if input.cursorY >= height {
		scrollOffset = input.cursorY - height + 1
	}

	lines := make([]string, 0, height)
	for lineIndex := scrollOffset; lineIndex < scrollOffset+height; lineIndex++ {
		if lineIndex >= len(input.lines) {
			lines = append(lines, strings.Repeat(" ", width))
			continue
		}
		line := input.lines[lineIndex]

		// Horizontal scroll keeps the cursor column on screen.
		start := 0
		if focused && lineIndex == input.cursorY && input.cursorX >= width {
			start = input.cursorX - width + 1
		}
		visible := line[min(start, len(line)):]

		var rendered string
		if focused && lineIndex == input.cursorY {
			cursor := input.cursorX - start
			if cursor >= len(visible) {
				rendered = textStyle.Render(string(visible)) + cursorStyle.Render(" ")
			} else {
				rendered = textStyle.Render(string(visible[:cursor])) +
					cursorStyle.Render(string(visible[cursor:cursor+1])) +
					textStyle.Render(string(visible[cursor+1:]))
			}
		} else {
			rendered = textStyle.Render(string(visible))
		}
		lines = append(lines, padRight(ansi.Truncate(rendered, width, ""), width))
	}
	return lines
}

// padRight pads a styled string with spaces to exactly width columns.
func padRight(styled string, width int) string {
	if gap := width - ansi.StringWidth(styled); gap > 0 {
		return styled + strings.Repeat(" ", gap)
	}
	return styled
}
