// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// RenderMarkdown renders markdown as styled terminal text wrapped to
// width. Soft line breaks become spaces so hard-wrapped descriptions
// reflow; fenced code blocks are highlighted with chroma when they
// name a language. Output always uses the ANSI256 profile, since it
// is only ever displayed inside the TUI or on a terminal.
func RenderMarkdown(input string, theme Theme, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// SetColorProfile is needed in addition to the termenv option:
	// the renderer otherwise re-detects the profile from the
	// environment and produces plain text without a TTY.
	renderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)

	writer := &markdownWriter{
		source:   source,
		theme:    theme,
		width:    max(width, 10),
		renderer: renderer,
	}
	ast.Walk(document, writer.walk)
	return strings.TrimRight(writer.output.String(), "\n")
}

// markdownWriter accumulates inline content per block and flushes it
// word-wrapped when the block closes. Prefixes stack for blockquotes
// and list items; the first line of a list item uses its bullet.
type markdownWriter struct {
	source   []byte
	theme    Theme
	width    int
	renderer *lipgloss.Renderer

	output  strings.Builder
	inline  strings.Builder
	blank   bool // Output ends with a blank line (or is empty).
	started bool

	prefixes []string
	bullet   string

	bold, italic, strike int

	lists []listLevel
}

type listLevel struct {
	ordered bool
	next    int
	tight   bool
}

func (writer *markdownWriter) style() lipgloss.Style {
	return writer.renderer.NewStyle()
}

func (writer *markdownWriter) prefix() string {
	return strings.Join(writer.prefixes, "")
}

func (writer *markdownWriter) available() int {
	return max(writer.width-ansi.StringWidth(writer.prefix()), 10)
}

func (writer *markdownWriter) tight() bool {
	return len(writer.lists) > 0 && writer.lists[len(writer.lists)-1].tight
}

// separate inserts a blank line between blocks, except inside tight
// lists.
func (writer *markdownWriter) separate() {
	if !writer.started || writer.blank || writer.tight() {
		return
	}
	writer.output.WriteString(strings.TrimRight(writer.prefix(), " ") + "\n")
	writer.blank = true
}

// emit writes lines with the current prefix, the pending bullet
// replacing the prefix on the first line.
func (writer *markdownWriter) emit(content string) {
	prefix := writer.prefix()
	for index, line := range strings.Split(content, "\n") {
		if index == 0 && writer.bullet != "" {
			writer.output.WriteString(writer.bullet)
			writer.bullet = ""
		} else {
			writer.output.WriteString(prefix)
		}
		writer.output.WriteString(line + "\n")
	}
	writer.blank = false
	writer.started = true
}

func (writer *markdownWriter) flush() {
	content := writer.inline.String()
	writer.inline.Reset()
	if strings.TrimSpace(ansi.Strip(content)) == "" {
		return
	}
	writer.separate()
	writer.emit(ansi.Wrap(content, writer.available(), " -"))
}

func (writer *markdownWriter) text(value string) {
	style := writer.style().Foreground(writer.theme.NormalText)
	if writer.bold > 0 {
		style = style.Bold(true)
	}
	if writer.italic > 0 {
		style = style.Italic(true)
	}
	if writer.strike > 0 {
		style = style.Strikethrough(true)
	}
	writer.inline.WriteString(style.Render(value))
}

func (writer *markdownWriter) faint(value string) string {
	return writer.style().Foreground(writer.theme.FaintText).Render(value)
}

func (writer *markdownWriter) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if !entering {
			writer.flush()
		}

	case *ast.Heading:
		if entering {
			return ast.WalkContinue, nil
		}
		content := ansi.Strip(writer.inline.String())
		writer.inline.Reset()
		style := writer.style().Bold(true).Foreground(writer.theme.HeaderForeground)
		if node.Level > 2 {
			style = style.Foreground(writer.theme.NormalText)
		}
		writer.separate()
		writer.emit(ansi.Wrap(style.Render(content), writer.available(), " -"))

	case *ast.FencedCodeBlock:
		if entering {
			writer.code(writer.lines(node.Lines()), string(node.Language(writer.source)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.CodeBlock:
		if entering {
			writer.code(writer.lines(node.Lines()), "")
		}
		return ast.WalkSkipChildren, nil

	case *ast.HTMLBlock:
		if entering {
			if stripped := strings.TrimSpace(stripTags(writer.lines(node.Lines()))); stripped != "" {
				writer.separate()
				writer.emit(writer.faint(stripped))
			}
		}
		return ast.WalkSkipChildren, nil

	case *ast.Blockquote:
		if entering {
			writer.separate()
			writer.prefixes = append(writer.prefixes, writer.faint("│")+" ")
		} else {
			writer.prefixes = writer.prefixes[:len(writer.prefixes)-1]
		}

	case *ast.List:
		if entering {
			writer.separate()
			writer.lists = append(writer.lists, listLevel{ordered: node.IsOrdered(), next: node.Start, tight: node.IsTight})
		} else {
			writer.lists = writer.lists[:len(writer.lists)-1]
		}

	case *ast.ListItem:
		if entering {
			level := &writer.lists[len(writer.lists)-1]
			marker := "• "
			if level.ordered {
				marker = fmt.Sprintf("%d. ", level.next)
				level.next++
			}
			writer.bullet = writer.prefix() + marker
			writer.prefixes = append(writer.prefixes, strings.Repeat(" ", ansi.StringWidth(marker)))
		} else {
			writer.bullet = ""
			writer.prefixes = writer.prefixes[:len(writer.prefixes)-1]
		}

	case *ast.ThematicBreak:
		if entering {
			writer.separate()
			writer.emit(writer.style().Foreground(writer.theme.BorderColor).Render(strings.Repeat("─", writer.available())))
		}

	case *ast.Text:
		if entering {
			writer.text(string(node.Segment.Value(writer.source)))
			if node.HardLineBreak() {
				writer.inline.WriteString("\n")
			} else if node.SoftLineBreak() {
				writer.inline.WriteString(" ")
			}
		}

	case *ast.String:
		if entering {
			writer.text(string(node.Value))
		}

	case *ast.Emphasis:
		delta := 1
		if !entering {
			delta = -1
		}
		if node.Level >= 2 {
			writer.bold += delta
		} else {
			writer.italic += delta
		}

	case *extast.Strikethrough:
		if entering {
			writer.strike++
		} else {
			writer.strike--
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if segment, ok := child.(*ast.Text); ok {
					code.Write(segment.Segment.Value(writer.source))
				}
			}
			writer.inline.WriteString(writer.style().Foreground(writer.theme.AccentForeground).Render(code.String()))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Link:
		if !entering {
			if destination := string(node.Destination); destination != "" {
				writer.inline.WriteString(" " + writer.faint("("+destination+")"))
			}
		}

	case *ast.AutoLink:
		if entering {
			writer.inline.WriteString(writer.faint(string(node.URL(writer.source))))
		}
		return ast.WalkSkipChildren, nil

	case *ast.Image:
		if entering {
			writer.inline.WriteString(writer.faint("[image: " + string(node.Destination) + "]"))
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			var html strings.Builder
			for index := 0; index < node.Segments.Len(); index++ {
				segment := node.Segments.At(index)
				html.Write(segment.Value(writer.source))
			}
			if stripped := stripTags(html.String()); stripped != "" {
				writer.inline.WriteString(writer.faint(stripped))
			}
		}

	case *extast.TaskCheckBox:
		if entering {
			if node.IsChecked {
				writer.inline.WriteString(writer.style().Foreground(writer.theme.CompleteForeground).Render("✓") + " ")
			} else {
				writer.inline.WriteString(writer.style().Foreground(writer.theme.IncompleteForeground).Render("◷") + " ")
			}
		}

	case *extast.Table:
		if entering {
			writer.table(node)
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (writer *markdownWriter) lines(segments *text.Segments) string {
	var content strings.Builder
	for index := 0; index < segments.Len(); index++ {
		segment := segments.At(index)
		content.Write(segment.Value(writer.source))
	}
	return content.String()
}

// code writes a code block indented by two columns. Unknown languages
// and unlabeled blocks render faint.
func (writer *markdownWriter) code(code, language string) {
	code = strings.TrimRight(code, "\n")
	rendered := writer.faint(code)
	if language != "" {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, code, language, "terminal256", "monokai"); err == nil {
			rendered = strings.TrimRight(highlighted.String(), "\n")
		}
	}
	writer.separate()
	lines := strings.Split(rendered, "\n")
	for index := range lines {
		lines[index] = "  " + lines[index]
	}
	writer.emit(strings.Join(lines, "\n"))
}

// table renders cells separated by a faint bar. Column widths come
// from the widest cell; there is no shrinking to fit.
func (writer *markdownWriter) table(table *extast.Table) {
	var rows [][]string
	header := -1
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		if row.Kind() == extast.KindTableHeader {
			header = len(rows)
		}
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			saved := writer.inline.String()
			writer.inline.Reset()
			for child := cell.FirstChild(); child != nil; child = child.NextSibling() {
				ast.Walk(child, writer.walk)
			}
			cells = append(cells, writer.inline.String())
			writer.inline.Reset()
			writer.inline.WriteString(saved)
		}
		rows = append(rows, cells)
	}

	var widths []int
	for _, cells := range rows {
		for index, cell := range cells {
			if index >= len(widths) {
				widths = append(widths, 0)
			}
			widths[index] = max(widths[index], ansi.StringWidth(cell))
		}
	}

	separator := " " + writer.faint("│") + " "
	var output []string
	for rowIndex, cells := range rows {
		parts := make([]string, len(cells))
		for index, cell := range cells {
			parts[index] = cell + strings.Repeat(" ", widths[index]-ansi.StringWidth(cell))
		}
		line := strings.Join(parts, separator)
		if rowIndex == header {
			line = writer.style().Bold(true).Render(ansi.Strip(line))
		}
		output = append(output, ansi.Truncate(line, writer.available(), "…"))
	}
	writer.separate()
	writer.emit(strings.Join(output, "\n"))
}

func stripTags(html string) string {
	var result strings.Builder
	inTag := false
	for _, character := range html {
		switch {
		case character == '<':
			inTag = true
		case character == '>':
			inTag = false
		case !inTag:
			result.WriteRune(character)
		}
	}
	return result.String()
}
