package ui

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

// Table represents a simple table for displaying tabular data
type Table struct {
	writer  io.Writer
	headers []string
	rows    [][]string
	noColor bool
}

// TableOptions configures table behavior
type TableOptions struct {
	NoColor bool
}

// NewTable creates a new table with the given headers
func NewTable(w io.Writer, headers []string, opts *TableOptions) *Table {
	t := &Table{writer: w, headers: headers}
	if opts != nil {
		t.noColor = opts.NoColor
	}
	return t
}

// AddRow adds a row to the table. Missing cells render empty, extra cells
// are ignored.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render renders the table to the writer
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = utf8.RuneCountInString(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	bold := newColor(t.noColor, color.Bold, color.FgCyan)
	gray := newColor(t.noColor, color.FgHiBlack)

	t.line(widths, t.headers, func(s string) string { return bold.Sprint(s) })
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("─", w)
	}
	t.line(widths, seps, func(s string) string { return gray.Sprint(s) })
	for _, row := range t.rows {
		t.line(widths, row, nil)
	}
}

func (t *Table) line(widths []int, cells []string, paint func(string) string) {
	parts := make([]string, len(widths))
	for i := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if i < len(widths)-1 {
			cell = padRight(cell, widths[i])
		}
		if paint != nil {
			cell = paint(cell)
		}
		parts[i] = cell
	}
	fmt.Fprintln(t.writer, strings.Join(parts, "  "))
}

// padRight pads a string with spaces on the right to reach the target width
func padRight(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func newColor(noColor bool, attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if noColor {
		c.DisableColor()
	}
	return c
}

// Header renders a styled header
func Header(w io.Writer, title string, noColor bool) {
	newColor(noColor, color.Bold, color.FgCyan).Fprintln(w, title)
	newColor(noColor, color.FgHiBlack).Fprintln(w, strings.Repeat("─", utf8.RuneCountInString(title)))
}
