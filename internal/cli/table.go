package cli

import (
	"strings"
)

// Table renders rows as left-aligned columns under a header and separator.
type Table struct {
	headers []string
	rows    [][]string
	padding int

	// prefix, when set, is written before each data row. prefixWidth is its
	// visible width, used to indent the header and separator.
	prefix      func(row int) string
	prefixWidth int
}

// NewTable creates a new table with the given headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers: headers,
		padding: 2,
	}
}

// SetRowPrefix writes prefix(i) before data row i. width is the prefix's
// visible width, which may differ from its byte length when it carries
// terminal escapes.
func (t *Table) SetRowPrefix(width int, prefix func(row int) string) {
	t.prefixWidth = width
	t.prefix = prefix
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(row []string) {
	if len(row) != len(t.headers) {
		fixed := make([]string, len(t.headers))
		copy(fixed, row)
		row = fixed
	}
	t.rows = append(t.rows, row)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len(cell))
		}
	}

	gap := strings.Repeat(" ", t.padding)
	indent := strings.Repeat(" ", t.prefixWidth)
	var b strings.Builder

	writeLine := func(lead string, cells []string) {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = padRight(c, widths[i])
		}
		b.WriteString(lead)
		b.WriteString(strings.TrimRight(strings.Join(parts, gap), " "))
		b.WriteString("\n")
	}

	writeLine(indent, t.headers)
	seps := make([]string, len(widths))
	for i, w := range widths {
		seps[i] = strings.Repeat("-", w)
	}
	writeLine(indent, seps)

	for i, row := range t.rows {
		lead := ""
		if t.prefix != nil {
			lead = t.prefix(i)
		}
		writeLine(lead, row)
	}
	return b.String()
}

// padRight pads a string with spaces on the right to reach the desired width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
