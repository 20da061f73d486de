package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders an aligned text table with optional color support.
type Table struct {
	headers []string
	rows    [][]string
	// highlight holds 0-based row indexes to emphasise.
	highlight map[int]bool
	border    bool
}

// NewTable creates a new table with the given column headers.
func NewTable(headers []string) *Table {
	return &Table{
		headers:   headers,
		highlight: map[int]bool{},
	}
}

// AddRow appends a row of values. The number of values should match the number of headers.
func (t *Table) AddRow(values []string) {
	t.rows = append(t.rows, values)
}

// SetHighlightRow sets which row index (0-based) should be highlighted,
// replacing earlier highlights. -1 clears them.
func (t *Table) SetHighlightRow(idx int) {
	t.highlight = map[int]bool{}
	if idx >= 0 {
		t.highlight[idx] = true
	}
}

// AddHighlightRow highlights one more row.
func (t *Table) AddHighlightRow(idx int) {
	t.highlight[idx] = true
}

// Highlighted reports whether row idx is highlighted.
func (t *Table) Highlighted(idx int) bool {
	return t.highlight[idx]
}

// SetBorder draws a box around the table.
func (t *Table) SetBorder(b bool) {
	t.border = b
}

// Render produces the formatted table string with leading indent.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	// Calculate column widths.
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var lines []string
	lines = append(lines, Bold(formatRow(t.headers, widths)))

	sepParts := make([]string, len(widths))
	for i, w := range widths {
		sepParts[i] = strings.Repeat("─", w)
	}
	lines = append(lines, Dim(strings.Join(sepParts, "  ")))

	for i, row := range t.rows {
		line := formatRow(row, widths)
		if t.highlight[i] {
			line = Accent(line)
		}
		lines = append(lines, line)
	}

	if t.border {
		boxed := style().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			Render(strings.Join(lines, "\n"))
		lines = strings.Split(boxed, "\n")
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString("  " + l + "\n")
	}
	return sb.String()
}

// formatRow formats a row of cells using the given column widths.
func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = fmt.Sprintf("%-*s", w, cell)
	}
	return strings.Join(parts, "  ")
}
