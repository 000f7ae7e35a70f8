package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// maxCellWidth caps a column so one oversized cell (a long ABI source URL,
// a full signature) cannot push the rest of the listing off screen.
const maxCellWidth = 48

// Table renders the fixed-width listings used for contracts, wallets,
// endpoints and method tables. Columns size themselves to the widest cell,
// so callers only supply headers and rows.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends one row. Missing cells render empty; extra cells beyond the
// header count are dropped.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// widths returns the per-column width: the widest of header and cells,
// capped at maxCellWidth.
func (t *Table) widths() []int {
	w := make([]int, len(t.headers))
	for i, h := range t.headers {
		w[i] = len(h)
	}
	for _, row := range t.rows {
		for i := 0; i < len(w) && i < len(row); i++ {
			if n := len(row[i]); n > w[i] {
				w[i] = n
			}
		}
	}
	for i := range w {
		if w[i] > maxCellWidth {
			w[i] = maxCellWidth
		}
	}
	return w
}

// fit returns s padded to exactly width chars, truncating with an ellipsis
// when it runs over. Padding by hand keeps lipgloss from re-wrapping cells.
func fit(s string, width int) string {
	if len(s) > width {
		if width <= 1 {
			return s[:width]
		}
		return s[:width-1] + "…"
	}
	return s + strings.Repeat(" ", width-len(s))
}

// Render returns the table: a highlighted header, a dimmed divider and one
// line per row.
func (t *Table) Render() string {
	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	w := t.widths()
	var sb strings.Builder

	line := make([]string, len(t.headers))
	for i, h := range t.headers {
		line[i] = headerStyle.Render(fit(h, w[i]))
	}
	sb.WriteString(strings.Join(line, "  "))
	sb.WriteString("\n")

	for i := range t.headers {
		line[i] = dimStyle.Render(strings.Repeat("-", w[i]))
	}
	sb.WriteString(strings.Join(line, "  "))
	sb.WriteString("\n")

	for _, row := range t.rows {
		for i := range t.headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			line[i] = cellStyle.Render(fit(cell, w[i]))
		}
		sb.WriteString(strings.Join(line, "  "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// KeyValueBlock renders labeled values in a bordered box, with the label
// column sized to the longest key. Used for single-record output: call
// results, decoded calldata, selector lookups.
func KeyValueBlock(title string, pairs [][2]string) string {
	keyWidth := 0
	for _, p := range pairs {
		if n := len(p[0]) + 1; n > keyWidth {
			keyWidth = n
		}
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fit(p[0]+":", keyWidth))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
