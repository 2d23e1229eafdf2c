package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column describes a table column. Max caps the column width; zero means
// unbounded.
type Column struct {
	Title string
	Align Alignment
	Max   int
}

const ellipsis = "…"

// Format pads the header and rows according to the widest entry in each
// column. Cells wider than the column's Max are truncated with an ellipsis.
func Format(columns []Column, rows [][]string) (string, []string) {
	if len(columns) == 0 {
		return "", nil
	}
	widths := make([]int, len(columns))
	for c, col := range columns {
		widths[c] = cellWidth(col.Title)
	}
	clipped := make([][]string, len(rows))
	for i, row := range rows {
		clipped[i] = make([]string, len(columns))
		for c := range columns {
			var cell string
			if c < len(row) {
				cell = clip(row[c], columns[c].Max)
			}
			clipped[i][c] = cell
			if w := cellWidth(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	titles := make([]string, len(columns))
	for c, col := range columns {
		titles[c] = col.Title
	}
	header := join(titles, columns, widths)
	out := make([]string, len(clipped))
	for i, row := range clipped {
		out[i] = join(row, columns, widths)
	}
	return header, out
}

func join(cells []string, columns []Column, widths []int) string {
	var b strings.Builder
	for c, cell := range cells {
		if c > 0 {
			b.WriteString("  ")
		}
		pad := widths[c] - cellWidth(cell)
		if columns[c].Align == AlignRight {
			writeSpaces(&b, pad)
			b.WriteString(cell)
			continue
		}
		b.WriteString(cell)
		if c < len(cells)-1 {
			writeSpaces(&b, pad)
		}
	}
	return b.String()
}

func clip(text string, max int) string {
	if max <= 0 || cellWidth(text) <= max {
		return text
	}
	return truncate.StringWithTail(text, uint(max), ellipsis)
}

func cellWidth(text string) int {
	return lipgloss.Width(text)
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
