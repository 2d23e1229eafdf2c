package pages

import (
	"fmt"
	"strings"

	"github.com/atomicstack/license-admin/internal/format/table"
	"github.com/atomicstack/license-admin/internal/state"
	"github.com/atomicstack/license-admin/internal/theme"
)

const tableChromeLines = 6

// RenderTable draws a table page: header, the rows inside the viewport with
// the cursor row highlighted, and the filter line when one is active.
func RenderTable(p state.Page, t *state.Table, filter string, height int, s *theme.Styles) []string {
	lines := make([]string, 0, 16)
	if t == nil {
		return append(lines, theme.Render(s.Info, fmt.Sprintf("(no %s)", strings.ToLower(p.Title()))))
	}
	if filter != "" {
		lines = append(lines, filter, "")
	}
	if len(t.Rows) == 0 {
		msg := fmt.Sprintf("(no %s)", strings.ToLower(p.Title()))
		if strings.TrimSpace(t.Filter) != "" {
			msg = fmt.Sprintf("No matches for %q", strings.TrimSpace(t.Filter))
		}
		return append(lines, theme.Render(s.Info, msg))
	}

	maxVisible := 0
	if height > 0 {
		maxVisible = height - tableChromeLines - len(lines)
		if maxVisible < 1 {
			maxVisible = 1
		}
	}
	visible := t.Visible(maxVisible)
	cells := make([][]string, len(visible))
	for i, row := range visible {
		cells[i] = row.Cells
	}
	header, formatted := table.Format(Columns(p), cells)
	lines = append(lines, "  "+theme.Render(s.TableHeader, header))
	for i, line := range formatted {
		if t.ViewportOffset+i == t.Cursor {
			lines = append(lines, theme.Render(s.TableSelected, "› "+line))
			continue
		}
		lines = append(lines, "  "+theme.Render(s.TableRow, line))
	}
	if strings.TrimSpace(t.Filter) != "" || len(visible) < len(t.Rows) {
		lines = append(lines, "", theme.Render(s.Footer, fmt.Sprintf("%d of %d", len(t.Rows), len(t.Full))))
	}
	return lines
}
