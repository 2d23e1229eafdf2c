package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Row is one record of a table page. Cells are display strings in column
// order; the filter matches against all of them.
type Row struct {
	ID    string
	Cells []string
}

func (r Row) text() string {
	return strings.Join(r.Cells, " ")
}

// Table holds the rows of a table page with a filter, cursor and viewport.
type Table struct {
	Columns        []string
	Rows           []Row
	Full           []Row
	Filter         string
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewTable constructs a Table with the provided rows.
func NewTable(columns []string, rows []Row) *Table {
	t := &Table{Columns: append([]string(nil), columns...), LastCursor: -1}
	t.SetRows(rows)
	return t
}

// SetRows replaces the data, keeping the current filter.
func (t *Table) SetRows(rows []Row) {
	prevOffset := t.ViewportOffset
	t.Full = CloneRows(rows)
	t.applyFilter()
	if len(t.Rows) == 0 || prevOffset < 0 || prevOffset > len(t.Rows)-1 {
		t.ViewportOffset = 0
		return
	}
	t.ViewportOffset = prevOffset
}

// SetFilter narrows Rows to those matching query. Clearing the filter
// restores the cursor to where it was before filtering started.
func (t *Table) SetFilter(query string) {
	trimmed := strings.TrimSpace(query)
	prevTrimmed := strings.TrimSpace(t.Filter)
	restore := -1
	t.Filter = query
	if trimmed != "" {
		if prevTrimmed == "" {
			t.LastCursor = t.Cursor
		}
		t.Cursor = 0
	} else if prevTrimmed != "" {
		restore = t.LastCursor
	}
	t.applyFilter()
	if trimmed == "" && prevTrimmed != "" {
		if restore >= 0 && restore < len(t.Rows) {
			t.Cursor = restore
		}
		t.LastCursor = -1
	}
}

func (t *Table) applyFilter() {
	t.Rows = FilterRows(t.Full, t.Filter)
	if len(t.Rows) == 0 {
		t.Cursor = 0
		t.ViewportOffset = 0
		return
	}
	if t.Cursor < 0 {
		t.Cursor = 0
	}
	if t.Cursor >= len(t.Rows) {
		t.Cursor = len(t.Rows) - 1
	}
	if t.ViewportOffset > len(t.Rows)-1 {
		t.ViewportOffset = 0
	}
}

// Selected returns the row under the cursor.
func (t *Table) Selected() (Row, bool) {
	if t.Cursor < 0 || t.Cursor >= len(t.Rows) {
		return Row{}, false
	}
	return t.Rows[t.Cursor], true
}

// MoveCursor moves the cursor by delta, clamped to the visible rows.
func (t *Table) MoveCursor(delta int) bool {
	if len(t.Rows) == 0 {
		t.Cursor = 0
		return false
	}
	old := t.Cursor
	t.Cursor += delta
	if t.Cursor < 0 {
		t.Cursor = 0
	}
	if t.Cursor >= len(t.Rows) {
		t.Cursor = len(t.Rows) - 1
	}
	return t.Cursor != old
}

// MoveCursorHome moves the cursor to the first row.
func (t *Table) MoveCursorHome() bool {
	return t.MoveCursor(-len(t.Rows))
}

// MoveCursorEnd moves the cursor to the last row.
func (t *Table) MoveCursorEnd() bool {
	return t.MoveCursor(len(t.Rows))
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (t *Table) EnsureCursorVisible(maxVisible int) {
	if len(t.Rows) == 0 {
		t.Cursor = 0
		t.ViewportOffset = 0
		return
	}
	if maxVisible <= 0 {
		t.ViewportOffset = 0
		return
	}
	maxOffset := len(t.Rows) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.ViewportOffset > maxOffset {
		t.ViewportOffset = maxOffset
	}
	if t.ViewportOffset < 0 {
		t.ViewportOffset = 0
	}
	if t.Cursor < t.ViewportOffset {
		t.ViewportOffset = t.Cursor
	}
	if upper := t.ViewportOffset + maxVisible - 1; t.Cursor > upper {
		t.ViewportOffset = t.Cursor - maxVisible + 1
	}
}

// Visible returns the slice of Rows inside the viewport.
func (t *Table) Visible(maxVisible int) []Row {
	t.EnsureCursorVisible(maxVisible)
	if maxVisible <= 0 || maxVisible >= len(t.Rows) {
		return t.Rows
	}
	end := t.ViewportOffset + maxVisible
	if end > len(t.Rows) {
		end = len(t.Rows)
	}
	return t.Rows[t.ViewportOffset:end]
}

// FilterRows returns rows matching query, fuzzy first, then by substring.
func FilterRows(rows []Row, query string) []Row {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return CloneRows(rows)
	}
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.text()
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, texts)
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]Row, 0, len(matches))
		for idx, row := range rows {
			if _, ok := matches[idx]; ok {
				filtered = append(filtered, row)
			}
		}
		return filtered
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if strings.Contains(strings.ToLower(row.text()), lower) || strings.Contains(strings.ToLower(row.ID), lower) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// CloneRows produces a shallow copy of rows.
func CloneRows(rows []Row) []Row {
	dup := make([]Row, len(rows))
	copy(dup, rows)
	return dup
}
