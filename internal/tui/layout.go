package tui

import (
	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// Layout constants, in terminal cells.
const (
	timeWidth    = 14
	minColWidth  = 16
	maxColWidth  = 30
	titleLines   = 2
	headerLines  = 2
	footerLines  = 4 // detail, filter, status, help
	maxRowLines  = 5
	promptBorder = 2

	// maxPromptLines leaves room for the input, suggestions and an ellipsis.
	maxPromptLines = view.MaxSuggestions + 3
)

// visibleColumns returns how many section columns fit and their width.
func (m Model) visibleColumns() (count, width int) {
	total := 0
	if m.grid != nil {
		total = len(m.grid.Columns)
	}
	if total == 0 {
		return 0, minColWidth
	}
	avail := m.width - timeWidth
	count = min(max(avail/(minColWidth+1), 1), total)
	width = min(max(avail/count-1, 1), maxColWidth)
	return count, width
}

// footerHeight is the footer size for the current mode.
func (m Model) footerHeight() int {
	h := footerLines
	if m.mode == ModePrompt {
		h += len(m.promptLines(m.width-4)) + promptBorder
	}
	return h
}

// rowLines is the number of terminal lines each period gets.
func (m Model) rowLines() int {
	gridH := m.height - titleLines - headerLines - m.footerHeight()
	return min(max(gridH/slot.PeriodsPerDay, 1), maxRowLines)
}

// currentCell returns the cell under the cursor.
func (m Model) currentCell() (grid.Cell, bool) {
	if m.grid == nil {
		return grid.Cell{}, false
	}
	cell, _, ok := m.grid.Lookup(slot.Index(m.day, m.period), m.col)
	return cell, ok
}

func (m *Model) moveDown() {
	next := m.period + 1
	if cell, ok := m.currentCell(); ok {
		next = slot.PeriodOf(cell.Slot) + cell.RowSpan
	}
	if next < slot.PeriodsPerDay {
		m.period = next
	}
}

func (m *Model) moveUp() {
	prev := m.period - 1
	if cell, ok := m.currentCell(); ok {
		prev = slot.PeriodOf(cell.Slot) - 1
	}
	if prev >= 0 {
		m.period = prev
	}
}

func (m *Model) moveRight() {
	if m.grid == nil {
		return
	}
	next := m.col + 1
	if cell, ok := m.currentCell(); ok {
		next = cell.LastColumn() + 1
	}
	if next < len(m.grid.Columns) {
		m.col = next
		m.ensureCursorVisible()
	}
}

func (m *Model) moveLeft() {
	prev := m.col - 1
	if cell, ok := m.currentCell(); ok {
		prev = cell.Column - 1
	}
	if prev >= 0 {
		m.col = prev
		m.ensureCursorVisible()
	}
}

// clampCursor keeps the cursor inside the grid after the columns change.
func (m *Model) clampCursor() {
	cols := 0
	if m.grid != nil {
		cols = len(m.grid.Columns)
	}
	m.col = min(max(m.col, 0), max(cols-1, 0))
	m.period = min(max(m.period, 0), slot.PeriodsPerDay-1)
	m.ensureCursorVisible()
}

// ensureCursorVisible scrolls the column window to the cursor.
func (m *Model) ensureCursorVisible() {
	count, _ := m.visibleColumns()
	if count == 0 {
		m.colOffset = 0
		return
	}
	if m.col < m.colOffset {
		m.colOffset = m.col
	}
	if m.col >= m.colOffset+count {
		m.colOffset = m.col - count + 1
	}
	m.colOffset = min(max(m.colOffset, 0), len(m.grid.Columns)-count)
}
