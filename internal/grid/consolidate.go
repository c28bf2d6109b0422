package grid

import (
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Cell is one consolidated grid cell, positioned at its top-left corner.
// An empty cell has no session and always spans one row and one column.
type Cell struct {
	Slot       int                `json:"slot"`
	Day        int                `json:"day"`
	Period     int                `json:"period"`
	Column     int                `json:"column"`
	RowSpan    int                `json:"rowSpan"`
	ColSpan    int                `json:"colSpan"`
	Session    *timetable.Session `json:"session,omitempty"`
	SectionIDs []string           `json:"sectionIDs"`
}

// Empty returns true if no session is scheduled in the cell.
func (c Cell) Empty() bool {
	return c.Session == nil
}

// Covers reports whether the cell spans the given slot and column.
func (c Cell) Covers(slotIndex, column int) bool {
	return slotIndex >= c.Slot && slotIndex < c.Slot+c.RowSpan &&
		column >= c.Column && column < c.Column+c.ColSpan
}

// LastColumn returns the right-most column the cell spans.
func (c Cell) LastColumn() int {
	return c.Column + c.ColSpan - 1
}

// Column is one section in the consolidation order, with its occupancy.
type Column struct {
	Section   timetable.SectionSchedule
	Occupancy Occupancy
}

// Options tunes consolidation.
type Options struct {
	// SplitAtSeparators stops horizontal merges at year and group boundaries.
	// The default merges identical sessions regardless of boundaries, which
	// only affect border styling.
	SplitAtSeparators bool
}

type cellRef struct {
	slot  int
	index int
}

// Grid is the consolidated weekly grid shared by every renderer.
type Grid struct {
	Columns    []Column
	Rows       [slot.Count][]Cell
	Boundaries []Boundary
	Issues     []Issue

	cover [slot.Count][]cellRef
}

// Consolidate builds the grid for sections in the given column order using
// the default options.
func Consolidate(sections []timetable.SectionSchedule) *Grid {
	return ConsolidateWith(sections, Options{})
}

// ConsolidateWith builds the grid for sections in the given column order.
// Sections without sessions are not given a column.
func ConsolidateWith(sections []timetable.SectionSchedule, opts Options) *Grid {
	g := &Grid{}
	for _, sec := range sections {
		if len(sec.Schedule) == 0 {
			continue
		}
		occ, issues := BuildOccupancy(sec)
		g.Columns = append(g.Columns, Column{Section: sec, Occupancy: occ})
		g.Issues = append(g.Issues, issues...)
	}

	ordered := make([]timetable.SectionSchedule, len(g.Columns))
	for i, col := range g.Columns {
		ordered[i] = col.Section
	}
	g.Boundaries = Separators(ordered)

	for s := 0; s < slot.Count; s++ {
		g.Rows[s] = g.consolidateRow(s, opts)
	}
	g.buildCover()
	return g
}

func (g *Grid) consolidateRow(s int, opts Options) []Cell {
	var cells []Cell
	day, period := slot.DayOf(s), slot.PeriodOf(s)
	skip := 0

	for c := 0; c < len(g.Columns); c++ {
		if skip > 0 {
			skip--
			continue
		}
		col := g.Columns[c]
		if col.Occupancy.IsOccupied(s) {
			continue
		}

		session, ok := col.Occupancy.StartAt(s)
		if !ok {
			cells = append(cells, Cell{
				Slot: s, Day: day, Period: period, Column: c,
				RowSpan: 1, ColSpan: 1,
				SectionIDs: []string{col.Section.SectionID},
			})
			continue
		}

		run := 1
		for c+run < len(g.Columns) {
			if opts.SplitAtSeparators && g.BoundaryBefore(c+run) != BoundaryNone {
				break
			}
			next, ok := g.Columns[c+run].Occupancy.StartAt(s)
			if !ok || !mergeable(session, next) {
				break
			}
			run++
		}
		skip = run - 1

		ids := make([]string, run)
		for i := range run {
			ids[i] = g.Columns[c+i].Section.SectionID
		}
		sess := session
		cells = append(cells, Cell{
			Slot: s, Day: day, Period: period, Column: c,
			RowSpan: session.Duration, ColSpan: run,
			Session:    &sess,
			SectionIDs: ids,
		})
	}
	return cells
}

// mergeable also requires equal durations so a merged cell never leaves part
// of a column uncovered.
func mergeable(a, b timetable.Session) bool {
	return a.SameActivity(b) && a.Duration == b.Duration
}

func (g *Grid) buildCover() {
	for s := range g.cover {
		g.cover[s] = make([]cellRef, len(g.Columns))
		for c := range g.cover[s] {
			g.cover[s][c] = cellRef{slot: -1, index: -1}
		}
	}
	for s, row := range g.Rows {
		for i, cell := range row {
			for r := cell.Slot; r < cell.Slot+cell.RowSpan && r < slot.Count; r++ {
				for c := cell.Column; c <= cell.LastColumn() && c < len(g.Columns); c++ {
					g.cover[r][c] = cellRef{slot: s, index: i}
				}
			}
		}
	}
}

// Row returns the consolidated cells whose top-left corner is at the slot.
func (g *Grid) Row(slotIndex int) []Cell {
	if !slot.Valid(slotIndex) {
		return nil
	}
	return g.Rows[slotIndex]
}

// Lookup returns the cell covering a slot and column, and whether that
// position is the cell's top-left corner. Renderers without native cell
// merging use it to repeat or suppress content.
func (g *Grid) Lookup(slotIndex, column int) (cell Cell, origin bool, ok bool) {
	if !slot.Valid(slotIndex) || column < 0 || column >= len(g.Columns) {
		return Cell{}, false, false
	}
	ref := g.cover[slotIndex][column]
	if ref.index < 0 {
		return Cell{}, false, false
	}
	cell = g.Rows[ref.slot][ref.index]
	return cell, cell.Slot == slotIndex && cell.Column == column, true
}

// SectionIDs returns the column section ids in order.
func (g *Grid) SectionIDs() []string {
	ids := make([]string, len(g.Columns))
	for i, col := range g.Columns {
		ids[i] = col.Section.SectionID
	}
	return ids
}

// Sections returns the column sections in order.
func (g *Grid) Sections() []timetable.SectionSchedule {
	sections := make([]timetable.SectionSchedule, len(g.Columns))
	for i, col := range g.Columns {
		sections[i] = col.Section
	}
	return sections
}

// Empty returns true if the grid has no columns.
func (g *Grid) Empty() bool {
	return len(g.Columns) == 0
}

// SessionCells returns every non-empty cell in slot order.
func (g *Grid) SessionCells() []Cell {
	var cells []Cell
	for _, row := range g.Rows {
		for _, cell := range row {
			if !cell.Empty() {
				cells = append(cells, cell)
			}
		}
	}
	return cells
}
