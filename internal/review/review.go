// Package review summarizes a consolidated timetable: load per day, per
// instructor and per room, and how much teaching is shared across sections.
package review

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/llm"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

// DayLoad is the teaching load of one day.
type DayLoad struct {
	Day string
	// BusyPeriods counts periods with at least one session in any section.
	BusyPeriods int
	// Sessions counts consolidated session cells starting on the day.
	Sessions int
}

// Load is the number of teaching periods assigned to an instructor or room.
// A merged cell counts once: the sections share one class.
type Load struct {
	Name    string
	Periods int
}

// Report holds aggregated timetable data and optional insight.
type Report struct {
	Timetable   string
	Sections    int
	Sessions    int // raw sessions across all sections
	Cells       int // consolidated session cells
	SharedCells int // cells spanning more than one section
	Days        []DayLoad
	ByType      map[timetable.SessionType]int
	Instructors []Load
	Rooms       []Load
	Issues      []string
	Insight     string
}

// Options configures Build.
type Options struct {
	IncludeInsight bool
	Provider       string
	Model          string
	BaseURL        string
}

// Summarize computes the report for a consolidated grid.
func Summarize(key string, g *grid.Grid) *Report {
	r := &Report{
		Timetable: key,
		Sections:  len(g.Columns),
		Sessions:  timetable.CountSessions(g.Sections()),
		ByType:    make(map[timetable.SessionType]int),
		Days:      make([]DayLoad, slot.Days),
	}
	for d := range r.Days {
		r.Days[d].Day = slot.DayName(d)
	}

	var busy [slot.Count]bool
	instructors := make(map[string]int)
	rooms := make(map[string]int)
	for _, cell := range g.SessionCells() {
		s := cell.Session
		r.Cells++
		if cell.ColSpan > 1 {
			r.SharedCells++
		}
		r.ByType[s.Type]++
		r.Days[cell.Day].Sessions++
		for i := 0; i < cell.RowSpan && cell.Slot+i < slot.Count; i++ {
			busy[cell.Slot+i] = true
		}
		if name := s.Instructor(); name != "" {
			instructors[name] += cell.RowSpan
		}
		if s.RoomID != "" {
			rooms[s.RoomID] += cell.RowSpan
		}
	}
	for s, b := range busy {
		if b {
			r.Days[slot.DayOf(s)].BusyPeriods++
		}
	}
	r.Instructors = sortedLoads(instructors)
	r.Rooms = sortedLoads(rooms)
	for _, issue := range g.Issues {
		r.Issues = append(r.Issues, issue.Message())
	}
	return r
}

// Build summarizes the grid and, when requested, adds an LLM insight.
func Build(ctx context.Context, key string, g *grid.Grid, opts Options) (*Report, error) {
	r := Summarize(key, g)
	if !opts.IncludeInsight || r.Cells == 0 {
		return r, nil
	}

	client, err := llm.NewClient(opts.Provider, opts.Model, opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}
	insight, err := Insight(ctx, client, r)
	if err != nil {
		return nil, fmt.Errorf("evaluating timetable: %w", err)
	}
	r.Insight = insight
	return r, nil
}

// sortedLoads orders by load, heaviest first, then by name.
func sortedLoads(m map[string]int) []Load {
	loads := make([]Load, 0, len(m))
	for name, n := range m {
		loads = append(loads, Load{Name: name, Periods: n})
	}
	sort.Slice(loads, func(i, j int) bool {
		if loads[i].Periods != loads[j].Periods {
			return loads[i].Periods > loads[j].Periods
		}
		return loads[i].Name < loads[j].Name
	})
	return loads
}

// TypeCount returns the cell count for a session type.
func (r *Report) TypeCount(t timetable.SessionType) int {
	return r.ByType[t]
}

// SharedPercent is the share of consolidated cells taught to several sections.
func (r *Report) SharedPercent() int {
	if r.Cells == 0 {
		return 0
	}
	return r.SharedCells * 100 / r.Cells
}

// Lines renders the report as plain text lines, suitable for the terminal,
// the clipboard and the insight prompt.
func (r *Report) Lines() []string {
	lines := []string{
		fmt.Sprintf("Timetable: %s", r.Timetable),
		fmt.Sprintf("Sections: %d | Sessions: %d | Cells: %d | Shared: %d (%d%%)",
			r.Sections, r.Sessions, r.Cells, r.SharedCells, r.SharedPercent()),
		fmt.Sprintf("Lectures: %d | Labs: %d | Tutorials: %d",
			r.TypeCount(timetable.SessionLecture),
			r.TypeCount(timetable.SessionLab),
			r.TypeCount(timetable.SessionTutorial)),
		"",
		"Days:",
	}
	for _, d := range r.Days {
		lines = append(lines, fmt.Sprintf("  %-10s %d/%d periods busy, %d sessions",
			d.Day, d.BusyPeriods, slot.PeriodsPerDay, d.Sessions))
	}
	lines = append(lines, "", "Instructors:")
	lines = append(lines, loadLines(r.Instructors)...)
	lines = append(lines, "", "Rooms:")
	lines = append(lines, loadLines(r.Rooms)...)
	if len(r.Issues) > 0 {
		lines = append(lines, "", fmt.Sprintf("Data issues (%d):", len(r.Issues)))
		for _, issue := range r.Issues {
			lines = append(lines, "  "+issue)
		}
	}
	return lines
}

// Text is Lines joined, with the insight appended when present.
func (r *Report) Text() string {
	text := strings.Join(r.Lines(), "\n")
	if r.Insight != "" {
		text += "\n\nInsight:\n" + r.Insight
	}
	return text
}

func loadLines(loads []Load) []string {
	if len(loads) == 0 {
		return []string{"  none"}
	}
	lines := make([]string, 0, len(loads))
	for _, l := range loads {
		lines = append(lines, fmt.Sprintf("  %-24s %2d periods", l.Name, l.Periods))
	}
	return lines
}
