package server

import (
	"time"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/pipeline"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

type gridResponse struct {
	Timetable   string          `json:"timetable"`
	Source      pipeline.Source `json:"source"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Filter      filterJSON      `json:"filter"`
	Choices     choicesJSON     `json:"choices"`
	Days        []string        `json:"days"`
	Periods     []string        `json:"periods"`
	Columns     []columnJSON    `json:"columns"`
	Boundaries  []grid.Boundary `json:"boundaries"`
	Cells       []grid.Cell     `json:"cells"`
	Issues      []issueJSON     `json:"issues"`
}

type filterJSON struct {
	Instructor string `json:"instructor"`
	Room       string `json:"room"`
}

type choicesJSON struct {
	Instructors []string `json:"instructors"`
	Rooms       []string `json:"rooms"`
}

type columnJSON struct {
	SectionID    string `json:"sectionID"`
	GroupID      string `json:"groupID"`
	Year         int    `json:"year,omitempty"`
	StudentCount int    `json:"studentCount,omitempty"`
	Header       string `json:"header"`
}

type issueJSON struct {
	SectionID string `json:"sectionID"`
	CourseID  string `json:"courseID"`
	Slot      int    `json:"slot"`
	Message   string `json:"message"`
}

// newGridResponse flattens a consolidated grid. Cells are listed once, at
// their top-left corner, in slot then column order.
func newGridResponse(res *pipeline.Result, filter timetable.Filter, g *grid.Grid) gridResponse {
	out := gridResponse{
		Timetable:   res.TimetableKey,
		Source:      res.Source,
		GeneratedAt: res.GeneratedAt,
		Filter:      filterJSON{Instructor: filter.Instructor, Room: filter.Room},
		Choices:     choicesJSON{Instructors: res.Instructors(), Rooms: res.Rooms()},
		Days:        slot.DayNames(),
		Boundaries:  g.Boundaries,
		Columns:     make([]columnJSON, 0, len(g.Columns)),
		Cells:       []grid.Cell{},
		Issues:      make([]issueJSON, 0, len(g.Issues)),
	}
	if out.Boundaries == nil {
		out.Boundaries = []grid.Boundary{}
	}
	for p := 0; p < slot.PeriodsPerDay; p++ {
		out.Periods = append(out.Periods, slot.PeriodLabel(p))
	}
	for _, col := range g.Columns {
		sec := col.Section
		out.Columns = append(out.Columns, columnJSON{
			SectionID:    sec.SectionID,
			GroupID:      sec.GroupID,
			Year:         sec.Year,
			StudentCount: sec.StudentCount,
			Header:       sec.Header(),
		})
	}
	for s := range g.Rows {
		out.Cells = append(out.Cells, g.Row(s)...)
	}
	for _, issue := range g.Issues {
		out.Issues = append(out.Issues, issueJSON{
			SectionID: issue.SectionID,
			CourseID:  issue.Session.CourseID,
			Slot:      issue.Session.SlotIndex,
			Message:   issue.Message(),
		})
	}
	return out
}
