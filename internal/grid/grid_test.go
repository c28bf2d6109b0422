package grid

import (
	"errors"
	"reflect"
	"testing"

	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

func session(course, instructor, room string, slotIndex, duration int) timetable.Session {
	return timetable.Session{
		CourseID:       course,
		CourseName:     course + " name",
		InstructorName: instructor,
		RoomID:         room,
		Type:           timetable.SessionLecture,
		SlotIndex:      slotIndex,
		Duration:       duration,
	}
}

func section(id, group string, year int, sessions ...timetable.Session) timetable.SectionSchedule {
	return timetable.SectionSchedule{SectionID: id, GroupID: group, Year: year, Schedule: sessions}
}

// assertCoverage checks that every (slot, column) is covered by exactly one cell.
func assertCoverage(t *testing.T, g *Grid) {
	t.Helper()
	counts := make([][]int, slot.Count)
	for s := range counts {
		counts[s] = make([]int, len(g.Columns))
	}
	for _, row := range g.Rows {
		for _, cell := range row {
			for r := cell.Slot; r < cell.Slot+cell.RowSpan; r++ {
				for c := cell.Column; c <= cell.LastColumn(); c++ {
					counts[r][c]++
				}
			}
		}
	}
	for s := range counts {
		for c, n := range counts[s] {
			if n != 1 {
				t.Errorf("slot %d column %d covered %d times, want exactly once", s, c, n)
			}
		}
	}
}

func TestBuildOccupancy(t *testing.T) {
	sec := section("A", "G1", 1,
		session("CS101", "Dr. Adams", "R1", 0, 3),
		session("CS102", "Dr. Adams", "R1", 10, 1),
	)

	occ, issues := BuildOccupancy(sec)
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if _, ok := occ.StartAt(0); !ok {
		t.Error("expected session starting at slot 0")
	}
	if _, ok := occ.StartAt(1); ok {
		t.Error("slot 1 is a tail slot, not a start")
	}
	for _, s := range []int{1, 2} {
		if !occ.IsOccupied(s) {
			t.Errorf("expected slot %d to be occupied", s)
		}
	}
	if occ.IsOccupied(0) || occ.IsOccupied(10) {
		t.Error("start slots must not be marked occupied")
	}
}

func TestBuildOccupancyReportsIssues(t *testing.T) {
	sec := section("A", "G1", 1,
		session("CS101", "Dr. Adams", "R1", 0, 2),
		session("CS102", "Dr. Brown", "R2", 1, 1), // overlaps CS101
		session("CS103", "Dr. Brown", "R2", 7, 2), // crosses into day 2
		session("CS104", "Dr. Brown", "R2", 12, 0),
		session("CS105", "Dr. Brown", "R2", 45, 1),
	)

	occ, issues := BuildOccupancy(sec)
	if len(issues) != 4 {
		t.Fatalf("expected 4 issues, got %d: %v", len(issues), issues)
	}
	if !errors.Is(issues[0].Err, timetable.ErrOverlappingSessions) {
		t.Errorf("expected overlap first, got %v", issues[0].Err)
	}
	for _, issue := range issues[1:] {
		if !errors.Is(issue.Err, timetable.ErrMalformedSession) {
			t.Errorf("expected malformed session, got %v", issue.Err)
		}
		if issue.SectionID != "A" {
			t.Errorf("issue should name the section, got %q", issue.SectionID)
		}
	}
	if s, ok := occ.StartAt(0); !ok || s.CourseID != "CS101" {
		t.Error("first session should win the overlap")
	}
	if _, ok := occ.StartAt(1); ok {
		t.Error("overlapping session must be dropped")
	}
	if len(occ.Starts) != 1 {
		t.Errorf("expected only the valid session, got %d starts", len(occ.Starts))
	}
}

func TestConsolidateScenarioSharedLecture(t *testing.T) {
	cs101 := session("CS101", "Dr. Adams", "R101", 0, 2)
	g := Consolidate([]timetable.SectionSchedule{
		section("A", "G1", 1, cs101),
		section("B", "G1", 1, cs101),
		section("C", "G1", 1, session("CS200", "Dr. Brown", "R2", 4, 1)),
	})

	row0 := g.Row(0)
	if len(row0) != 2 {
		t.Fatalf("slot 0: expected 2 cells, got %d: %+v", len(row0), row0)
	}
	if row0[0].ColSpan != 2 || row0[0].RowSpan != 2 {
		t.Errorf("slot 0: expected merged cell 2x2, got colSpan=%d rowSpan=%d", row0[0].ColSpan, row0[0].RowSpan)
	}
	if !reflect.DeepEqual(row0[0].SectionIDs, []string{"A", "B"}) {
		t.Errorf("slot 0: merged cell sections = %v", row0[0].SectionIDs)
	}
	if !row0[1].Empty() || row0[1].Column != 2 || row0[1].ColSpan != 1 {
		t.Errorf("slot 0: expected empty cell for C, got %+v", row0[1])
	}

	row1 := g.Row(1)
	if len(row1) != 1 {
		t.Fatalf("slot 1: expected only C's empty cell, got %+v", row1)
	}
	if !row1[0].Empty() || !reflect.DeepEqual(row1[0].SectionIDs, []string{"C"}) {
		t.Errorf("slot 1: expected empty cell for C, got %+v", row1[0])
	}

	assertCoverage(t, g)
}

func TestConsolidateMergeSoundness(t *testing.T) {
	base := session("CS101", "Dr. Adams", "R101", 8, 1)
	mutations := map[string]func(*timetable.Session){
		"course id":   func(s *timetable.Session) { s.CourseID = "X" },
		"course name": func(s *timetable.Session) { s.CourseName = "X" },
		"instructor":  func(s *timetable.Session) { s.InstructorName = "X" },
		"room":        func(s *timetable.Session) { s.RoomID = "X" },
		"type":        func(s *timetable.Session) { s.Type = timetable.SessionTutorial },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			other := base
			mutate(&other)
			g := Consolidate([]timetable.SectionSchedule{
				section("A", "G1", 1, base),
				section("B", "G1", 1, other),
			})
			row := g.Row(8)
			if len(row) != 2 {
				t.Fatalf("expected two cells, got %d", len(row))
			}
			for _, cell := range row {
				if cell.ColSpan != 1 {
					t.Errorf("expected colSpan 1, got %d", cell.ColSpan)
				}
			}
			assertCoverage(t, g)
		})
	}
}

func TestConsolidateRunsAndGaps(t *testing.T) {
	shared := session("MA100", "Dr. Chen", "R5", 16, 1)
	g := Consolidate([]timetable.SectionSchedule{
		section("A", "G1", 1, shared),
		section("B", "G1", 1, shared),
		section("C", "G1", 1, shared),
		section("D", "G1", 1, session("PH100", "Dr. Diaz", "R6", 16, 1)),
		section("E", "G1", 1, shared),
	})

	row := g.Row(16)
	var spans []int
	for _, cell := range row {
		spans = append(spans, cell.ColSpan)
	}
	if !reflect.DeepEqual(spans, []int{3, 1, 1}) {
		t.Errorf("expected spans [3 1 1], got %v", spans)
	}
	if row[2].Column != 4 {
		t.Errorf("non-adjacent identical session must not merge, got column %d", row[2].Column)
	}
	assertCoverage(t, g)
}

func TestConsolidateDifferentDurationsDoNotMerge(t *testing.T) {
	long := session("CS101", "Dr. Adams", "R101", 0, 2)
	short := long
	short.Duration = 1

	g := Consolidate([]timetable.SectionSchedule{
		section("A", "G1", 1, long),
		section("B", "G1", 1, short),
	})
	if len(g.Row(0)) != 2 {
		t.Fatalf("expected two cells, got %+v", g.Row(0))
	}
	assertCoverage(t, g)
}

func TestConsolidateVerticalSoundness(t *testing.T) {
	g := Consolidate([]timetable.SectionSchedule{
		section("A", "G1", 1, session("LAB1", "Dr. Adams", "L1", 3, 3)),
	})

	row := g.Row(3)
	if len(row) != 1 || row[0].RowSpan != 3 {
		t.Fatalf("expected one cell with rowSpan 3, got %+v", row)
	}
	for _, s := range []int{4, 5} {
		if len(g.Row(s)) != 0 {
			t.Errorf("slot %d must not be rendered separately, got %+v", s, g.Row(s))
		}
		cell, origin, ok := g.Lookup(s, 0)
		if !ok || origin || cell.Slot != 3 {
			t.Errorf("slot %d should be covered by the slot 3 cell, got %+v origin=%v ok=%v", s, cell, origin, ok)
		}
	}
	if len(g.Row(6)) != 1 || !g.Row(6)[0].Empty() {
		t.Errorf("slot 6 should be an empty cell, got %+v", g.Row(6))
	}
	assertCoverage(t, g)
}

func TestConsolidateSkipsEmptySections(t *testing.T) {
	g := Consolidate([]timetable.SectionSchedule{
		section("A", "G1", 1),
		section("B", "G1", 1, session("CS101", "Dr. Adams", "R101", 0, 1)),
	})
	if !reflect.DeepEqual(g.SectionIDs(), []string{"B"}) {
		t.Fatalf("expected only section B, got %v", g.SectionIDs())
	}
	assertCoverage(t, g)

	empty := Consolidate(nil)
	if !empty.Empty() {
		t.Error("expected empty grid")
	}
	for s := 0; s < slot.Count; s++ {
		if len(empty.Row(s)) != 0 {
			t.Fatalf("empty grid should have no cells at slot %d", s)
		}
	}
}

func TestConsolidateWithMalformedData(t *testing.T) {
	g := Consolidate([]timetable.SectionSchedule{
		section("A", "G1", 1,
			session("CS101", "Dr. Adams", "R1", 7, 3),
			session("CS102", "Dr. Adams", "R1", 0, 2),
			session("CS103", "Dr. Adams", "R1", 1, 1),
		),
	})

	if len(g.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d", len(g.Issues))
	}
	if cell, origin, ok := g.Lookup(7, 0); !ok || !origin || !cell.Empty() {
		t.Errorf("malformed session slot should render empty, got %+v", cell)
	}
	assertCoverage(t, g)
}

func TestSeparatorPrecedence(t *testing.T) {
	boundaries := Separators([]timetable.SectionSchedule{
		section("S1", "g1", 1),
		section("S2", "g2", 1),
		section("S3", "g2", 2),
		section("S4", "g9", 3),
		section("S5", "g9", 3),
	})

	want := []Boundary{
		{Column: 1, Kind: BoundaryGroup},
		{Column: 2, Kind: BoundaryYear},
		{Column: 3, Kind: BoundaryYear},
		{Column: 4, Kind: BoundaryNone},
	}
	if !reflect.DeepEqual(boundaries, want) {
		t.Errorf("Separators = %+v, want %+v", boundaries, want)
	}
	if Separators([]timetable.SectionSchedule{section("S1", "g1", 1)}) != nil {
		t.Error("a single section has no boundaries")
	}
}

func TestMergeAcrossBoundaries(t *testing.T) {
	shared := session("GE100", "Dr. Evans", "Hall", 0, 1)
	sections := []timetable.SectionSchedule{
		section("A", "G1", 1, shared),
		section("B", "G2", 1, shared),
	}

	merged := Consolidate(sections)
	if row := merged.Row(0); len(row) != 1 || row[0].ColSpan != 2 {
		t.Errorf("default consolidation should merge across a group boundary, got %+v", row)
	}
	if merged.BoundaryBefore(1) != BoundaryGroup {
		t.Errorf("expected group boundary before column 1, got %s", merged.BoundaryBefore(1))
	}

	split := ConsolidateWith(sections, Options{SplitAtSeparators: true})
	if row := split.Row(0); len(row) != 2 {
		t.Errorf("split consolidation should stop at the boundary, got %+v", row)
	}
	assertCoverage(t, split)
}

func TestLookupOutOfRange(t *testing.T) {
	g := Consolidate([]timetable.SectionSchedule{
		section("A", "G1", 1, session("CS101", "Dr. Adams", "R1", 0, 1)),
	})
	if _, _, ok := g.Lookup(-1, 0); ok {
		t.Error("negative slot should not resolve")
	}
	if _, _, ok := g.Lookup(0, 3); ok {
		t.Error("unknown column should not resolve")
	}
	if cells := g.SessionCells(); len(cells) != 1 {
		t.Errorf("expected one session cell, got %d", len(cells))
	}
}
