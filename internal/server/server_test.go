package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/javiermolinar/horario/internal/cache"
	"github.com/javiermolinar/horario/internal/pipeline"
	"github.com/javiermolinar/horario/internal/scheduling"
	"github.com/javiermolinar/horario/internal/timetable"
)

type fakeGenerator struct {
	calls    int
	sections []timetable.SectionSchedule
	err      error
}

func (f *fakeGenerator) Generate(context.Context, string) ([]timetable.SectionSchedule, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.sections, nil
}

var testNow = time.Date(2026, 9, 6, 8, 0, 0, 0, time.UTC)

func fixture() []timetable.SectionSchedule {
	lecture := timetable.Session{
		CourseID: "CS101", CourseName: "Intro to CS",
		InstructorName: "Dr. Ada", RoomID: "R1",
		Type: timetable.SessionLecture, SlotIndex: 0, Duration: 2,
	}
	lab := timetable.Session{
		CourseID: "MA201", CourseName: "Linear Algebra",
		InstructorName: "Dr. Bob", RoomID: "LAB2",
		Type: timetable.SessionLab, SlotIndex: 8, Duration: 1,
	}
	return []timetable.SectionSchedule{
		{SectionID: "A", GroupID: "G1", Year: 1, Schedule: []timetable.Session{lecture}},
		{SectionID: "B", GroupID: "G1", Year: 1, Schedule: []timetable.Session{lecture, lab}},
		{SectionID: "C", GroupID: "G2", Year: 2, Schedule: []timetable.Session{lab}},
	}
}

func newTestServer(t *testing.T, gen *fakeGenerator) *Server {
	t.Helper()
	cm := cache.NewManager(cache.NewMemoryStore(0), cache.Options{Now: func() time.Time { return testNow }})
	svc := pipeline.New(gen, cm, pipeline.Options{Now: func() time.Time { return testNow }})
	return New(svc, Options{Now: func() time.Time { return testNow }})
}

func do(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{})
	rec := do(t, s, http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestGridConsolidatesAndCaches(t *testing.T) {
	gen := &fakeGenerator{sections: fixture()}
	s := newTestServer(t, gen)

	rec := do(t, s, http.MethodGet, "/api/timetables/fall/grid")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}

	var resp gridResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Source != pipeline.SourceScheduler {
		t.Errorf("source = %q, want scheduler", resp.Source)
	}
	if len(resp.Columns) != 3 || resp.Columns[2].Header != "G2 - Year 2" {
		t.Errorf("columns = %+v", resp.Columns)
	}
	if len(resp.Days) != 5 || len(resp.Periods) != 8 {
		t.Errorf("days=%d periods=%d", len(resp.Days), len(resp.Periods))
	}
	if len(resp.Boundaries) != 2 || resp.Boundaries[1].Kind.String() != "year" {
		t.Errorf("boundaries = %+v", resp.Boundaries)
	}

	first := resp.Cells[0]
	if first.Slot != 0 || first.ColSpan != 2 || first.RowSpan != 2 || first.Session == nil {
		t.Errorf("first cell = %+v", first)
	}
	if strings.Join(resp.Choices.Instructors, ",") != "Dr. Ada,Dr. Bob" {
		t.Errorf("instructors = %v", resp.Choices.Instructors)
	}

	rec = do(t, s, http.MethodGet, "/api/timetables/fall/grid")
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Source != pipeline.SourceCache {
		t.Errorf("second source = %q, want cache", resp.Source)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
}

func TestGridFilter(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{sections: fixture()})

	rec := do(t, s, http.MethodGet, "/api/timetables/fall/grid?room=LAB2")
	var resp gridResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if resp.Filter.Room != "LAB2" || resp.Filter.Instructor != timetable.All {
		t.Errorf("filter = %+v", resp.Filter)
	}
	if len(resp.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(resp.Columns))
	}
	// The unfiltered choices stay available.
	if len(resp.Choices.Rooms) != 2 {
		t.Errorf("rooms = %v", resp.Choices.Rooms)
	}
}

func TestGenerateAndInvalidate(t *testing.T) {
	gen := &fakeGenerator{sections: fixture()}
	s := newTestServer(t, gen)

	do(t, s, http.MethodGet, "/api/timetables/fall/grid")
	if rec := do(t, s, http.MethodPost, "/api/timetables/fall/generate"); rec.Code != http.StatusOK {
		t.Fatalf("generate = %d", rec.Code)
	}
	if gen.calls != 2 {
		t.Fatalf("generator calls = %d, want 2", gen.calls)
	}

	if rec := do(t, s, http.MethodDelete, "/api/timetables/fall/cache"); rec.Code != http.StatusNoContent {
		t.Fatalf("invalidate = %d", rec.Code)
	}
	do(t, s, http.MethodGet, "/api/timetables/fall/grid")
	if gen.calls != 3 {
		t.Fatalf("generator calls = %d, want 3 after invalidation", gen.calls)
	}
}

func TestCollaboratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: &scheduling.Error{Op: "schedule", Status: 500, Message: "no feasible timetable"}}
	s := newTestServer(t, gen)

	rec := do(t, s, http.MethodPost, "/api/timetables/fall/generate")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no feasible timetable") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestExport(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		status      int
	}{
		{"pdf", "application/pdf", http.StatusOK},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", http.StatusOK},
		{"html", "text/html; charset=utf-8", http.StatusOK},
		{"ics", "text/calendar; charset=utf-8", http.StatusOK},
		{"docx", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			s := newTestServer(t, &fakeGenerator{sections: fixture()})
			rec := do(t, s, http.MethodGet, "/api/timetables/fall/export/"+tt.format+"?instructor=Dr.%20Ada")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("content type = %q, want %q", got, tt.contentType)
			}
			want := fmt.Sprintf("timetable_Dr._Ada_%d.%s", testNow.UnixMilli(), tt.format)
			if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, want) {
				t.Errorf("disposition = %q, want file %s", got, want)
			}
			if rec.Body.Len() == 0 {
				t.Error("empty body")
			}
		})
	}
}

func TestPage(t *testing.T) {
	s := newTestServer(t, &fakeGenerator{sections: fixture()})

	rec := do(t, s, http.MethodGet, "/timetables/fall")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	dom, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("parsing html: %v", err)
	}
	if got := dom.Find("th[data-section]").Length(); got != 3 {
		t.Errorf("section headers = %d, want 3", got)
	}
	shared := dom.Find(`td[data-sections="A,B"]`)
	if v, _ := shared.Attr("colspan"); v != "2" {
		t.Errorf("colspan = %q, want 2", v)
	}
}
