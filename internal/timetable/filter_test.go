package timetable

import (
	"errors"
	"reflect"
	"testing"
)

func filterFixture() []SectionSchedule {
	return []SectionSchedule{
		{SectionID: "A", GroupID: "G1", Year: 1, Schedule: []Session{
			lecture("CS101", "Dr. Adams", "R101", 0, 2),
			lecture("CS102", "Dr. Brown", "R102", 8, 1),
		}},
		{SectionID: "B", GroupID: "G1", Year: 1, Schedule: []Session{
			lecture("CS102", "Dr. Brown", "R102", 8, 1),
		}},
		{SectionID: "C", GroupID: "G2", Year: 1},
	}
}

func sectionIDs(sections []SectionSchedule) []string {
	ids := make([]string, 0, len(sections))
	for _, s := range sections {
		ids = append(ids, s.SectionID)
	}
	return ids
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
		wantLen map[string]int
	}{
		{
			name:    "all keeps non-empty sections",
			filter:  NewFilter(All, All),
			wantIDs: []string{"A", "B"},
			wantLen: map[string]int{"A": 2, "B": 1},
		},
		{
			name:    "room narrows to a single section",
			filter:  NewFilter(All, "R101"),
			wantIDs: []string{"A"},
			wantLen: map[string]int{"A": 1},
		},
		{
			name:    "instructor",
			filter:  NewFilter("Dr. Brown", ""),
			wantIDs: []string{"A", "B"},
			wantLen: map[string]int{"A": 1, "B": 1},
		},
		{
			name:    "conjunction with no match",
			filter:  NewFilter("Dr. Adams", "R102"),
			wantIDs: []string{},
			wantLen: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(filterFixture())
			if ids := sectionIDs(got); !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Fatalf("sections = %v, want %v", ids, tt.wantIDs)
			}
			for _, sec := range got {
				if len(sec.Schedule) != tt.wantLen[sec.SectionID] {
					t.Errorf("section %s has %d sessions, want %d", sec.SectionID, len(sec.Schedule), tt.wantLen[sec.SectionID])
				}
			}
		})
	}
}

func TestFilterApplyIsIdempotent(t *testing.T) {
	filters := []Filter{
		NewFilter(All, All),
		NewFilter("Dr. Brown", All),
		NewFilter(All, "R101"),
		NewFilter("Dr. Adams", "R101"),
	}

	for _, f := range filters {
		once := f.Apply(filterFixture())
		twice := f.Apply(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("filter %s is not idempotent:\nonce  %+v\ntwice %+v", f, once, twice)
		}
	}
}

func TestFilterApplyNarrowerIsSubset(t *testing.T) {
	broad := NewFilter("Dr. Brown", All).Apply(filterFixture())
	narrow := NewFilter("Dr. Brown", "R102").Apply(broad)
	if len(narrow) > len(broad) {
		t.Fatalf("narrower filter produced more sections: %d > %d", len(narrow), len(broad))
	}
}

func TestFilterApplyDoesNotModifyInput(t *testing.T) {
	in := filterFixture()
	_ = NewFilter(All, "R101").Apply(in)
	if len(in[0].Schedule) != 2 {
		t.Error("Apply must not modify the input schedules")
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr error
	}{
		{in: "", want: Filter{Instructor: All, Room: All}},
		{in: "room=R101", want: Filter{Instructor: All, Room: "R101"}},
		{in: "instructor=Dr. Adams, room=R101", want: Filter{Instructor: "Dr. Adams", Room: "R101"}},
		{in: "r=R1, i=all", want: Filter{Instructor: All, Room: "R1"}},
		{in: "building=B", wantErr: ErrUnknownFilterKeyword},
		{in: "R101", wantErr: ErrInvalidFilterSyntax},
	}

	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseFilter(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFilter(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestFilterLabels(t *testing.T) {
	f := NewFilter("Dr. Jane Adams", "R101")
	if got := f.Title(); got != " | Instructor: Dr. Jane Adams | Room: R101" {
		t.Errorf("Title() = %q", got)
	}
	if got := f.FileSuffix(); got != "_Dr._Jane_Adams_R101" {
		t.Errorf("FileSuffix() = %q", got)
	}
	if got := NewFilter("", "").FileSuffix(); got != "" {
		t.Errorf("FileSuffix() for all = %q, want empty", got)
	}
}
