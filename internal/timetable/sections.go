package timetable

import (
	"cmp"
	"slices"
	"sort"
)

// SortSections orders sections by year, then group, then section id, so that
// adjacent columns belong to the same cohort. The input is not modified.
func SortSections(sections []SectionSchedule) []SectionSchedule {
	sorted := slices.Clone(sections)
	slices.SortStableFunc(sorted, func(a, b SectionSchedule) int {
		if c := cmp.Compare(a.Year, b.Year); c != 0 {
			return c
		}
		if c := cmp.Compare(a.GroupID, b.GroupID); c != 0 {
			return c
		}
		return cmp.Compare(a.SectionID, b.SectionID)
	})
	return sorted
}

// Instructors returns the sorted distinct instructor names present in the sections.
func Instructors(sections []SectionSchedule) []string {
	return distinct(sections, Session.Instructor)
}

// Rooms returns the sorted distinct room ids present in the sections.
func Rooms(sections []SectionSchedule) []string {
	return distinct(sections, func(s Session) string { return s.RoomID })
}

func distinct(sections []SectionSchedule, field func(Session) string) []string {
	set := make(map[string]bool)
	for _, sec := range sections {
		for _, s := range sec.Schedule {
			if v := field(s); v != "" {
				set[v] = true
			}
		}
	}
	result := make([]string, 0, len(set))
	for v := range set {
		result = append(result, v)
	}
	sort.Strings(result)
	return result
}

// CountSessions returns the total number of sessions across all sections.
func CountSessions(sections []SectionSchedule) int {
	total := 0
	for _, sec := range sections {
		total += len(sec.Schedule)
	}
	return total
}
