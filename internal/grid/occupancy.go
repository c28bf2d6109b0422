// Package grid consolidates per-section sessions into a renderer-agnostic weekly grid.
package grid

import (
	"fmt"

	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Issue is a recoverable data error found while building a section's occupancy.
// The offending session is dropped from rendering; everything else still renders.
type Issue struct {
	SectionID string            `json:"sectionID"`
	Session   timetable.Session `json:"session"`
	Err       error             `json:"-"`
}

// Message returns the issue as display text.
func (i Issue) Message() string {
	if i.Err == nil {
		return i.SectionID
	}
	return fmt.Sprintf("%s: %v", i.SectionID, i.Err)
}

// Occupancy is the per-section slot lookup used by consolidation.
type Occupancy struct {
	// Starts maps a slot index to the session starting there.
	Starts map[int]timetable.Session
	// Occupied holds every slot covered by a session except its start slot.
	Occupied map[int]bool
}

// StartAt returns the session starting at the slot, if any.
func (o Occupancy) StartAt(slotIndex int) (timetable.Session, bool) {
	s, ok := o.Starts[slotIndex]
	return s, ok
}

// IsOccupied reports whether the slot is the tail of a multi-slot session.
func (o Occupancy) IsOccupied(slotIndex int) bool {
	return o.Occupied[slotIndex]
}

// BuildOccupancy builds the start map and occupied set for one section.
// Malformed sessions and sessions overlapping an earlier one (in input order)
// are reported and left out; the first claim on a slot wins.
func BuildOccupancy(section timetable.SectionSchedule) (Occupancy, []Issue) {
	occ := Occupancy{
		Starts:   make(map[int]timetable.Session, len(section.Schedule)),
		Occupied: make(map[int]bool),
	}
	var issues []Issue
	var claimed [slot.Count]bool

	for _, s := range section.Schedule {
		if err := s.Validate(); err != nil {
			issues = append(issues, Issue{SectionID: section.SectionID, Session: s, Err: err})
			continue
		}
		if conflict := firstClaimed(claimed[:], s); conflict >= 0 {
			issues = append(issues, Issue{
				SectionID: section.SectionID,
				Session:   s,
				Err:       fmt.Errorf("%w: %s at slot %d is already taken", timetable.ErrOverlappingSessions, s.CourseID, conflict),
			})
			continue
		}

		occ.Starts[s.SlotIndex] = s
		claimed[s.SlotIndex] = true
		for i := 1; i < s.Duration; i++ {
			occ.Occupied[s.SlotIndex+i] = true
			claimed[s.SlotIndex+i] = true
		}
	}

	return occ, issues
}

func firstClaimed(claimed []bool, s timetable.Session) int {
	for i := s.SlotIndex; i <= s.LastSlot(); i++ {
		if claimed[i] {
			return i
		}
	}
	return -1
}
