// Package timetable defines the core domain types for horario.
package timetable

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/horario/internal/slot"
)

// Data errors reported while ingesting scheduler output.
var (
	ErrMalformedSession     = errors.New("malformed session")
	ErrOverlappingSessions  = errors.New("overlapping sessions")
	ErrUnknownSessionType   = errors.New("session type must be 'lec', 'lab' or 'tut'")
	ErrMissingSectionID     = errors.New("section id cannot be empty")
	ErrDuplicateSectionID   = errors.New("duplicate section id")
	ErrInvalidFilterSyntax  = errors.New("filter must be written as key=value pairs")
	ErrUnknownFilterKeyword = errors.New("filter keys must be 'instructor' or 'room'")
)

// SessionType is the kind of course activity.
type SessionType string

const (
	SessionLecture  SessionType = "lec"
	SessionLab      SessionType = "lab"
	SessionTutorial SessionType = "tut"
)

// ParseSessionType normalizes the spellings the scheduler and users produce.
func ParseSessionType(s string) (SessionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lec", "lecture":
		return SessionLecture, nil
	case "lab", "laboratory":
		return SessionLab, nil
	case "tut", "tutorial":
		return SessionTutorial, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSessionType, s)
	}
}

// Valid returns true if the type is one of the known session types.
func (t SessionType) Valid() bool {
	switch t {
	case SessionLecture, SessionLab, SessionTutorial:
		return true
	default:
		return false
	}
}

// Label returns the upper-case short form used on documents ("LEC", "LAB", "TUT").
func (t SessionType) Label() string {
	return strings.ToUpper(string(t))
}

// UnmarshalJSON accepts any casing and the long spellings. Unknown values are
// kept verbatim so the session can be reported instead of failing the decode.
func (t *SessionType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseSessionType(raw)
	if err != nil {
		*t = SessionType(raw)
		return nil
	}
	*t = parsed
	return nil
}

// Session is one scheduled occurrence of a course activity.
type Session struct {
	CourseID       string      `json:"courseID"`
	CourseName     string      `json:"courseName"`
	InstructorID   string      `json:"instructorID,omitempty"`
	InstructorName string      `json:"instructorName"`
	RoomID         string      `json:"roomID"`
	Type           SessionType `json:"type"`
	SlotIndex      int         `json:"slotIndex"`
	Duration       int         `json:"duration"`
}

// Instructor returns the instructor name, falling back to the instructor id.
func (s Session) Instructor() string {
	if s.InstructorName != "" {
		return s.InstructorName
	}
	return s.InstructorID
}

// LastSlot returns the final slot index the session occupies.
func (s Session) LastSlot() int {
	return s.SlotIndex + s.Duration - 1
}

// Validate checks the slot range invariant: a positive duration that stays
// inside the grid and on one day.
func (s Session) Validate() error {
	if s.Duration <= 0 {
		return fmt.Errorf("%w: %s has duration %d", ErrMalformedSession, s.CourseID, s.Duration)
	}
	if !slot.Valid(s.SlotIndex) {
		return fmt.Errorf("%w: %s starts at slot %d outside 0-%d", ErrMalformedSession, s.CourseID, s.SlotIndex, slot.Count-1)
	}
	if !slot.Fits(s.SlotIndex, s.Duration) {
		return fmt.Errorf("%w: %s at slot %d for %d slots crosses a day boundary", ErrMalformedSession, s.CourseID, s.SlotIndex, s.Duration)
	}
	return nil
}

// Covers reports whether the session occupies the given slot index.
func (s Session) Covers(slotIndex int) bool {
	return slotIndex >= s.SlotIndex && slotIndex <= s.LastSlot()
}

// SameActivity is the horizontal merge predicate: two sessions show the same
// activity when course, instructor, room and type all match. Section specific
// fields never take part.
func (s Session) SameActivity(other Session) bool {
	return s.CourseID == other.CourseID &&
		s.CourseName == other.CourseName &&
		s.Instructor() == other.Instructor() &&
		s.RoomID == other.RoomID &&
		s.Type == other.Type
}

// SectionSchedule is one section's full weekly assignment.
type SectionSchedule struct {
	SectionID    string    `json:"sectionID"`
	GroupID      string    `json:"groupID"`
	Year         int       `json:"year,omitempty"`
	StudentCount int       `json:"studentCount,omitempty"`
	Schedule     []Session `json:"schedule"`
}

// Header returns the column caption used by every renderer.
func (s SectionSchedule) Header() string {
	if s.Year > 0 {
		return fmt.Sprintf("%s - Year %d", s.GroupID, s.Year)
	}
	return s.GroupID
}

// CheckSections verifies section identity: every section needs an id and ids
// must be unique within one generation.
func CheckSections(sections []SectionSchedule) error {
	seen := make(map[string]bool, len(sections))
	for _, sec := range sections {
		if sec.SectionID == "" {
			return ErrMissingSectionID
		}
		if seen[sec.SectionID] {
			return fmt.Errorf("%w: %s", ErrDuplicateSectionID, sec.SectionID)
		}
		seen[sec.SectionID] = true
	}
	return nil
}
