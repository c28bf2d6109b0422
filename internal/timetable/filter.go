package timetable

import (
	"fmt"
	"strings"
)

// All is the filter value that matches every instructor or room.
const All = "all"

// Filter narrows sessions by instructor and room. Empty fields mean All.
type Filter struct {
	Instructor string `json:"instructor"`
	Room       string `json:"room"`
}

// NewFilter builds a filter, normalizing empty values to All.
func NewFilter(instructor, room string) Filter {
	return Filter{Instructor: normalizeCriterion(instructor), Room: normalizeCriterion(room)}
}

func normalizeCriterion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.EqualFold(v, All) {
		return All
	}
	return v
}

func (f Filter) instructor() string { return normalizeCriterion(f.Instructor) }
func (f Filter) room() string       { return normalizeCriterion(f.Room) }

// IsAll returns true if the filter matches everything.
func (f Filter) IsAll() bool {
	return f.instructor() == All && f.room() == All
}

// Matches reports whether a session satisfies every non-All criterion.
func (f Filter) Matches(s Session) bool {
	if in := f.instructor(); in != All && s.Instructor() != in {
		return false
	}
	if room := f.room(); room != All && s.RoomID != room {
		return false
	}
	return true
}

// Apply narrows each section's schedule to the matching sessions and drops
// sections left with nothing. The input is not modified, and applying the same
// filter twice yields the same result as applying it once.
func (f Filter) Apply(sections []SectionSchedule) []SectionSchedule {
	result := make([]SectionSchedule, 0, len(sections))
	for _, sec := range sections {
		var kept []Session
		for _, s := range sec.Schedule {
			if f.Matches(s) {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			continue
		}
		sec.Schedule = kept
		result = append(result, sec)
	}
	return result
}

// Title returns the document title suffix, e.g. " | Instructor: Dr. Adams | Room: R101".
func (f Filter) Title() string {
	var b strings.Builder
	if in := f.instructor(); in != All {
		fmt.Fprintf(&b, " | Instructor: %s", in)
	}
	if room := f.room(); room != All {
		fmt.Fprintf(&b, " | Room: %s", room)
	}
	return b.String()
}

// FileSuffix returns the export file name suffix, e.g. "_Dr._Adams_R101".
func (f Filter) FileSuffix() string {
	var b strings.Builder
	if in := f.instructor(); in != All {
		b.WriteString("_" + strings.Join(strings.Fields(in), "_"))
	}
	if room := f.room(); room != All {
		b.WriteString("_" + room)
	}
	return b.String()
}

// String returns the filter in the form accepted by ParseFilter.
func (f Filter) String() string {
	return fmt.Sprintf("instructor=%s, room=%s", f.instructor(), f.room())
}

// ParseFilter parses "instructor=Dr. Adams, room=R101". Keys may be given in
// any order or omitted; an empty string yields the All filter.
func ParseFilter(text string) (Filter, error) {
	f := NewFilter(All, All)
	text = strings.TrimSpace(text)
	if text == "" {
		return f, nil
	}
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilterSyntax, part)
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "instructor", "i":
			f.Instructor = normalizeCriterion(value)
		case "room", "r":
			f.Room = normalizeCriterion(value)
		default:
			return Filter{}, fmt.Errorf("%w: %q", ErrUnknownFilterKeyword, key)
		}
	}
	return f, nil
}
