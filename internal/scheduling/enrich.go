package scheduling

import (
	"encoding/json"

	"github.com/javiermolinar/horario/internal/timetable"
)

// sectionRecord is the aggregation view of a section.
type sectionRecord struct {
	SectionID    string `json:"sectionID"`
	GroupID      string `json:"groupID"`
	Year         int    `json:"year"`
	StudentCount int    `json:"studentCount"`
}

// Enrich fills missing group, year and student count on sections from the
// aggregation payload. Values already present are kept. An unreadable payload
// leaves the sections unchanged.
func Enrich(sections []timetable.SectionSchedule, payload json.RawMessage) []timetable.SectionSchedule {
	var data struct {
		Sections []sectionRecord `json:"sections"`
	}
	if err := json.Unmarshal(payload, &data); err != nil || len(data.Sections) == 0 {
		return sections
	}

	byID := make(map[string]sectionRecord, len(data.Sections))
	for _, r := range data.Sections {
		byID[r.SectionID] = r
	}

	out := make([]timetable.SectionSchedule, len(sections))
	for i, sec := range sections {
		if r, ok := byID[sec.SectionID]; ok {
			if sec.GroupID == "" {
				sec.GroupID = r.GroupID
			}
			if sec.Year == 0 {
				sec.Year = r.Year
			}
			if sec.StudentCount == 0 {
				sec.StudentCount = r.StudentCount
			}
		}
		out[i] = sec
	}
	return out
}
