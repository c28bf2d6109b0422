package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/slot"
)

// ICS exports every session cell as a weekly recurring event. A merged cell
// stays a single event listing all of its sections.
type ICS struct{}

func (ICS) Name() string        { return "ics" }
func (ICS) Extension() string   { return "ics" }
func (ICS) ContentType() string { return "text/calendar; charset=utf-8" }

// Export writes the calendar.
func (ICS) Export(w io.Writer, doc Document) error {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//horario//timetable//EN")
	cal.SetXWRCalName(doc.FullTitle())

	week := WeekStart(doc)
	stamp := doc.GeneratedAt.UTC()

	for _, cell := range doc.Grid.SessionCells() {
		s := cell.Session
		start, err := slotTime(week, cell.Slot, false)
		if err != nil {
			return err
		}
		end, err := slotTime(week, cell.Slot+cell.RowSpan-1, true)
		if err != nil {
			return err
		}

		uid := uuid.NewSHA1(uuid.NameSpaceURL, []byte(fmt.Sprintf("horario:%s:%d:%s:%s",
			s.CourseID, cell.Slot, s.Type, strings.Join(cell.SectionIDs, ",")))).String()

		event := cal.AddEvent(uid + "@horario")
		event.SetDtStampTime(stamp)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(fmt.Sprintf("%s - %s (%s)", s.CourseID, s.CourseName, s.Type.Label()))
		event.SetLocation(s.RoomID)
		event.SetDescription(fmt.Sprintf("Instructor: %s\nSections: %s",
			s.Instructor(), strings.Join(cell.SectionIDs, ", ")))
		event.SetProperty(ics.ComponentPropertyCategories, s.Type.Label())
		event.SetProperty(ics.ComponentPropertyRrule, "FREQ=WEEKLY")
	}

	_, err := io.WriteString(w, cal.Serialize())
	return err
}

// WeekStart returns the Sunday the calendar is anchored on.
func WeekStart(doc Document) time.Time {
	if !doc.WeekStart.IsZero() {
		return dateutil.WeekStart(doc.WeekStart)
	}
	at := doc.GeneratedAt
	if at.IsZero() {
		at = time.Now()
	}
	return dateutil.NextWeekStart(at)
}

// slotTime returns the start (or end) wall time of a slot in the anchored week.
func slotTime(week time.Time, slotIndex int, end bool) (time.Time, error) {
	p, ok := slot.PeriodAt(slot.PeriodOf(slotIndex))
	if !ok {
		return time.Time{}, fmt.Errorf("slot %d has no period", slotIndex)
	}
	label := p.Start
	if end {
		label = p.End
	}
	h, m, err := clock(label)
	if err != nil {
		return time.Time{}, err
	}
	day := week.AddDate(0, 0, slot.DayOf(slotIndex))
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, week.Location()), nil
}

// clock parses the printed 12-hour "H:MM" period labels. The teaching day
// runs from 9:00 to 3:45, so hours before 8 are afternoon.
func clock(label string) (int, int, error) {
	hs, ms, ok := strings.Cut(label, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid period time %q", label)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period time %q: %w", label, err)
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period time %q: %w", label, err)
	}
	if h < 8 {
		h += 12
	}
	return h, m, nil
}
