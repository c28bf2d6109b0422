// Package export renders a consolidated grid into downloadable documents.
// Every format is an Exporter over the same Document, so the merge layout is
// computed once by the grid package and only drawn here.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/timetable"
)

// DefaultTitle is the document title before the filter suffix.
const DefaultTitle = "Generated Timetable"

// ErrUnknownFormat is returned by ByName for unsupported formats.
var ErrUnknownFormat = errors.New("unknown export format")

// Error is an export failure. It is shown to the user but leaves the view usable.
type Error struct {
	Format string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("exporting %s: %v", e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Document is what every exporter renders.
type Document struct {
	Title       string
	Grid        *grid.Grid
	Filter      timetable.Filter
	GeneratedAt time.Time
	// WeekStart anchors calendar events; zero means the Sunday on or after GeneratedAt.
	WeekStart time.Time
}

// FullTitle returns the title with the filter suffix.
func (d Document) FullTitle() string {
	title := d.Title
	if title == "" {
		title = DefaultTitle
	}
	return title + d.Filter.Title()
}

// GeneratedLabel is the human timestamp printed under the title.
func (d Document) GeneratedLabel() string {
	return "Generated: " + d.GeneratedAt.Format("January 2, 2006 at 03:04 PM")
}

// Exporter renders a Document in one format.
type Exporter interface {
	Name() string
	Extension() string
	ContentType() string
	Export(w io.Writer, doc Document) error
}

var registry = map[string]Exporter{
	"pdf":  PDF{},
	"xlsx": XLSX{},
	"html": HTML{},
	"ics":  ICS{},
}

// Formats returns the supported format names.
func Formats() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByName returns the exporter for a format name.
func ByName(name string) (Exporter, error) {
	e, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	return e, nil
}

// Filename returns timetable[_instructor][_room]_<unix millis>.<ext>.
func Filename(e Exporter, filter timetable.Filter, at time.Time) string {
	return fmt.Sprintf("timetable%s_%d.%s", filter.FileSuffix(), at.UnixMilli(), e.Extension())
}

// Render runs an exporter and wraps any failure in *Error.
func Render(e Exporter, w io.Writer, doc Document) error {
	if doc.Grid == nil {
		return &Error{Format: e.Name(), Err: errors.New("nothing to export")}
	}
	if err := e.Export(w, doc); err != nil {
		return &Error{Format: e.Name(), Err: err}
	}
	return nil
}

// WriteFile exports doc into dir and returns the written path. A failed
// export removes the partial file.
func WriteFile(e Exporter, dir string, doc Document) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &Error{Format: e.Name(), Err: fmt.Errorf("creating export directory: %w", err)}
	}

	path := filepath.Join(dir, Filename(e, doc.Filter, doc.GeneratedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", &Error{Format: e.Name(), Err: fmt.Errorf("creating file: %w", err)}
	}

	if err := Render(e, f, doc); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", &Error{Format: e.Name(), Err: fmt.Errorf("closing file: %w", err)}
	}
	return path, nil
}

// sessionLines returns the text lines shown inside a session cell.
func sessionLines(s *timetable.Session) []string {
	return []string{s.CourseID, s.CourseName, s.Instructor(), s.RoomID}
}

// rgb is a parsed hex color.
type rgb struct{ r, g, b int }

func hexColor(hex string) rgb {
	var c rgb
	_, _ = fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &c.r, &c.g, &c.b)
	return c
}

// Palette colors, as hex without '#'.
const (
	colorBorder     = "D1D5DB"
	colorHeaderFill = "374151"
	colorHeaderText = "FFFFFF"
	colorTimeFill   = "F3F4F6"
	colorTimeText   = "374151"
	colorTitle      = "1F2937"
	colorMuted      = "6B7280"
	colorText       = "111827"
	colorGroupRule  = "6B7280"
	colorYearRule   = "111827"
)

// typeColors returns the fill and text colors for a session type.
func typeColors(t timetable.SessionType) (fill, text string) {
	switch t {
	case timetable.SessionLecture:
		return "DBEAFE", "1E40AF"
	case timetable.SessionLab:
		return "FEF3C7", "92400E"
	case timetable.SessionTutorial:
		return "D1FAE5", "065F46"
	default:
		return "FFFFFF", colorText
	}
}
