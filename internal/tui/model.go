// Package tui provides the interactive timetable grid.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/debuglog"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/pipeline"
	"github.com/javiermolinar/horario/internal/review"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt      // Typing a filter
	ModeDetail      // Cell detail modal
	ModeHelp        // Key reference modal
	ModeReview      // Timetable review modal
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	svc       commands.Service
	key       string
	log       *debuglog.Logger
	now       func() time.Time
	exportDir string
	exporters []export.Exporter
	title     string
	weekStart time.Time

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Data
	result       *pipeline.Result
	grid         *grid.Grid
	filter       timetable.Filter
	notGenerated bool
	report       *review.Report

	// Cursor, as a period of the visible day and an absolute column.
	day       int
	period    int
	col       int
	colOffset int

	mode    Mode
	loading bool

	// Components
	prompt  textinput.Model
	spinner spinner.Model

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string
	statusError bool
	statusTime  time.Time

	// Error state: the last load or generation failure.
	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithTheme selects a theme by name.
func WithTheme(name string) ModelOption {
	return func(m *Model) {
		t, err := theme.Load(name)
		if err != nil {
			return
		}
		m.theme = t
		m.styles = NewStyles(t)
	}
}

// WithLogger sets the debug event logger.
func WithLogger(l *debuglog.Logger) ModelOption {
	return func(m *Model) { m.log = l }
}

// WithExport sets the export directory and formats. No formats keeps the
// default PDF and XLSX pair.
func WithExport(dir string, exporters ...export.Exporter) ModelOption {
	return func(m *Model) {
		m.exportDir = dir
		if len(exporters) > 0 {
			m.exporters = exporters
		}
	}
}

// WithTitle sets the document title used by exports.
func WithTitle(title string) ModelOption {
	return func(m *Model) { m.title = title }
}

// WithWeekStart anchors calendar exports.
func WithWeekStart(t time.Time) ModelOption {
	return func(m *Model) { m.weekStart = t }
}

// WithFilter sets the initial filter.
func WithFilter(f timetable.Filter) ModelOption {
	return func(m *Model) { m.filter = timetable.NewFilter(f.Instructor, f.Room) }
}

// WithDay sets the initially visible day.
func WithDay(day int) ModelOption {
	return func(m *Model) { m.day = clampDay(day) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) { m.now = now }
}

// New creates a new TUI model for one timetable key.
func New(svc commands.Service, key string, opts ...ModelOption) *Model {
	t, err := theme.Load(theme.DefaultName)
	if err != nil {
		t = &theme.Theme{}
	}

	ti := textinput.New()
	ti.Placeholder = "instructor=..., room=..."
	ti.Prompt = ""
	ti.CharLimit = 256

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		svc:       svc,
		key:       key,
		now:       time.Now,
		exportDir: ".",
		exporters: []export.Exporter{export.PDF{}, export.XLSX{}},
		title:     export.DefaultTitle,
		theme:     t,
		styles:    NewStyles(t),
		filter:    timetable.NewFilter(timetable.All, timetable.All),
		prompt:    ti,
		spinner:   sp,
		loading:   true,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Init loads the cached timetable, if any.
func (m Model) Init() tea.Cmd {
	return tea.Batch(commands.OpenTimetable(m.svc, m.key), m.spinner.Tick)
}

// Run starts the TUI.
func Run(svc commands.Service, key string, opts ...ModelOption) error {
	p := tea.NewProgram(*New(svc, key, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func clampDay(day int) int {
	return min(max(day, 0), slot.Days-1)
}
