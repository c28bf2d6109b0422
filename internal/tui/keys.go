package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/review"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/commands"
	"github.com/javiermolinar/horario/internal/tui/input"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.log.Event("KEY", map[string]any{"key": msg.String(), "mode": int(m.mode)})

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeReview:
		return m.handleReviewKeys(msg)
	case ModeDetail, ModeHelp:
		return m.handleModalKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q":
		return m, tea.Quit

	// Days
	case "tab", "]":
		m.day = (m.day + 1) % slot.Days
		m.clampCursor()
	case "shift+tab", "[":
		m.day = (m.day + slot.Days - 1) % slot.Days
		m.clampCursor()
	case "1", "2", "3", "4", "5":
		m.day = int(key[0] - '1')
		m.clampCursor()

	// Cursor
	case "h", "left":
		m.moveLeft()
	case "l", "right":
		m.moveRight()
	case "k", "up":
		m.moveUp()
	case "j", "down":
		m.moveDown()
	case "H", "home":
		m.col = 0
		m.ensureCursorVisible()
	case "L", "end":
		if m.grid != nil && len(m.grid.Columns) > 0 {
			m.col = len(m.grid.Columns) - 1
			m.ensureCursorVisible()
		}

	// Filters
	case "i", "I":
		if m.result == nil {
			return m, nil
		}
		m.filter.Instructor = cycle(m.result.Instructors(), m.filter.Instructor, key == "i")
		return m.applyFilter(m.filter)
	case "r", "R":
		if m.result == nil {
			return m, nil
		}
		m.filter.Room = cycle(m.result.Rooms(), m.filter.Room, key == "r")
		return m.applyFilter(m.filter)
	case "c":
		return m.applyFilter(timetable.NewFilter(timetable.All, timetable.All))
	case "/":
		m.mode = ModePrompt
		m.prompt.SetValue("")
		if !m.filter.IsAll() {
			m.prompt.SetValue(m.filter.String())
		}
		m.prompt.CursorEnd()
		return m, tea.Batch(m.prompt.Focus(), textinput.Blink)

	// Actions
	case "g":
		return m.regenerate()
	case "e":
		return m.exportCurrent()
	case "enter":
		if _, ok := m.currentCell(); ok {
			m.mode = ModeDetail
		}
	case "s":
		if m.grid == nil {
			return m.setStatus("Nothing to review yet")
		}
		m.report = review.Summarize(m.key, m.grid)
		m.mode = ModeReview
	case "?":
		m.mode = ModeHelp
	}

	return m, nil
}

// handlePromptKeys handles the filter prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil
	case "tab":
		if value, ok := input.FilterAutocomplete(m.prompt.Value(), m.filterChoices()); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		f, err := timetable.ParseFilter(m.prompt.Value())
		if err != nil {
			return m.setError(err)
		}
		m.mode = ModeNormal
		m.prompt.Blur()
		return m.applyFilter(f)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys closes the detail and help modals.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q", "?":
		m.mode = ModeNormal
	}
	return m, nil
}

// handleReviewKeys handles the review modal.
func (m Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if err := clipboard.WriteAll(m.report.Text()); err != nil {
			return m.setError(fmt.Errorf("copy failed: %w", err))
		}
		return m.setStatus("Copied timetable review")
	case "esc", "enter", "q", "s":
		m.mode = ModeNormal
		m.report = nil
	}
	return m, nil
}

// regenerate starts a generation unless one is already in flight.
func (m Model) regenerate() (tea.Model, tea.Cmd) {
	if m.loading {
		return m.setStatus("Generation already in progress")
	}
	m.loading = true
	m.err = nil
	return m, tea.Batch(commands.RegenerateTimetable(m.svc, m.key), m.spinner.Tick)
}

func (m Model) applyFilter(f timetable.Filter) (tea.Model, tea.Cmd) {
	m.filter = timetable.NewFilter(f.Instructor, f.Room)
	m.colOffset = 0
	m.refreshGrid()
	m.log.Event("FILTER_CHANGED", map[string]any{
		"instructor": m.filter.Instructor,
		"room":       m.filter.Room,
	})
	return m, nil
}

func (m Model) exportCurrent() (tea.Model, tea.Cmd) {
	if m.grid == nil {
		return m.setStatus("Nothing to export yet")
	}
	names := make([]string, len(m.exporters))
	for i, e := range m.exporters {
		names[i] = strings.ToUpper(e.Name())
	}
	doc := export.Document{
		Title:       m.title,
		Grid:        m.grid,
		Filter:      m.filter,
		GeneratedAt: m.now(),
		WeekStart:   m.weekStart,
	}
	m.statusMsg = "Exporting " + strings.Join(names, ", ") + "..."
	m.statusError = false
	return m, commands.ExportTimetable(m.exportDir, doc, m.exporters...)
}

func (m Model) filterChoices() input.Choices {
	if m.result == nil {
		return nil
	}
	return input.Choices{
		"instructor": m.result.Instructors(),
		"room":       m.result.Rooms(),
	}
}

// cycle steps through All followed by the choices.
func cycle(choices []string, current string, forward bool) string {
	options := append([]string{timetable.All}, choices...)
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if forward {
		idx = (idx + 1) % len(options)
	} else {
		idx = (idx + len(options) - 1) % len(options)
	}
	return options[idx]
}
