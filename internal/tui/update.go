package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/pipeline"
	"github.com/javiermolinar/horario/internal/tui/commands"
)

const (
	statusDuration = 3 * time.Second
	errorDuration  = 5 * time.Second
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case commands.TimetableLoadedMsg:
		m.loading = false
		m.err = nil
		m.notGenerated = false
		m.result = msg.Result
		m.refreshGrid()
		m.log.Event("TUI_LOADED", map[string]any{
			"timetable": msg.Result.TimetableKey,
			"source":    string(msg.Result.Source),
			"sections":  len(msg.Result.Sections),
		})
		if msg.Result.Source == pipeline.SourceScheduler {
			return m.setStatus(fmt.Sprintf("Generated %d sections", len(msg.Result.Sections)))
		}
		return m, nil

	case commands.NotGeneratedMsg:
		m.loading = false
		m.notGenerated = true
		return m, nil

	case commands.GenerateFailedMsg:
		m.loading = false
		m.err = msg.Err
		if m.result != nil {
			// The previous timetable stays usable.
			return m.setError(msg.Err)
		}
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		m.err = msg.Err
		return m.setError(msg.Err)

	case commands.ExportedMsg:
		for _, p := range msg.Paths {
			m.log.Event("TUI_EXPORTED", map[string]any{"path": p})
		}
		if msg.Err != nil {
			m.log.Error("TUI_EXPORT_FAILED", msg.Err, nil)
			return m.setError(msg.Err)
		}
		return m.setStatus("Exported " + strings.Join(msg.Paths, ", "))

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusError = false
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) setStatus(text string) (tea.Model, tea.Cmd) {
	m.statusMsg = text
	m.statusError = false
	m.statusTime = m.now().Add(statusDuration)
	return m, commands.ClearStatusAfter(statusDuration)
}

func (m Model) setError(err error) (tea.Model, tea.Cmd) {
	m.statusMsg = "Error: " + err.Error()
	m.statusError = true
	m.statusTime = m.now().Add(errorDuration)
	return m, commands.ClearStatusAfter(errorDuration)
}

// refreshGrid re-runs the view pipeline for the current filter and keeps
// the cursor on the grid.
func (m *Model) refreshGrid() {
	if m.result == nil {
		m.grid = nil
		return
	}
	m.grid = m.result.View(m.filter)
	m.clampCursor()
	m.ensureCursorVisible()
}
