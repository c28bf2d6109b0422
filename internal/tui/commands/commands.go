// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/pipeline"
)

// Service is the part of the view pipeline the TUI drives.
type Service interface {
	Open(ctx context.Context, key string) (*pipeline.Result, error)
	Regenerate(ctx context.Context, key string) (*pipeline.Result, error)
}

// TimetableLoadedMsg is sent when a timetable is available, from the cache
// or a fresh generation.
type TimetableLoadedMsg struct {
	Result *pipeline.Result
}

// NotGeneratedMsg is sent when no cached timetable exists for the key.
type NotGeneratedMsg struct {
	Key string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// GenerateFailedMsg is sent when regeneration fails. The previous grid, if
// any, stays on screen.
type GenerateFailedMsg struct {
	Err error
}

// ExportedMsg is sent when an export finishes. Paths holds the files that
// were written even when some formats failed.
type ExportedMsg struct {
	Paths []string
	Err   error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// OpenTimetable loads the cached timetable for key.
func OpenTimetable(svc Service, key string) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Open(context.Background(), key)
		if errors.Is(err, pipeline.ErrNotGenerated) {
			return NotGeneratedMsg{Key: key}
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return TimetableLoadedMsg{Result: res}
	}
}

// RegenerateTimetable runs the collaborators for key, bypassing the cache.
func RegenerateTimetable(svc Service, key string) tea.Cmd {
	return func() tea.Msg {
		res, err := svc.Regenerate(context.Background(), key)
		if err != nil {
			return GenerateFailedMsg{Err: err}
		}
		return TimetableLoadedMsg{Result: res}
	}
}

// ExportTimetable writes doc into dir once per exporter. A failing format
// does not stop the others.
func ExportTimetable(dir string, doc export.Document, exporters ...export.Exporter) tea.Cmd {
	return func() tea.Msg {
		var paths []string
		var errs []error
		for _, e := range exporters {
			path, err := export.WriteFile(e, dir, doc)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			paths = append(paths, path)
		}
		return ExportedMsg{Paths: paths, Err: errors.Join(errs...)}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
