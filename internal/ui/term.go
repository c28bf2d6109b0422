package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/horario/internal/timetable"
)

// Color definitions for consistent styling across the CLI.
var (
	// Lectures: bold blue, the dominant session type
	colorLecture = color.New(color.FgBlue, color.Bold)

	// Labs: yellow, matching the amber used in exports
	colorLab = color.New(color.FgYellow)

	// Tutorials: green
	colorTutorial = color.New(color.FgGreen)

	// Insight: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Errors and data issues
	colorWarn = color.New(color.FgRed)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatSessionType colors a session label by its type.
func formatSessionType(t timetable.SessionType, s string) string {
	switch t {
	case timetable.SessionLab:
		return colorLab.Sprint(s)
	case timetable.SessionTutorial:
		return colorTutorial.Sprint(s)
	default:
		return colorLecture.Sprint(s)
	}
}

// formatInsight formats text for insight output.
func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
