package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/review"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

// PrintOpts configures grid printing.
type PrintOpts struct {
	Verbose      bool // Show course names
	MaxNameWidth int  // Maximum course name width (0 = auto)
}

// CalcMaxNameWidth calculates the course name width based on options.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// Base: "  9:00 - 10:30  CS101    LEC  " = ~32 chars, plus instructor and room
	available := termWidth() - 32 - 24 - 10
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintDay prints the consolidated cells starting on one day, one line per cell.
func PrintDay(w io.Writer, g *grid.Grid, day int, opts PrintOpts) {
	fmt.Fprintf(w, "  %s\n", formatHeader(slot.DayName(day)))

	nameWidth := opts.CalcMaxNameWidth(24)
	printed := 0
	for p := 0; p < slot.PeriodsPerDay; p++ {
		for _, cell := range g.Row(slot.Index(day, p)) {
			if cell.Empty() {
				continue
			}
			PrintCellRow(w, g, cell, nameWidth, opts.Verbose)
			printed++
		}
	}
	if printed == 0 {
		fmt.Fprintf(w, "    %s\n", formatMuted("no sessions"))
	}
}

// PrintCellRow prints a single consolidated cell.
func PrintCellRow(w io.Writer, g *grid.Grid, cell grid.Cell, nameWidth int, verbose bool) {
	s := cell.Session
	span := runewidth.FillRight(slot.SpanLabel(cell.Slot, cell.RowSpan), 14)
	label := formatSessionType(s.Type, fmt.Sprintf("%-8s %s", s.CourseID, s.Type.Label()))

	var name string
	if verbose {
		name = "  " + runewidth.FillRight(runewidth.Truncate(s.CourseName, nameWidth, "..."), nameWidth)
	}

	who := runewidth.FillRight(runewidth.Truncate(s.Instructor(), 22, "..."), 22)
	room := runewidth.FillRight(s.RoomID, 8)

	fmt.Fprintf(w, "    %s  %s%s  %s  %s  %s\n",
		span, label, name, who, room, formatMuted(sectionsLabel(g, cell)))
}

// sectionsLabel lists the sections a cell covers: "A" or "A, B, C".
func sectionsLabel(g *grid.Grid, cell grid.Cell) string {
	ids := cell.SectionIDs
	if len(ids) == 0 {
		for c := cell.Column; c <= cell.LastColumn() && c < len(g.Columns); c++ {
			ids = append(ids, g.Columns[c].Section.SectionID)
		}
	}
	return strings.Join(ids, ", ")
}

// PrintSummary prints the section and cell totals under a grid.
func PrintSummary(w io.Writer, g *grid.Grid) {
	cells := g.SessionCells()
	shared := 0
	for _, c := range cells {
		if c.ColSpan > 1 {
			shared++
		}
	}
	fmt.Fprintf(w, "%s | %s | Shared: %s\n",
		fmt.Sprintf("Sections: %d", len(g.Columns)),
		fmt.Sprintf("Cells: %d", len(cells)),
		formatStats(fmt.Sprint(shared)))
	PrintIssues(w, g)
}

// PrintIssues prints data issues found while consolidating.
func PrintIssues(w io.Writer, g *grid.Grid) {
	if len(g.Issues) == 0 {
		return
	}
	fmt.Fprintln(w, formatWarn(fmt.Sprintf("Data issues (%d):", len(g.Issues))))
	for _, issue := range g.Issues {
		fmt.Fprintf(w, "  %s\n", formatWarn(issue.Message()))
	}
}

// PrintReport prints a timetable review.
func PrintReport(w io.Writer, r *review.Report) {
	rule := strings.Repeat("─", 74)

	fmt.Fprintf(w, "\n  %s\n", formatHeader("REVIEW: "+r.Timetable))
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Sections: %d  |  Sessions: %d  |  Cells: %d  |  Shared: %s\n",
		r.Sections, r.Sessions, r.Cells,
		formatStats(fmt.Sprintf("%d (%d%%)", r.SharedCells, r.SharedPercent())))
	fmt.Fprintf(w, "  %s  |  %s  |  %s\n",
		formatSessionType(timetable.SessionLecture, fmt.Sprintf("Lectures: %d", r.TypeCount(timetable.SessionLecture))),
		formatSessionType(timetable.SessionLab, fmt.Sprintf("Labs: %d", r.TypeCount(timetable.SessionLab))),
		formatSessionType(timetable.SessionTutorial, fmt.Sprintf("Tutorials: %d", r.TypeCount(timetable.SessionTutorial))))

	fmt.Fprintf(w, "\n  %s\n", formatHeader("Days"))
	for _, d := range r.Days {
		fmt.Fprintf(w, "    %-10s %s %d/%d busy, %d sessions\n",
			d.Day, LoadBar(d.BusyPeriods, slot.PeriodsPerDay, slot.PeriodsPerDay), d.BusyPeriods, slot.PeriodsPerDay, d.Sessions)
	}

	printLoads(w, "Instructors", r.Instructors)
	printLoads(w, "Rooms", r.Rooms)

	if len(r.Issues) > 0 {
		fmt.Fprintf(w, "\n  %s\n", formatWarn(fmt.Sprintf("Data issues (%d)", len(r.Issues))))
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "    %s\n", issue)
		}
	}
	fmt.Fprintln(w, rule)

	if r.Insight != "" {
		fmt.Fprintf(w, "\n  %s\n", formatHeader("INSIGHT"))
		fmt.Fprintln(w, rule)
		PrintInsightWrapped(w, r.Insight, 72)
	}
}

func printLoads(w io.Writer, title string, loads []review.Load) {
	fmt.Fprintf(w, "\n  %s\n", formatHeader(title))
	if len(loads) == 0 {
		fmt.Fprintf(w, "    %s\n", formatMuted("none"))
		return
	}
	for _, l := range loads {
		fmt.Fprintf(w, "    %s %2d periods\n", runewidth.FillRight(runewidth.Truncate(l.Name, 24, "..."), 24), l.Periods)
	}
}

// LoadBar draws an ASCII bar of n out of total, width characters wide.
func LoadBar(n, total, width int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", width) + "]"
	}
	filled := min(max(n*width/total, 0), width)
	return "[" + formatStats(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled) + "]"
}

// PrintInsightWrapped formats and prints insight text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	// Strip markdown code blocks
	text = stripMarkdownCodeBlocks(text)

	lines := strings.Split(text, "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		prefix, content, contentWidth, header := parseInsightLine(trimmed, width)
		if header {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth)
	}
}

// parseInsightLine parses a line and returns formatting info.
// Returns: prefix, content, contentWidth, isHeader
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := ""
	continuation := strings.Repeat(" ", runewidth.StringWidth(prefix))
	first := true

	for _, word := range words {
		switch {
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			printLine(w, prefix, continuation, line, first)
			first = false
			line = word
		}
	}

	if line != "" {
		printLine(w, prefix, continuation, line, first)
	}
}

func printLine(w io.Writer, prefix, continuation, line string, first bool) {
	if first {
		fmt.Fprintln(w, formatInsight(prefix+line))
	} else {
		fmt.Fprintln(w, formatInsight(continuation+line))
	}
}

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
