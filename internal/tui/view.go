package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/tui/input"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// View renders the TUI.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	state := view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalBg:          m.styles.ModalBg,
		EmptyPlaceholder: "Loading...",
	}
	switch m.mode {
	case ModeDetail:
		state.ShowModal = true
		state.ModalContent = m.renderDetailModal()
	case ModeHelp:
		state.ShowModal = true
		state.ModalContent = m.renderHelpModal()
	case ModeReview:
		state.ShowModal = true
		state.ModalContent = m.renderReviewModal()
	}
	return state
}

func (m Model) renderAppContent() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	footerH := m.footerHeight()
	bodyH := m.height - titleLines - footerH
	if bodyH <= 0 {
		return "Terminal too small"
	}

	title := m.renderTitle()
	body := view.PlaceBox(m.width, bodyH, lipgloss.Top, m.renderBody(), m.styles.colorBg)
	footer := view.RenderFooter(m.footerModel(footerH))

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
	return view.PadLinesWithBackground(content, m.width, m.height, m.styles.colorBg)
}

// renderTitle renders the document title and the day tabs.
func (m Model) renderTitle() string {
	title := m.styles.TitleStyle.Render(m.title + m.filter.Title())
	if m.result != nil {
		title += m.styles.SubtitleStyle.Render(fmt.Sprintf("  %s · %s %s",
			m.key, m.result.Source, m.result.GeneratedAt.Format("Jan 2 15:04")))
	} else if m.key != "" {
		title += m.styles.SubtitleStyle.Render("  " + m.key)
	}

	tabs := make([]string, 0, slot.Days)
	for d, name := range slot.DayNames() {
		style := m.styles.DayTabStyle
		if d == m.day {
			style = m.styles.DayTabActive
		}
		tabs = append(tabs, style.Render(name))
	}
	return view.PadLinesWithBackground(title+"\n"+strings.Join(tabs, ""), m.width, titleLines, m.styles.colorBg)
}

// renderBody renders the grid or the message that replaces it.
func (m Model) renderBody() string {
	switch {
	case m.loading && m.result == nil:
		return m.styles.MessageStyle.Render(m.spinner.View() + " Loading timetable...")
	case m.err != nil && m.result == nil:
		return m.styles.ErrorTitleStyle.Render("Timetable Generation Error") + "\n\n" +
			m.styles.ErrorMessageStyle.Render(m.err.Error()) + "\n\n" +
			m.styles.MessageStyle.Render("Check the scheduler and data services, then press g to retry.")
	case m.notGenerated && m.result == nil:
		return m.styles.MessageStyle.Render(fmt.Sprintf("No timetable generated yet for %q. Press g to generate.", m.key))
	case m.grid == nil:
		return ""
	case m.grid.Empty():
		return m.styles.MessageStyle.Render("No sessions match the selected filters. Press c to clear them.")
	}
	return view.RenderGrid(m.gridViewState())
}

// gridViewState clips the consolidated grid to the visible day and columns.
func (m Model) gridViewState() view.GridViewState {
	count, width := m.visibleColumns()
	first, last := m.colOffset, m.colOffset+count-1
	rowLines := m.rowLines()

	state := view.GridViewState{
		TimeWidth:   timeWidth,
		ColWidth:    width,
		RowLines:    rowLines,
		Rows:        slot.PeriodsPerDay,
		Corner:      slot.DayName(m.day),
		HeaderStyle: m.styles.HeaderStyle,
		CornerStyle: m.styles.CornerStyle,
		TimeStyle:   m.styles.TimeStyle,
		BlankStyle:  m.styles.EmptyCellStyle,
	}
	for p := 0; p < slot.PeriodsPerDay; p++ {
		state.TimeLabels = append(state.TimeLabels, slot.PeriodLabel(p))
	}
	for c := first; c <= last; c++ {
		sec := m.grid.Columns[c].Section
		state.Headers = append(state.Headers, []string{sec.SectionID, sec.Header()})
		state.Gutters = append(state.Gutters, m.styles.gutter(m.grid.BoundaryBefore(c)))
	}

	cursor, hasCursor := m.currentCell()
	seen := make(map[[2]int]bool)
	for p := 0; p < slot.PeriodsPerDay; p++ {
		s := slot.Index(m.day, p)
		for c := first; c <= last; c++ {
			cell, _, ok := m.grid.Lookup(s, c)
			if !ok {
				continue
			}
			id := [2]int{cell.Slot, cell.Column}
			if seen[id] {
				continue
			}
			seen[id] = true

			start := max(cell.Column, first)
			end := min(cell.LastColumn(), last)
			selected := hasCursor && cursor.Slot == cell.Slot && cursor.Column == cell.Column
			var style lipgloss.Style
			if cell.Empty() {
				style = m.styles.cellStyle("", selected)
			} else {
				style = m.styles.cellStyle(cell.Session.Type, selected)
			}
			state.Blocks = append(state.Blocks, view.Block{
				Col:     start - first,
				ColSpan: end - start + 1,
				Row:     slot.PeriodOf(cell.Slot),
				RowSpan: cell.RowSpan,
				Lines:   cellLines(cell),
				Style:   style,
			})
		}
	}
	return state
}

// cellLines is the text shown inside a cell, most important first so short
// rows still show the course.
func cellLines(cell grid.Cell) []string {
	if cell.Empty() {
		return nil
	}
	s := cell.Session
	lines := []string{
		" " + s.CourseID + " " + s.Type.Label(),
		" " + s.CourseName,
		" " + s.Instructor(),
		" " + s.RoomID,
	}
	if len(cell.SectionIDs) > 1 {
		lines = append(lines, " "+strings.Join(cell.SectionIDs, ", "))
	}
	return lines
}

func (m Model) footerModel(footerH int) view.FooterModel {
	statusStyle := m.styles.StatusStyle
	if m.statusError {
		statusStyle = m.styles.StatusErrorStyle
	}
	status := m.statusMsg
	if m.loading && m.result != nil {
		status = m.spinner.View() + " Generating timetable..."
	}

	return view.FooterModel{
		InnerW:      m.width,
		FooterH:     footerH,
		DetailText:  m.detailLine(),
		FilterText:  m.filterLine(),
		StatusText:  status,
		HelpText:    m.helpLine(),
		PromptLines: m.promptLines(m.width - 4),
		ShowPrompt:  m.mode == ModePrompt,
		DetailStyle: m.styles.DetailStyle,
		FilterStyle: m.styles.FilterStyle,
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		PromptStyle: m.styles.PromptFocusedStyle,
		VAlign:      lipgloss.Bottom,
		Bg:          m.styles.colorBg,
	}
}

func (m Model) promptLines(width int) []string {
	state := view.PromptState{
		Value:  m.prompt.Value(),
		Cursor: "_",
		Active: m.mode == ModePrompt,
	}
	lines := view.PromptLines(state, width, input.FilterSuggestions(m.prompt.Value(), m.filterChoices()))
	return view.ClampPromptLines(lines, maxPromptLines, width)
}

// detailLine describes the cell under the cursor.
func (m Model) detailLine() string {
	cell, ok := m.currentCell()
	if !ok {
		return ""
	}
	when := slot.DayName(slot.DayOf(cell.Slot)) + " " + slot.SpanLabel(cell.Slot, cell.RowSpan)
	sections := strings.Join(cell.SectionIDs, ", ")
	if cell.Empty() {
		return fmt.Sprintf("%s · free · section %s", when, sections)
	}
	s := cell.Session
	return fmt.Sprintf("%s · %s %s · %s · %s · %s · sections %s",
		when, s.CourseID, s.CourseName, s.Instructor(), s.RoomID, s.Type.Label(), sections)
}

func (m Model) filterLine() string {
	line := "Filter: " + m.filter.String()
	if m.grid != nil {
		line += fmt.Sprintf(" · %d sections", len(m.grid.Columns))
		if n := len(m.grid.Issues); n > 0 {
			line += fmt.Sprintf(" · %d data issues (see debug log)", n)
		}
	}
	return line
}

func (m Model) helpLine() string {
	switch m.mode {
	case ModePrompt:
		return "enter: apply  tab: complete  esc: cancel"
	case ModeReview:
		return "y: copy  esc: close"
	case ModeDetail, ModeHelp:
		return "esc: close"
	}
	if m.result == nil {
		return "g: generate  q: quit"
	}
	return "tab: day  hjkl: move  i/r: instructor/room  /: filter  c: clear  g: regenerate  e: export  s: review  ?: help  q: quit"
}

func (m Model) renderDetailModal() string {
	cell, ok := m.currentCell()
	if !ok {
		return ""
	}
	rows := []view.DetailRow{
		{Label: "When", Value: slot.DayName(slot.DayOf(cell.Slot)) + " " + slot.SpanLabel(cell.Slot, cell.RowSpan)},
	}
	title := "Free period"
	if !cell.Empty() {
		s := cell.Session
		title = s.CourseID + " " + s.CourseName
		rows = append(rows,
			view.DetailRow{Label: "Type", Value: s.Type.Label()},
			view.DetailRow{Label: "Instructor", Value: s.Instructor()},
			view.DetailRow{Label: "Room", Value: s.RoomID},
		)
	}
	for _, id := range cell.SectionIDs {
		for _, col := range m.grid.Columns {
			if col.Section.SectionID == id {
				rows = append(rows, view.DetailRow{Label: "Section " + id, Value: col.Section.Header()})
				break
			}
		}
	}
	body := view.RenderDetailRows(rows, m.styles.Modal)
	return view.RenderModalFrame(title, body, "esc to close", m.styles.Modal)
}

var helpRows = []view.DetailRow{
	{Label: "tab / shift+tab", Value: "next / previous day"},
	{Label: "1-5", Value: "jump to a day"},
	{Label: "h j k l", Value: "move between cells"},
	{Label: "H / L", Value: "first / last section"},
	{Label: "enter", Value: "cell details"},
	{Label: "i / I", Value: "cycle instructor filter"},
	{Label: "r / R", Value: "cycle room filter"},
	{Label: "/", Value: "type a filter (instructor=..., room=...)"},
	{Label: "c", Value: "clear filters"},
	{Label: "g", Value: "regenerate from the scheduler"},
	{Label: "e", Value: "export the current view"},
	{Label: "s", Value: "review the current view (y copies it)"},
	{Label: "q", Value: "quit"},
}

func (m Model) renderHelpModal() string {
	body := view.RenderDetailRows(helpRows, m.styles.Modal)
	return view.RenderModalFrame("Keys", body, "esc to close", m.styles.Modal)
}

func (m Model) renderReviewModal() string {
	if m.report == nil {
		return ""
	}
	body := m.styles.Modal.ModalBodyStyle.Render(strings.Join(m.report.Lines(), "\n"))
	return view.RenderModalFrame("Timetable Review", body, "y copy · esc close", m.styles.Modal)
}
