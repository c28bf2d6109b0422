package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/timetable"
	"github.com/javiermolinar/horario/internal/tui/theme"
	"github.com/javiermolinar/horario/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg lipgloss.Color

	AppStyle      lipgloss.Style
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	DayTabStyle   lipgloss.Style
	DayTabActive  lipgloss.Style

	// Grid
	HeaderStyle    lipgloss.Style
	CornerStyle    lipgloss.Style
	TimeStyle      lipgloss.Style
	EmptyCellStyle lipgloss.Style
	EmptyCursor    lipgloss.Style
	LectureStyle   lipgloss.Style
	LabStyle       lipgloss.Style
	TutorialStyle  lipgloss.Style
	LectureCursor  lipgloss.Style
	LabCursor      lipgloss.Style
	TutorialCursor lipgloss.Style
	GutterStyle    lipgloss.Style
	GroupRuleStyle lipgloss.Style
	YearRuleStyle  lipgloss.Style

	// Messages in the grid area
	MessageStyle      lipgloss.Style
	ErrorTitleStyle   lipgloss.Style
	ErrorMessageStyle lipgloss.Style

	// Footer
	DetailStyle        lipgloss.Style
	FilterStyle        lipgloss.Style
	StatusStyle        lipgloss.Style
	StatusErrorStyle   lipgloss.Style
	HelpStyle          lipgloss.Style
	PromptFocusedStyle lipgloss.Style

	// Modal
	Modal   view.ModalStyles
	ModalBg lipgloss.Color
}

// NewStyles creates a Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p, colorBg: p.Bg}

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.AppStyle = base
	s.TitleStyle = base.Foreground(p.Accent).Bold(true)
	s.SubtitleStyle = base.Foreground(p.FgMuted)
	s.DayTabStyle = base.Foreground(p.FgMuted).Padding(0, 1)
	s.DayTabActive = lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true).Padding(0, 1)

	s.HeaderStyle = lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.Fg).Bold(true)
	s.CornerStyle = lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.Accent).Bold(true)
	s.TimeStyle = base.Foreground(p.FgMuted)
	s.EmptyCellStyle = base
	s.EmptyCursor = lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.Fg)
	s.LectureStyle = lipgloss.NewStyle().Background(p.LectureBg).Foreground(p.TextOnLecture)
	s.LabStyle = lipgloss.NewStyle().Background(p.LabBg).Foreground(p.TextOnLab)
	s.TutorialStyle = lipgloss.NewStyle().Background(p.TutorialBg).Foreground(p.TextOnTutorial)
	s.LectureCursor = s.LectureStyle.Background(p.LectureBgAlt).Bold(true)
	s.LabCursor = s.LabStyle.Background(p.LabBgAlt).Bold(true)
	s.TutorialCursor = s.TutorialStyle.Background(p.TutorialBgAlt).Bold(true)
	s.GutterStyle = base.Foreground(p.BgSelection)
	s.GroupRuleStyle = base.Foreground(p.GroupRule)
	s.YearRuleStyle = base.Foreground(p.YearRule).Bold(true)

	s.MessageStyle = base.Foreground(p.FgMuted)
	s.ErrorTitleStyle = base.Foreground(p.Warning).Bold(true)
	s.ErrorMessageStyle = base

	s.DetailStyle = base
	s.FilterStyle = base.Foreground(p.Accent)
	s.StatusStyle = base.Foreground(p.FgMuted)
	s.StatusErrorStyle = base.Foreground(p.Warning)
	s.HelpStyle = base.Foreground(p.FgMuted)
	s.PromptFocusedStyle = base.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		BorderBackground(p.Bg).
		Padding(0, 1)

	s.ModalBg = p.BgHighlight
	modalBase := lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.Fg)
	s.Modal = view.ModalStyles{
		ModalStyle: modalBase.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			BorderBackground(p.BgHighlight).
			Padding(1, 2),
		ModalHeaderStyle: modalBase,
		ModalTitleStyle:  modalBase.Foreground(p.Accent).Bold(true),
		ModalBodyStyle:   modalBase,
		ModalLabelStyle:  modalBase.Foreground(p.FgMuted),
		ModalFooterStyle: modalBase.Foreground(p.FgMuted),
	}

	return s
}

// cellStyle returns the style for a session type, or for an empty cell.
func (s *Styles) cellStyle(t timetable.SessionType, selected bool) lipgloss.Style {
	switch t {
	case timetable.SessionLecture:
		if selected {
			return s.LectureCursor
		}
		return s.LectureStyle
	case timetable.SessionLab:
		if selected {
			return s.LabCursor
		}
		return s.LabStyle
	case timetable.SessionTutorial:
		if selected {
			return s.TutorialCursor
		}
		return s.TutorialStyle
	default:
		if selected {
			return s.EmptyCursor
		}
		return s.EmptyCellStyle
	}
}

// gutter returns the rule drawn before a column. Year boundaries take the
// heaviest glyph.
func (s *Styles) gutter(kind grid.BoundaryKind) view.Gutter {
	switch kind {
	case grid.BoundaryYear:
		return view.Gutter{Glyph: "║", Style: s.YearRuleStyle}
	case grid.BoundaryGroup:
		return view.Gutter{Glyph: "┃", Style: s.GroupRuleStyle}
	default:
		return view.Gutter{Glyph: "│", Style: s.GutterStyle}
	}
}
