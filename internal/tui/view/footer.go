package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	InnerW      int
	FooterH     int
	DetailText  string
	FilterText  string
	StatusText  string
	HelpText    string
	PromptLines []string
	ShowPrompt  bool
	DetailStyle lipgloss.Style
	FilterStyle lipgloss.Style
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style
	VAlign      lipgloss.Position
	Bg          lipgloss.Color
}

// RenderFooter renders the detail, filter, prompt, status and help lines.
// The detail and filter lines are dropped first when there is no room.
func RenderFooter(model FooterModel) string {
	if model.FooterH <= 0 {
		return ""
	}

	var lines []string
	if model.ShowPrompt {
		lines = append(lines, RenderPrompt(model.InnerW, model.PromptStyle, model.PromptLines))
	}
	lines = append(lines,
		footerLine(model.InnerW, model.StatusStyle, model.StatusText),
		footerLine(model.InnerW, model.HelpStyle, model.HelpText),
	)
	optional := []string{
		footerLine(model.InnerW, model.DetailStyle, model.DetailText),
		footerLine(model.InnerW, model.FilterStyle, model.FilterText),
	}
	for i := len(optional) - 1; i >= 0; i-- {
		if countLines(lines)+1 > model.FooterH {
			break
		}
		lines = append([]string{optional[i]}, lines...)
	}

	return PlaceBox(model.InnerW, model.FooterH, model.VAlign, strings.Join(lines, "\n"), model.Bg)
}

func countLines(lines []string) int {
	n := 0
	for _, l := range lines {
		n += strings.Count(l, "\n") + 1
	}
	return n
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(width-frameW, 0)
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}
