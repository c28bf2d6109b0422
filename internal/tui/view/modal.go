package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames.
type ModalStyles struct {
	ModalStyle       lipgloss.Style
	ModalHeaderStyle lipgloss.Style
	ModalTitleStyle  lipgloss.Style
	ModalBodyStyle   lipgloss.Style
	ModalLabelStyle  lipgloss.Style
	ModalFooterStyle lipgloss.Style
}

// DetailRow is one "label value" line of a modal body.
type DetailRow struct {
	Label string
	Value string
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	header := styles.ModalHeaderStyle.Render(styles.ModalTitleStyle.Render(title))
	b.WriteString(header)
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ModalFooterStyle.Render(footer))
	}

	return styles.ModalStyle.Render(b.String())
}

// RenderDetailRows aligns labels in one column.
func RenderDetailRows(rows []DetailRow, styles ModalStyles) string {
	labelW := 0
	for _, r := range rows {
		labelW = max(labelW, lipgloss.Width(r.Label))
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		label := styles.ModalLabelStyle.Render(Fit(r.Label, labelW))
		lines = append(lines, label+styles.ModalBodyStyle.Render("  "+r.Value))
	}
	return strings.Join(lines, "\n")
}
