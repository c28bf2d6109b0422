package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Block is one consolidated cell clipped to the visible columns. Col and
// Row are positions in the visible window.
type Block struct {
	Col, ColSpan int
	Row, RowSpan int
	Lines        []string
	Style        lipgloss.Style
}

// Gutter is the one-column rule drawn to the left of a visible column.
type Gutter struct {
	Glyph string
	Style lipgloss.Style
}

// GridViewState holds everything needed to draw one day of the grid.
type GridViewState struct {
	TimeWidth  int
	ColWidth   int
	RowLines   int
	Rows       int
	Corner     string
	Headers    [][]string
	TimeLabels []string
	Blocks     []Block
	Gutters    []Gutter

	HeaderStyle lipgloss.Style
	CornerStyle lipgloss.Style
	TimeStyle   lipgloss.Style
	BlankStyle  lipgloss.Style
}

// HeaderLines is the number of lines the header row takes.
func (s GridViewState) HeaderLines() int {
	n := 1
	for _, h := range s.Headers {
		n = max(n, len(h))
	}
	return n
}

// Width is the rendered width of the grid.
func (s GridViewState) Width() int {
	return s.TimeWidth + len(s.Headers)*(s.ColWidth+1)
}

// RenderGrid draws the header row, the time column and every block. A block
// spanning several columns also covers the gutters between them, so merged
// cells read as one box.
func RenderGrid(state GridViewState) string {
	cols := len(state.Headers)
	rowLines := max(state.RowLines, 1)

	cover := make([][]int, state.Rows)
	for r := range cover {
		cover[r] = make([]int, cols)
		for c := range cover[r] {
			cover[r][c] = -1
		}
	}
	for i, b := range state.Blocks {
		for r := b.Row; r < b.Row+b.RowSpan && r < state.Rows; r++ {
			for c := b.Col; c < b.Col+b.ColSpan && c < cols; c++ {
				if r >= 0 && c >= 0 {
					cover[r][c] = i
				}
			}
		}
	}

	var lines []string

	headerLines := state.HeaderLines()
	for k := 0; k < headerLines; k++ {
		var b strings.Builder
		corner := ""
		if k == 0 {
			corner = state.Corner
		}
		b.WriteString(state.CornerStyle.Render(Fit(corner, state.TimeWidth)))
		for c, header := range state.Headers {
			b.WriteString(state.gutter(c))
			text := ""
			if k < len(header) {
				text = header[k]
			}
			b.WriteString(state.HeaderStyle.Render(Fit(text, state.ColWidth)))
		}
		lines = append(lines, b.String())
	}

	for r := 0; r < state.Rows; r++ {
		for k := 0; k < rowLines; k++ {
			var b strings.Builder
			label := ""
			if k == 0 && r < len(state.TimeLabels) {
				label = state.TimeLabels[r]
			}
			b.WriteString(state.TimeStyle.Render(Fit(label, state.TimeWidth)))

			for c := 0; c < cols; {
				b.WriteString(state.gutter(c))
				idx := cover[r][c]
				if idx < 0 {
					b.WriteString(state.BlankStyle.Render(Fit("", state.ColWidth)))
					c++
					continue
				}
				block := state.Blocks[idx]
				span := min(block.Col+block.ColSpan, cols) - c
				width := span*state.ColWidth + (span - 1)
				line := (r-block.Row)*rowLines + k
				text := ""
				if line < len(block.Lines) {
					text = block.Lines[line]
				}
				b.WriteString(block.Style.Render(Fit(text, width)))
				c += span
			}
			lines = append(lines, b.String())
		}
	}

	return strings.Join(lines, "\n")
}

func (s GridViewState) gutter(c int) string {
	if c < len(s.Gutters) {
		g := s.Gutters[c]
		return g.Style.Render(g.Glyph)
	}
	return " "
}
