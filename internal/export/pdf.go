package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/slot"
)

// PDF page geometry in millimetres (A4 landscape).
const (
	pdfMargin     = 14.0
	pdfTableTop   = 40.0
	pdfTimeWidth  = 25.0
	pdfHeaderH    = 12.0
	pdfFooterRoom = 18.0
	pdfPadding    = 1.5
)

// PDF is the paginated exporter: one A4 landscape page per day. Merged
// cells are drawn as single rectangles spanning their rows and columns.
type PDF struct{}

func (PDF) Name() string        { return "pdf" }
func (PDF) Extension() string   { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

// Export writes the document.
func (p PDF) Export(w io.Writer, doc Document) error {
	pdf := p.build(doc)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("building pdf: %w", err)
	}
	return pdf.Output(w)
}

func (PDF) build(doc Document) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(doc.FullTitle(), true)
	pdf.SetCreator("horario", true)

	d := &pdfDrawer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), grid: doc.Grid}
	for day := 0; day < slot.Days; day++ {
		pdf.AddPage()
		if day == 0 {
			d.title(doc)
		}
		d.dayTable(day)
		d.footer(day)
	}
	return pdf
}

type pdfDrawer struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	grid *grid.Grid
}

func (d *pdfDrawer) setFill(hex string) {
	c := hexColor(hex)
	d.pdf.SetFillColor(c.r, c.g, c.b)
}

func (d *pdfDrawer) setText(hex string) {
	c := hexColor(hex)
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *pdfDrawer) setDraw(hex string) {
	c := hexColor(hex)
	d.pdf.SetDrawColor(c.r, c.g, c.b)
}

func (d *pdfDrawer) title(doc Document) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.setText(colorTitle)
	d.pdf.Text(pdfMargin, 15, d.tr(doc.FullTitle()))

	d.pdf.SetFont("Helvetica", "", 9)
	d.setText(colorMuted)
	d.pdf.Text(pdfMargin, 22, d.tr(doc.GeneratedLabel()))
}

func (d *pdfDrawer) geometry() (colW, rowH float64) {
	pageW, pageH := d.pdf.GetPageSize()
	cols := len(d.grid.Columns)
	if cols == 0 {
		cols = 1
	}
	colW = (pageW - 2*pdfMargin - pdfTimeWidth) / float64(cols)
	rowH = (pageH - pdfTableTop - pdfHeaderH - pdfFooterRoom) / slot.PeriodsPerDay
	return colW, rowH
}

func (d *pdfDrawer) dayTable(day int) {
	d.pdf.SetFont("Helvetica", "B", 14)
	d.setText(colorTitle)
	d.pdf.Text(pdfMargin, 35, slot.DayName(day))

	colW, rowH := d.geometry()
	left := pdfMargin
	bodyTop := pdfTableTop + pdfHeaderH

	d.pdf.SetLineWidth(0.2)
	d.setDraw(colorBorder)

	// Header row.
	d.setFill(colorHeaderFill)
	d.pdf.Rect(left, pdfTableTop, pdfTimeWidth, pdfHeaderH, "FD")
	d.pdf.SetFont("Helvetica", "B", 9)
	d.setText(colorHeaderText)
	d.lines(left, pdfTableTop, pdfTimeWidth, pdfHeaderH, []string{"Time"}, true)
	for c, col := range d.grid.Columns {
		x := left + pdfTimeWidth + float64(c)*colW
		d.pdf.Rect(x, pdfTableTop, colW, pdfHeaderH, "FD")
		d.lines(x, pdfTableTop, colW, pdfHeaderH, []string{col.Section.SectionID, col.Section.Header()}, true)
	}

	// Time column.
	d.pdf.SetFont("Helvetica", "B", 8)
	for p := 0; p < slot.PeriodsPerDay; p++ {
		y := bodyTop + float64(p)*rowH
		d.setFill(colorTimeFill)
		d.setText(colorTimeText)
		d.pdf.Rect(left, y, pdfTimeWidth, rowH, "FD")
		d.lines(left, y, pdfTimeWidth, rowH, []string{slot.PeriodLabel(p)}, true)
	}

	// Cells, top-left first.
	for p := 0; p < slot.PeriodsPerDay; p++ {
		for _, cell := range d.grid.Row(slot.Index(day, p)) {
			x := left + pdfTimeWidth + float64(cell.Column)*colW
			y := bodyTop + float64(p)*rowH
			w := float64(cell.ColSpan) * colW
			h := float64(cell.RowSpan) * rowH
			if cell.Empty() {
				d.setFill("FFFFFF")
				d.pdf.Rect(x, y, w, h, "FD")
				continue
			}
			fill, text := typeColors(cell.Session.Type)
			d.setFill(fill)
			d.setText(text)
			d.pdf.Rect(x, y, w, h, "FD")
			d.pdf.SetFont("Helvetica", "", 8)
			d.lines(x, y, w, h, sessionLines(cell.Session), false)
		}
	}

	// Separators over the grid lines. A rule stops where a merged cell
	// crosses the boundary, so the cell stays one box.
	for _, b := range d.grid.Boundaries {
		x := left + pdfTimeWidth + float64(b.Column)*colW
		switch b.Kind {
		case grid.BoundaryYear:
			d.setDraw(colorYearRule)
			d.pdf.SetLineWidth(0.9)
		case grid.BoundaryGroup:
			d.setDraw(colorGroupRule)
			d.pdf.SetLineWidth(0.5)
		default:
			continue
		}
		top := pdfTableTop
		for p := 0; p <= slot.PeriodsPerDay; p++ {
			y := bodyTop + float64(p)*rowH
			if p < slot.PeriodsPerDay && !d.straddles(slot.Index(day, p), b.Column) {
				continue
			}
			if y > top {
				d.pdf.Line(x, top, x, y)
			}
			top = y + rowH
		}
	}
	d.pdf.SetLineWidth(0.2)
	d.setDraw(colorBorder)
}

// straddles reports whether a cell spanning the slot covers both sides of
// the boundary before column.
func (d *pdfDrawer) straddles(slotIndex, column int) bool {
	cell, _, ok := d.grid.Lookup(slotIndex, column)
	return ok && cell.Column < column
}

// lines writes text lines inside a box, truncating each to the box width.
func (d *pdfDrawer) lines(x, y, w, h float64, text []string, center bool) {
	_, fontSize := d.pdf.GetFontSize()
	lineH := fontSize * 1.15
	maxLines := int((h - 2*pdfPadding) / lineH)
	if maxLines < 1 {
		maxLines = 1
	}
	if len(text) > maxLines {
		text = text[:maxLines]
	}

	startY := y + pdfPadding + lineH*0.8
	if center {
		startY = y + (h-float64(len(text))*lineH)/2 + lineH*0.8
	}
	for i, line := range text {
		s := d.fit(d.tr(line), w-2*pdfPadding)
		lx := x + pdfPadding
		if center {
			lx = x + (w-d.pdf.GetStringWidth(s))/2
		}
		d.pdf.Text(lx, startY+float64(i)*lineH, s)
	}
}

func (d *pdfDrawer) fit(s string, width float64) string {
	if d.pdf.GetStringWidth(s) <= width {
		return s
	}
	// s is already translated to the single-byte font encoding.
	for n := len(s) - 1; n >= 0; n-- {
		candidate := s[:n] + "..."
		if d.pdf.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}

func (d *pdfDrawer) footer(day int) {
	pageW, pageH := d.pdf.GetPageSize()
	d.pdf.SetFont("Helvetica", "", 8)
	d.setText(colorMuted)
	text := fmt.Sprintf("Page %d of %d", day+1, slot.Days)
	d.pdf.Text(pageW-pdfMargin-d.pdf.GetStringWidth(text), pageH-10, text)
}
