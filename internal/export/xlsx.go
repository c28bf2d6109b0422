package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Workbook layout, 1-based rows.
const (
	xlsxTitleRow  = 1
	xlsxStampRow  = 2
	xlsxHeaderRow = 3
	xlsxFirstRow  = 4
)

// XLSX is the spreadsheet exporter: one sheet per day with merge ranges that
// match the consolidated cells exactly.
type XLSX struct{}

func (XLSX) Name() string      { return "xlsx" }
func (XLSX) Extension() string { return "xlsx" }
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Export writes the workbook.
func (XLSX) Export(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	b := &xlsxBuilder{f: f, doc: doc, styles: make(map[string]int)}
	for day := 0; day < slot.Days; day++ {
		name := slot.DayName(day)
		if day == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
		if err := b.sheet(name, day); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

type xlsxBuilder struct {
	f      *excelize.File
	doc    Document
	styles map[string]int
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// XLSXHeader is the header text for a section column.
func XLSXHeader(sec timetable.SectionSchedule) string {
	if sec.Year > 0 {
		return fmt.Sprintf("%s - %s (Year %d)", sec.SectionID, sec.GroupID, sec.Year)
	}
	return fmt.Sprintf("%s - %s", sec.SectionID, sec.GroupID)
}

// XLSXCellText is the text of a session cell.
func XLSXCellText(s *timetable.Session) string {
	return fmt.Sprintf("%s - %s\nInstructor: %s\nRoom: %s\nType: %s",
		s.CourseID, s.CourseName, s.Instructor(), s.RoomID, s.Type.Label())
}

func (b *xlsxBuilder) sheet(name string, day int) error {
	g := b.doc.Grid
	lastCol := len(g.Columns) + 1

	// Title and timestamp.
	title := slot.DayName(day) + b.doc.Filter.Title()
	if err := b.f.SetCellValue(name, cellName(1, xlsxTitleRow), title); err != nil {
		return err
	}
	if err := b.f.SetCellValue(name, cellName(1, xlsxStampRow), b.doc.GeneratedLabel()); err != nil {
		return err
	}
	if lastCol > 1 {
		if err := b.f.MergeCell(name, cellName(1, xlsxTitleRow), cellName(lastCol, xlsxTitleRow)); err != nil {
			return err
		}
		if err := b.f.MergeCell(name, cellName(1, xlsxStampRow), cellName(lastCol, xlsxStampRow)); err != nil {
			return err
		}
	}
	if err := b.apply(name, 1, xlsxTitleRow, lastCol, xlsxTitleRow, "title", xlsxTitleStyle); err != nil {
		return err
	}
	if err := b.apply(name, 1, xlsxStampRow, lastCol, xlsxStampRow, "stamp", xlsxStampStyle); err != nil {
		return err
	}

	// Header row.
	if err := b.f.SetCellValue(name, cellName(1, xlsxHeaderRow), "Time"); err != nil {
		return err
	}
	if err := b.apply(name, 1, xlsxHeaderRow, 1, xlsxHeaderRow, "header", b.headerStyle(grid.BoundaryNone)); err != nil {
		return err
	}
	for c, col := range g.Columns {
		x := c + 2
		if err := b.f.SetCellValue(name, cellName(x, xlsxHeaderRow), XLSXHeader(col.Section)); err != nil {
			return err
		}
		kind := g.BoundaryBefore(c)
		if err := b.apply(name, x, xlsxHeaderRow, x, xlsxHeaderRow, "header-"+kind.String(), b.headerStyle(kind)); err != nil {
			return err
		}
	}

	// Time column.
	for p := 0; p < slot.PeriodsPerDay; p++ {
		row := xlsxFirstRow + p
		if err := b.f.SetCellValue(name, cellName(1, row), slot.PeriodLabel(p)); err != nil {
			return err
		}
		if err := b.apply(name, 1, row, 1, row, "time", xlsxTimeStyle); err != nil {
			return err
		}
	}

	// Consolidated cells.
	for p := 0; p < slot.PeriodsPerDay; p++ {
		for _, cell := range g.Row(slot.Index(day, p)) {
			x1 := cell.Column + 2
			y1 := xlsxFirstRow + p
			x2 := x1 + cell.ColSpan - 1
			y2 := y1 + cell.RowSpan - 1
			if x2 > x1 || y2 > y1 {
				if err := b.f.MergeCell(name, cellName(x1, y1), cellName(x2, y2)); err != nil {
					return err
				}
			}

			var st timetable.SessionType
			if !cell.Empty() {
				st = cell.Session.Type
				if err := b.f.SetCellValue(name, cellName(x1, y1), XLSXCellText(cell.Session)); err != nil {
					return err
				}
			}
			kind := g.BoundaryBefore(cell.Column)
			key := fmt.Sprintf("body-%s-%s", st, kind)
			if err := b.apply(name, x1, y1, x2, y2, key, b.bodyStyle(st, kind)); err != nil {
				return err
			}
		}
	}

	return b.layout(name, lastCol)
}

func (b *xlsxBuilder) layout(name string, lastCol int) error {
	if err := b.f.SetColWidth(name, "A", "A", 18); err != nil {
		return err
	}
	if lastCol > 1 {
		first, _ := excelize.ColumnNumberToName(2)
		last, _ := excelize.ColumnNumberToName(lastCol)
		if err := b.f.SetColWidth(name, first, last, 35); err != nil {
			return err
		}
	}
	heights := map[int]float64{xlsxTitleRow: 25, xlsxStampRow: 16, xlsxHeaderRow: 35}
	for p := 0; p < slot.PeriodsPerDay; p++ {
		heights[xlsxFirstRow+p] = 60
	}
	for row, h := range heights {
		if err := b.f.SetRowHeight(name, row, h); err != nil {
			return err
		}
	}
	return nil
}

// apply styles a range, creating the style once per key.
func (b *xlsxBuilder) apply(sheet string, x1, y1, x2, y2 int, key string, style *excelize.Style) error {
	id, ok := b.styles[key]
	if !ok {
		var err error
		id, err = b.f.NewStyle(style)
		if err != nil {
			return fmt.Errorf("creating style %s: %w", key, err)
		}
		b.styles[key] = id
	}
	return b.f.SetCellStyle(sheet, cellName(x1, y1), cellName(x2, y2), id)
}

func borders(left grid.BoundaryKind) []excelize.Border {
	leftBorder := excelize.Border{Type: "left", Color: colorBorder, Style: 1}
	switch left {
	case grid.BoundaryGroup:
		leftBorder = excelize.Border{Type: "left", Color: colorGroupRule, Style: 2}
	case grid.BoundaryYear:
		leftBorder = excelize.Border{Type: "left", Color: colorYearRule, Style: 5}
	}
	return []excelize.Border{
		leftBorder,
		{Type: "right", Color: colorBorder, Style: 1},
		{Type: "top", Color: colorBorder, Style: 1},
		{Type: "bottom", Color: colorBorder, Style: 1},
	}
}

var (
	xlsxTitleStyle = &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: colorTitle},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
	xlsxStampStyle = &excelize.Style{
		Font:      &excelize.Font{Size: 9, Color: colorMuted},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
	xlsxTimeStyle = &excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorTimeFill}},
		Font:      &excelize.Font{Bold: true, Color: colorTimeText},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders(grid.BoundaryNone),
	}
)

func (b *xlsxBuilder) headerStyle(left grid.BoundaryKind) *excelize.Style {
	return &excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorHeaderFill}},
		Font:      &excelize.Font{Bold: true, Color: colorHeaderText},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders(left),
	}
}

func (b *xlsxBuilder) bodyStyle(t timetable.SessionType, left grid.BoundaryKind) *excelize.Style {
	fill, text := typeColors(t)
	return &excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		Font:      &excelize.Font{Color: text, Size: 10},
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		Border:    borders(left),
	}
}
