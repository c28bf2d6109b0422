package export

import (
	"html/template"
	"io"
	"strings"

	"github.com/javiermolinar/horario/internal/grid"
	"github.com/javiermolinar/horario/internal/slot"
)

// HTML renders the whole week as one table, the same layout the interactive
// grid shows.
type HTML struct{}

func (HTML) Name() string        { return "html" }
func (HTML) Extension() string   { return "html" }
func (HTML) ContentType() string { return "text/html; charset=utf-8" }

type htmlHeader struct {
	SectionID string
	Caption   string
	Class     string
}

type htmlCell struct {
	RowSpan  int
	ColSpan  int
	Class    string
	Sections string
	Lines    []string
	Type     string
}

type htmlRow struct {
	Day     string
	DaySpan int
	Time    string
	Cells   []htmlCell
}

type htmlPage struct {
	Title     string
	Generated string
	Headers   []htmlHeader
	Rows      []htmlRow
	Empty     bool
	Issues    []string
}

var htmlTemplate = template.Must(template.New("timetable").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #111827; margin: 24px; }
h1 { font-size: 20px; margin: 0 0 4px; color: #1F2937; }
p.generated { font-size: 12px; color: #6B7280; margin: 0 0 16px; }
table { border-collapse: collapse; font-size: 12px; }
th, td { border: 1px solid #D1D5DB; padding: 6px; vertical-align: top; min-width: 120px; }
th { background: #374151; color: #FFFFFF; }
td.day { background: #E5E7EB; font-weight: bold; min-width: 80px; vertical-align: middle; }
td.time { background: #F3F4F6; color: #374151; font-weight: bold; min-width: 90px; white-space: nowrap; }
td.lec { background: #DBEAFE; color: #1E40AF; }
td.lab { background: #FEF3C7; color: #92400E; }
td.tut { background: #D1FAE5; color: #065F46; }
.sep-group { border-left: 2px solid #6B7280; }
.sep-year { border-left: 4px solid #111827; }
.course { font-weight: bold; }
ul.issues { color: #B91C1C; font-size: 12px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">{{.Generated}}</p>
{{if .Empty}}<p class="empty">No sessions match the selected filters.</p>{{else}}
<table class="timetable">
<thead>
<tr><th>Day</th><th>Time</th>{{range .Headers}}<th class="{{.Class}}" data-section="{{.SectionID}}">{{.SectionID}}<br>{{.Caption}}</th>{{end}}</tr>
</thead>
<tbody>
{{range .Rows}}<tr>{{if .Day}}<td class="day" rowspan="{{.DaySpan}}">{{.Day}}</td>{{end}}<td class="time">{{.Time}}</td>{{range .Cells}}<td{{if gt .RowSpan 1}} rowspan="{{.RowSpan}}"{{end}}{{if gt .ColSpan 1}} colspan="{{.ColSpan}}"{{end}} class="{{.Class}}" data-sections="{{.Sections}}"{{if .Type}} title="{{.Type}}"{{end}}>{{range $i, $l := .Lines}}{{if eq $i 0}}<div class="course">{{$l}}</div>{{else}}<div>{{$l}}</div>{{end}}{{end}}</td>{{end}}</tr>
{{end}}</tbody>
</table>{{end}}
{{if .Issues}}<ul class="issues">{{range .Issues}}<li>{{.}}</li>{{end}}</ul>{{end}}
</body>
</html>
`))

// Export writes the page.
func (HTML) Export(w io.Writer, doc Document) error {
	return htmlTemplate.Execute(w, htmlPageFor(doc))
}

func separatorClass(kind grid.BoundaryKind) string {
	switch kind {
	case grid.BoundaryYear:
		return "sep-year"
	case grid.BoundaryGroup:
		return "sep-group"
	default:
		return ""
	}
}

func htmlPageFor(doc Document) htmlPage {
	g := doc.Grid
	page := htmlPage{
		Title:     doc.FullTitle(),
		Generated: doc.GeneratedLabel(),
		Empty:     g.Empty(),
	}
	for _, issue := range g.Issues {
		page.Issues = append(page.Issues, issue.Message())
	}
	for c, col := range g.Columns {
		page.Headers = append(page.Headers, htmlHeader{
			SectionID: col.Section.SectionID,
			Caption:   col.Section.Header(),
			Class:     separatorClass(g.BoundaryBefore(c)),
		})
	}

	for s := 0; s < slot.Count; s++ {
		row := htmlRow{Time: slot.PeriodLabel(slot.PeriodOf(s))}
		if slot.PeriodOf(s) == 0 {
			row.Day = slot.DayName(slot.DayOf(s))
			row.DaySpan = slot.PeriodsPerDay
		}
		for _, cell := range g.Row(s) {
			hc := htmlCell{
				RowSpan:  cell.RowSpan,
				ColSpan:  cell.ColSpan,
				Sections: strings.Join(cell.SectionIDs, ","),
			}
			classes := []string{"empty"}
			if !cell.Empty() {
				classes = []string{"session", string(cell.Session.Type)}
				hc.Type = cell.Session.Type.Label()
				hc.Lines = sessionLines(cell.Session)
			}
			if sep := separatorClass(g.BoundaryBefore(cell.Column)); sep != "" {
				classes = append(classes, sep)
			}
			hc.Class = strings.Join(classes, " ")
			row.Cells = append(row.Cells, hc)
		}
		page.Rows = append(page.Rows, row)
	}
	return page
}
