package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/dateutil"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		formats    []string
		dir        string
		title      string
		instructor string
		room       string
		week       string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the consolidated timetable to documents",
		Long: `Write the consolidated timetable to one file per format.

Files are named timetable[_<instructor>][_<room>]_<unix millis>.<ext>.
A failed format is reported and the remaining formats are still written.

Example:
  horario export --format pdf,xlsx,ics --dir ./out --room LAB2 --week next-week`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exporters := make([]export.Exporter, 0, len(formats))
			for _, f := range formats {
				e, err := export.ByName(f)
				if err != nil {
					return err
				}
				exporters = append(exporters, e)
			}

			now := time.Now()
			weekStart := a.config.WeekStart()
			if week != "" {
				var err error
				weekStart, err = dateutil.ParseWeek(week, now)
				if err != nil {
					return err
				}
			}

			key, svc, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Resolve(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("loading timetable: %w", err)
			}

			if dir == "" {
				dir = a.config.Export.Dir
			}
			if title == "" {
				title = a.config.Export.Title
			}
			filter := timetable.NewFilter(instructor, room)
			doc := export.Document{
				Title:       title,
				Grid:        res.View(filter),
				Filter:      filter,
				GeneratedAt: now,
				WeekStart:   weekStart,
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, e := range exporters {
				path, err := export.WriteFile(e, dir, doc)
				if err != nil {
					failed++
					fmt.Fprintf(out, "  %s %v\n", formatWarn("✗"), err)
					a.log.Error("EXPORT_ERROR", err, map[string]any{"format": e.Name()})
					continue
				}
				fmt.Fprintf(out, "  %s %s\n", formatStats("✓"), path)
				a.log.Event("EXPORT_WRITTEN", map[string]any{"format": e.Name(), "path": path})
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d exports failed", failed, len(exporters))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&formats, "format", "f", []string{"pdf", "xlsx"}, "Formats to write (pdf, xlsx, html, ics)")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default from config)")
	cmd.Flags().StringVar(&title, "title", "", "Document title (default from config)")
	cmd.Flags().StringVarP(&instructor, "instructor", "i", "", "Filter by instructor name")
	cmd.Flags().StringVarP(&room, "room", "r", "", "Filter by room")
	cmd.Flags().StringVar(&week, "week", "", "Calendar week for ics: YYYY-MM-DD, this-week, next-week or upcoming")
	return cmd
}
