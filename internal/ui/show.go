package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/pipeline"
	"github.com/javiermolinar/horario/internal/slot"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate the timetable, bypassing the cache",
		Long: `Ask the scheduling service for a fresh timetable and cache the result.

The cached entry is invalidated first, so a failed generation leaves
nothing behind and the next run asks again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, svc, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generating timetable %q...\n", key)
			res, err := svc.Regenerate(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("generating timetable: %w", err)
			}

			fmt.Fprintf(out, "Generated %s sections, %s sessions at %s\n",
				formatStats(fmt.Sprint(len(res.Sections))),
				formatStats(fmt.Sprint(timetable.CountSessions(res.Sections))),
				res.GeneratedAt.Format("15:04:05"))
			PrintIssues(out, res.View(timetable.Filter{}))
			return nil
		},
	}
}

func (a *App) showCmd() *cobra.Command {
	var (
		day        string
		instructor string
		room       string
		verbose    bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the consolidated timetable",
		Long: `Print the consolidated timetable, one line per merged cell.

Uses the cached timetable when it is still fresh and generates one
otherwise. Filters narrow the sections shown to those with at least one
matching session.

Example:
  horario show --day monday --instructor "Dr. Ada"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			days, err := parseDays(day)
			if err != nil {
				return err
			}

			key, svc, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Resolve(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("loading timetable: %w", err)
			}

			filter := timetable.NewFilter(instructor, room)
			g := res.View(filter)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "=== %s ===\n", formatHeader(res.TimetableKey+filter.Title()))
			fmt.Fprintf(out, "%s\n\n", formatMuted(sourceLabel(res)))

			if g.Empty() {
				fmt.Fprintln(out, "No sessions match the selected filters.")
				return nil
			}

			fmt.Fprintf(out, "  %s\n\n", formatMuted("Sections: "+strings.Join(g.SectionIDs(), ", ")))
			opts := PrintOpts{Verbose: verbose}
			for i, d := range days {
				if i > 0 {
					fmt.Fprintln(out)
				}
				PrintDay(out, g, d, opts)
			}

			fmt.Fprintln(out)
			PrintSummary(out, g)
			return nil
		},
	}

	cmd.Flags().StringVarP(&day, "day", "d", "", "Only show one day (sunday..thursday or 1-5)")
	cmd.Flags().StringVarP(&instructor, "instructor", "i", "", "Filter by instructor name")
	cmd.Flags().StringVarP(&room, "room", "r", "", "Filter by room")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show course names")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// prepare resolves the timetable key and the pipeline service.
func (a *App) prepare(ctx context.Context) (string, Service, error) {
	key, err := a.key()
	if err != nil {
		return "", nil, err
	}
	svc, err := a.service(ctx)
	if err != nil {
		return "", nil, err
	}
	return key, svc, nil
}

// parseDays turns the --day flag into day indexes. Empty means the whole week.
func parseDays(s string) ([]int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		days := make([]int, slot.Days)
		for i := range days {
			days[i] = i
		}
		return days, nil
	}
	for i, name := range slot.DayNames() {
		lower := strings.ToLower(name)
		if s == lower || s == lower[:3] || s == fmt.Sprint(i+1) {
			return []int{i}, nil
		}
	}
	return nil, fmt.Errorf("invalid day %q (valid: %s or 1-%d)",
		s, strings.ToLower(strings.Join(slot.DayNames(), ", ")), slot.Days)
}

func sourceLabel(res *pipeline.Result) string {
	if res.Source == pipeline.SourceCache {
		return "Cached · generated " + res.GeneratedAt.Format("Jan 2 15:04")
	}
	return "Fresh · generated " + res.GeneratedAt.Format("Jan 2 15:04")
}
