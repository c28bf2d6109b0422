package ui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/review"
	"github.com/javiermolinar/horario/internal/timetable"
)

func (a *App) reviewCmd() *cobra.Command {
	var (
		model     string
		noInsight bool
		copyText  bool
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Summarize teaching load and ask for an insight",
		Long: `Summarize the consolidated timetable: busy periods per day, teaching
periods per instructor and per room, session types, and how many cells
are shared between sections.

With an LLM provider configured, a short plain-text insight is appended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if model == "" {
				model = a.config.LLM.Model
			}

			key, svc, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			res, err := svc.Resolve(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("loading timetable: %w", err)
			}

			g := res.View(timetable.Filter{})
			out := cmd.OutOrStdout()
			report, err := review.Build(cmd.Context(), key, g, review.Options{
				IncludeInsight: !noInsight && a.config.LLM.Provider != "",
				Provider:       a.config.LLM.Provider,
				Model:          model,
				BaseURL:        a.config.LLM.BaseURL,
			})
			if err != nil {
				// Insight failures keep the plain report.
				a.log.Error("REVIEW_INSIGHT_ERROR", err, map[string]any{"timetable": key})
				fmt.Fprintln(out, formatWarn("Insight unavailable: "+err.Error()))
				report = review.Summarize(key, g)
			}

			PrintReport(out, report)

			if copyText {
				if err := clipboard.WriteAll(report.Text()); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, formatMuted("Copied to clipboard"))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "LLM model to use (default from config)")
	cmd.Flags().BoolVar(&noInsight, "no-insight", false, "Skip LLM insight")
	cmd.Flags().BoolVar(&copyText, "copy", false, "Copy the review text to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the generated timetable cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop the cached timetable so the next run regenerates it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, svc, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			svc.Invalidate(cmd.Context(), key)
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared cached timetable %q\n", key)
			return nil
		},
	})
	return cmd
}
