package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/server"
)

func (a *App) serveCmd() *cobra.Command {
	var (
		addr      string
		accessLog bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve timetables over HTTP",
		Long: `Start the HTTP surface: consolidated grids as JSON, document
downloads and an HTML grid page per timetable.

  GET    /api/timetables/:id/grid?instructor=&room=
  POST   /api/timetables/:id/generate
  DELETE /api/timetables/:id/cache
  GET    /api/timetables/:id/export/:format
  GET    /timetables/:id`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = a.config.Server.Addr
			}

			srv := server.New(svc, server.Options{
				Title:     a.config.Export.Title,
				WeekStart: a.config.WeekStart(),
				Log:       a.log,
				AccessLog: accessLog,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start(addr) }()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s (ctrl+c to stop)\n", addr)

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down: %w", err)
			}
			return <-errc
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "Log every request to stdout")
	return cmd
}
