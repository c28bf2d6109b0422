package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/cache"
	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/debuglog"
	"github.com/javiermolinar/horario/internal/pipeline"
	"github.com/javiermolinar/horario/internal/scheduling"
	"github.com/javiermolinar/horario/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// ErrNoTimetable is returned when neither --timetable nor [timetable] id is set.
var ErrNoTimetable = errors.New("no timetable selected: pass --timetable or set [timetable] id in the config")

// Service is the pipeline surface the commands use.
type Service interface {
	Open(ctx context.Context, key string) (*pipeline.Result, error)
	Resolve(ctx context.Context, key string) (*pipeline.Result, error)
	Regenerate(ctx context.Context, key string) (*pipeline.Result, error)
	Invalidate(ctx context.Context, key string)
}

// App holds the CLI application state.
type App struct {
	config    *config.Config
	root      *cobra.Command
	timetable string
	debug     bool // Enable debug logging

	svc   Service
	store cache.Store
	log   *debuglog.Logger
}

// Option customizes an App.
type Option func(*App)

// WithService replaces the pipeline built from the config.
func WithService(svc Service) Option {
	return func(a *App) {
		a.svc = svc
	}
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	a := &App{config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "horario",
		Short: "Consolidated university timetables",
		Long: `Horario generates a weekly university timetable through the scheduling
service and shows every section side by side on one grid.

Sessions that several sections attend together are merged into one cell,
consecutive periods are merged vertically, and the result can be filtered
by instructor or room and exported as PDF, XLSX, HTML or ICS.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := a.key()
			if err != nil {
				return err
			}
			svc, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			return tui.Run(svc, key,
				tui.WithTheme(a.config.UI.Theme),
				tui.WithLogger(a.log),
				tui.WithExport(a.config.Export.Dir),
				tui.WithTitle(a.config.Export.Title),
				tui.WithWeekStart(a.config.WeekStart()),
			)
		},
	}

	// Add global flags
	a.root.PersistentFlags().StringVarP(&a.timetable, "timetable", "t", "", "Timetable ID (default from config)")
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (writes "+debuglog.DefaultPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.generateCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.reviewCmd())
	a.root.AddCommand(a.cacheCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "horario %s (commit: %s)\n", Version, Commit)
		},
	}
}

// key returns the selected timetable ID.
func (a *App) key() (string, error) {
	if a.timetable != "" {
		return a.timetable, nil
	}
	if a.config.Timetable.ID != "" {
		return a.config.Timetable.ID, nil
	}
	return "", ErrNoTimetable
}

// service builds the pipeline on first use: debug log, cache store, scheduling client.
func (a *App) service(ctx context.Context) (Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if a.debug && a.log == nil {
		l, err := debuglog.Open(debuglog.DefaultPath)
		if err != nil {
			return nil, err
		}
		a.log = l
		fmt.Fprintf(os.Stderr, "Debug logging enabled: %s\n", debuglog.DefaultPath)
	}

	cfg := a.config
	store, err := cache.Open(ctx, cache.BackendConfig{
		Backend:  cfg.Cache.Backend,
		DBPath:   cfg.Cache.DBPath,
		MaxPages: cfg.Cache.MaxPages,
		MaxBytes: cfg.Cache.MaxBytes,
		Redis: cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Expiry:   cfg.CacheTTL(),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	a.store = store

	manager := cache.NewManager(store, cache.Options{
		TTL:       cfg.CacheTTL(),
		Namespace: cfg.Cache.Namespace,
		Log:       a.log,
	})
	client := scheduling.NewClient(cfg.Scheduler.DataURL, cfg.Scheduler.ScheduleURL, cfg.SchedulerTimeout(),
		scheduling.WithLogger(a.log))

	a.svc = pipeline.New(client, manager, pipeline.Options{
		Order:             cfg.Timetable.Order,
		SplitAtSeparators: cfg.Timetable.SplitAtSeparators,
		Log:               a.log,
	})
	return a.svc, nil
}

// SetOutput redirects command output, mostly for tests.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// SetArgs overrides os.Args[1:], mostly for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the cache store and the debug log.
func (a *App) Close() error {
	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.log.Close())
	return errors.Join(errs...)
}
