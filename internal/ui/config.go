package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/export"
	"github.com/javiermolinar/horario/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.
HORARIO_* environment variables and a .env file still override
the saved values at runtime.

Example:
  horario config`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.OutOrStdout(), cmd.InOrStdin())
		},
	}
}

func runConfigInteractive(out io.Writer, in io.Reader) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(out, reader, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func editConfig(out io.Writer, reader *bufio.Reader, cfg *config.Config) {
	cfg.Timetable.ID = promptValue(out, reader, "Default timetable ID", cfg.Timetable.ID)
	cfg.Timetable.Order = promptValue(out, reader, "Column order (cohort, scheduler)", cfg.Timetable.Order)
	split := promptValue(out, reader, "Stop merges at year/group boundaries (true, false)", strconv.FormatBool(cfg.Timetable.SplitAtSeparators))
	if b, err := strconv.ParseBool(split); err == nil {
		cfg.Timetable.SplitAtSeparators = b
	}
	cfg.Scheduler.DataURL = promptValue(out, reader, "Data service URL", cfg.Scheduler.DataURL)
	cfg.Scheduler.ScheduleURL = promptValue(out, reader, "Scheduling service URL", cfg.Scheduler.ScheduleURL)
	cfg.Scheduler.Timeout = promptValue(out, reader, "Scheduler timeout", cfg.Scheduler.Timeout)
	cfg.Cache.Backend = promptValue(out, reader, "Cache backend (sqlite, redis, memory, off)", cfg.Cache.Backend)
	cfg.Cache.TTL = promptValue(out, reader, "Cache TTL", cfg.Cache.TTL)
	switch cfg.Cache.Backend {
	case "sqlite", "":
		cfg.Cache.DBPath = promptValue(out, reader, "Cache database path", cfg.Cache.DBPath)
		cfg.Cache.MaxPages = promptInt(out, reader, "Cache page quota (0 = unlimited)", cfg.Cache.MaxPages)
	case "redis":
		cfg.Cache.RedisAddr = promptValue(out, reader, "Redis address", cfg.Cache.RedisAddr)
		cfg.Cache.RedisDB = promptInt(out, reader, "Redis database", cfg.Cache.RedisDB)
	}
	cfg.Export.Dir = promptValue(out, reader, "Export directory", cfg.Export.Dir)
	cfg.Export.Title = promptValue(out, reader, "Document title", cfg.Export.Title)
	cfg.Export.WeekStart = promptValue(out, reader, "Calendar week start (YYYY-MM-DD, empty for next Sunday)", cfg.Export.WeekStart)
	cfg.Server.Addr = promptValue(out, reader, "HTTP listen address", cfg.Server.Addr)
	cfg.LLM.Provider = promptValue(out, reader, "LLM provider (ollama, openai, lmstudio)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(out, reader, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(out, reader, "LLM base URL (Ollama/LM Studio)", cfg.LLM.BaseURL)
	cfg.UI.Theme = promptTheme(out, reader, cfg.UI.Theme)
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[timetable]")
	fmt.Fprintf(out, "  id             = %s\n", cfg.Timetable.ID)
	fmt.Fprintf(out, "  order          = %s\n", cfg.Timetable.Order)
	fmt.Fprintf(out, "  split          = %t\n", cfg.Timetable.SplitAtSeparators)
	fmt.Fprintln(out, "\n[scheduler]")
	fmt.Fprintf(out, "  data_url       = %s\n", cfg.Scheduler.DataURL)
	fmt.Fprintf(out, "  schedule_url   = %s\n", cfg.Scheduler.ScheduleURL)
	fmt.Fprintf(out, "  timeout        = %s\n", cfg.Scheduler.Timeout)
	fmt.Fprintln(out, "\n[cache]")
	fmt.Fprintf(out, "  backend        = %s\n", cfg.Cache.Backend)
	fmt.Fprintf(out, "  ttl            = %s\n", cfg.Cache.TTL)
	fmt.Fprintf(out, "  namespace      = %s\n", cfg.Cache.Namespace)
	switch cfg.Cache.Backend {
	case "redis":
		fmt.Fprintf(out, "  redis_addr     = %s\n", cfg.Cache.RedisAddr)
		fmt.Fprintf(out, "  redis_db       = %d\n", cfg.Cache.RedisDB)
	case "memory":
		fmt.Fprintf(out, "  max_bytes      = %d\n", cfg.Cache.MaxBytes)
	default:
		fmt.Fprintf(out, "  db_path        = %s\n", cfg.Cache.DBPath)
		fmt.Fprintf(out, "  max_pages      = %d\n", cfg.Cache.MaxPages)
	}
	fmt.Fprintln(out, "\n[export]")
	fmt.Fprintf(out, "  dir            = %s\n", cfg.Export.Dir)
	fmt.Fprintf(out, "  title          = %s\n", cfg.Export.Title)
	if cfg.Export.WeekStart != "" {
		fmt.Fprintf(out, "  week_start     = %s\n", cfg.Export.WeekStart)
	}
	fmt.Fprintf(out, "  formats        = %s\n", strings.Join(export.Formats(), ", "))
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr           = %s\n", cfg.Server.Addr)
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider       = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model          = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url       = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme          = %s\n", cfg.UI.Theme)
}

func promptYesNo(out io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(out io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(out io.Writer, reader *bufio.Reader, label string, current int) int {
	for {
		value := promptValue(out, reader, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil && n >= 0 {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptTheme(out io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(out, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
