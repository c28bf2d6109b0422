// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/horario/internal/dateutil"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "HORARIO_"

// DefaultEnvFile is read from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds the application configuration.
type Config struct {
	Timetable TimetableConfig `toml:"timetable"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Cache     CacheConfig     `toml:"cache"`
	Export    ExportConfig    `toml:"export"`
	Server    ServerConfig    `toml:"server"`
	LLM       LLMConfig       `toml:"llm"`
	UI        UIConfig        `toml:"ui"`
}

// TimetableConfig selects the timetable and its column order.
type TimetableConfig struct {
	ID    string `toml:"id"`
	Order string `toml:"order"` // "cohort" or "scheduler"

	// SplitAtSeparators keeps identical sessions in different cohorts apart.
	SplitAtSeparators bool `toml:"split_at_separators"`
}

// SchedulerConfig holds the collaborator endpoints.
type SchedulerConfig struct {
	DataURL     string `toml:"data_url"`
	ScheduleURL string `toml:"schedule_url"`
	Timeout     string `toml:"timeout"` // Go duration, e.g. "2m"
}

// CacheConfig holds the result cache settings.
type CacheConfig struct {
	Backend       string `toml:"backend"` // "sqlite", "redis", "memory" or "off"
	TTL           string `toml:"ttl"`
	Namespace     string `toml:"namespace"`
	DBPath        string `toml:"db_path"`
	MaxPages      int    `toml:"max_pages"`
	MaxBytes      int    `toml:"max_bytes"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ExportConfig holds document export settings.
type ExportConfig struct {
	Dir       string `toml:"dir"`
	Title     string `toml:"title"`
	WeekStart string `toml:"week_start"` // YYYY-MM-DD, optional
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama", "openai", "lmstudio" or empty to disable
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "frappe", "latte", "light"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Timetable: TimetableConfig{
			Order: "cohort",
		},
		Scheduler: SchedulerConfig{
			DataURL:     "http://localhost:3000/api/timetables",
			ScheduleURL: "http://localhost:5000/schedule",
			Timeout:     "2m",
		},
		Cache: CacheConfig{
			Backend:   "sqlite",
			TTL:       "30m",
			Namespace: "timetable_cache",
			DBPath:    defaultDBPath(),
			RedisAddr: "localhost:6379",
		},
		Export: ExportConfig{
			Dir:   ".",
			Title: "Generated Timetable",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default cache database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "horario.db"
	}
	return filepath.Join(home, ".local", "share", "horario", "cache.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "horario", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path and the .env file in
// the working directory.
func LoadFrom(path string) (*Config, error) {
	return LoadFiles(path, DefaultEnvFile)
}

// LoadFiles starts with defaults, overlays the config file if it exists, then
// applies overrides from envPath and the process environment. The process
// environment wins over the .env file.
func LoadFiles(path, envPath string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	dotenv, err := readEnvFile(envPath)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg, func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	})

	// Expand paths
	cfg.Cache.DBPath = expandPath(cfg.Cache.DBPath)
	cfg.Export.Dir = expandPath(cfg.Export.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// readEnvFile parses a .env file without touching the process environment.
func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return values, nil
}

// applyEnvOverrides applies HORARIO_* overrides to the config.
func applyEnvOverrides(cfg *Config, getenv func(string) string) {
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if v := getenv(EnvPrefix + name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	str("TIMETABLE_ID", &cfg.Timetable.ID)
	str("TIMETABLE_ORDER", &cfg.Timetable.Order)
	if v := getenv(EnvPrefix + "SPLIT_AT_SEPARATORS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Timetable.SplitAtSeparators = b
		}
	}

	str("DATA_URL", &cfg.Scheduler.DataURL)
	str("SCHEDULE_URL", &cfg.Scheduler.ScheduleURL)
	str("SCHEDULER_TIMEOUT", &cfg.Scheduler.Timeout)

	str("CACHE_BACKEND", &cfg.Cache.Backend)
	str("CACHE_TTL", &cfg.Cache.TTL)
	str("CACHE_NAMESPACE", &cfg.Cache.Namespace)
	str("DB_PATH", &cfg.Cache.DBPath)
	num("CACHE_MAX_PAGES", &cfg.Cache.MaxPages)
	num("CACHE_MAX_BYTES", &cfg.Cache.MaxBytes)
	str("REDIS_ADDR", &cfg.Cache.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	num("REDIS_DB", &cfg.Cache.RedisDB)

	str("EXPORT_DIR", &cfg.Export.Dir)
	str("EXPORT_TITLE", &cfg.Export.Title)
	str("WEEK_START", &cfg.Export.WeekStart)

	str("SERVER_ADDR", &cfg.Server.Addr)

	str("LLM_PROVIDER", &cfg.LLM.Provider)
	str("LLM_MODEL", &cfg.LLM.Model)
	str("LLM_BASE_URL", &cfg.LLM.BaseURL)

	str("UI_THEME", &cfg.UI.Theme)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var (
	validOrders   = []string{"cohort", "scheduler"}
	validBackends = []string{"sqlite", "redis", "memory", "off"}
	validLLMs     = []string{"", "ollama", "openai", "lmstudio"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !oneOf(c.Timetable.Order, validOrders) {
		return fmt.Errorf("order must be one of %s, got %q", strings.Join(validOrders, ", "), c.Timetable.Order)
	}
	if err := validateURL(c.Scheduler.DataURL, "data_url"); err != nil {
		return err
	}
	if err := validateURL(c.Scheduler.ScheduleURL, "schedule_url"); err != nil {
		return err
	}
	if _, err := parsePositiveDuration(c.Scheduler.Timeout, "timeout"); err != nil {
		return err
	}

	if !oneOf(c.Cache.Backend, validBackends) {
		return fmt.Errorf("cache backend must be one of %s, got %q", strings.Join(validBackends, ", "), c.Cache.Backend)
	}
	if _, err := parsePositiveDuration(c.Cache.TTL, "ttl"); err != nil {
		return err
	}
	if c.Cache.Backend == "sqlite" && c.Cache.DBPath == "" {
		return errors.New("db_path must be set for the sqlite cache")
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return errors.New("redis_addr must be set for the redis cache")
	}
	if c.Cache.MaxPages < 0 || c.Cache.MaxBytes < 0 {
		return errors.New("cache quotas cannot be negative")
	}

	if c.Export.WeekStart != "" {
		if _, err := dateutil.ParseDate(c.Export.WeekStart); err != nil {
			return fmt.Errorf("week_start must be in YYYY-MM-DD format, got %q", c.Export.WeekStart)
		}
	}
	if !oneOf(c.LLM.Provider, validLLMs) {
		return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
	}
	return nil
}

func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
	}
	return nil
}

func parsePositiveDuration(v, field string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration like \"30m\", got %q", field, v)
	}
	return d, nil
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

// SchedulerTimeout returns the parsed collaborator timeout.
func (c *Config) SchedulerTimeout() time.Duration {
	d, err := parsePositiveDuration(c.Scheduler.Timeout, "timeout")
	if err != nil {
		return 2 * time.Minute
	}
	return d
}

// CacheTTL returns the parsed cache time-to-live.
func (c *Config) CacheTTL() time.Duration {
	d, err := parsePositiveDuration(c.Cache.TTL, "ttl")
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// WeekStart returns the calendar anchor, or the zero time when unset.
func (c *Config) WeekStart() time.Time {
	t, err := dateutil.ParseDate(c.Export.WeekStart)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
