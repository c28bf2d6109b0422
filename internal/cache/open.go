package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendOff    = "off"
)

// BackendConfig selects and configures a Store.
type BackendConfig struct {
	Backend  string
	DBPath   string
	MaxPages int
	MaxBytes int
	Redis    RedisOptions
}

// Open creates the Store named by cfg.Backend.
func Open(ctx context.Context, cfg BackendConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendSQLite:
		if dir := filepath.Dir(cfg.DBPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating cache directory: %w", err)
			}
		}
		return NewSQLiteStore(cfg.DBPath, cfg.MaxPages)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.Redis)
	case BackendMemory:
		return NewMemoryStore(cfg.MaxBytes), nil
	case BackendOff:
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q (valid: sqlite, redis, memory, off)", cfg.Backend)
	}
}
