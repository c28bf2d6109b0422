package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/javiermolinar/horario/internal/debuglog"
	"github.com/javiermolinar/horario/internal/timetable"
)

// Defaults for cache entries.
const (
	DefaultTTL       = 30 * time.Minute
	DefaultNamespace = "timetable_cache"
)

// entry is the stored representation of a generated timetable.
type entry struct {
	Data      []timetable.SectionSchedule `json:"data"`
	Timestamp int64                       `json:"timestamp"` // unix millis
}

// Options configures a Manager.
type Options struct {
	TTL       time.Duration
	Namespace string
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
	Log *debuglog.Logger
}

// Manager stores generated timetables with a time-to-live. Storage failures
// never reach the caller: a failed load is a miss and a failed store is a
// silent no-op.
type Manager struct {
	store     Store
	ttl       time.Duration
	namespace string
	now       func() time.Time
	log       *debuglog.Logger
}

// NewManager creates a manager on top of store.
func NewManager(store Store, opts Options) *Manager {
	m := &Manager{
		store:     store,
		ttl:       opts.TTL,
		namespace: opts.Namespace,
		now:       opts.Now,
		log:       opts.Log,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}
	if m.namespace == "" {
		m.namespace = DefaultNamespace
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// TTL returns the configured time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Key returns the store key for a timetable id.
func (m *Manager) Key(timetableID string) string {
	return m.namespace + "_" + timetableID
}

// Load returns the cached sections for a timetable. Expired or unreadable
// entries are removed and reported as absent.
func (m *Manager) Load(ctx context.Context, timetableID string) ([]timetable.SectionSchedule, time.Time, bool) {
	key := m.Key(timetableID)
	raw, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.log.Error("CACHE_READ_FAILED", err, map[string]any{"key": key})
		return nil, time.Time{}, false
	}
	if !ok {
		m.log.Event("CACHE_MISS", map[string]any{"key": key})
		return nil, time.Time{}, false
	}

	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		m.log.Error("CACHE_CORRUPT", err, map[string]any{"key": key})
		m.remove(ctx, key)
		return nil, time.Time{}, false
	}

	storedAt := time.UnixMilli(e.Timestamp)
	if m.now().Sub(storedAt) >= m.ttl {
		m.log.Event("CACHE_EXPIRED", map[string]any{"key": key, "stored_at": storedAt.Format(time.RFC3339)})
		m.remove(ctx, key)
		return nil, time.Time{}, false
	}

	m.log.Event("CACHE_HIT", map[string]any{"key": key, "sections": len(e.Data)})
	return e.Data, storedAt, true
}

// Store writes sections for a timetable stamped with the current time.
// When the store is full the existing entry for the key is evicted and the
// write retried once.
func (m *Manager) Store(ctx context.Context, timetableID string, sections []timetable.SectionSchedule) {
	key := m.Key(timetableID)
	b, err := json.Marshal(entry{Data: sections, Timestamp: m.now().UnixMilli()})
	if err != nil {
		m.log.Error("CACHE_ENCODE_FAILED", err, map[string]any{"key": key})
		return
	}

	err = m.store.Set(ctx, key, string(b))
	if err == nil {
		m.log.Event("CACHE_STORED", map[string]any{"key": key, "bytes": len(b)})
		return
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		m.log.Error("CACHE_WRITE_FAILED", err, map[string]any{"key": key})
		return
	}

	m.log.Event("CACHE_QUOTA_EVICT", map[string]any{"key": key})
	m.remove(ctx, key)
	if err := m.store.Set(ctx, key, string(b)); err != nil {
		m.log.Error("CACHE_WRITE_FAILED", err, map[string]any{"key": key, "retry": true})
		return
	}
	m.log.Event("CACHE_STORED", map[string]any{"key": key, "bytes": len(b), "retry": true})
}

// Invalidate removes the entry for a timetable.
func (m *Manager) Invalidate(ctx context.Context, timetableID string) {
	key := m.Key(timetableID)
	m.remove(ctx, key)
	m.log.Event("CACHE_INVALIDATED", map[string]any{"key": key})
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}

func (m *Manager) remove(ctx context.Context, key string) {
	if err := m.store.Remove(ctx, key); err != nil {
		m.log.Error("CACHE_REMOVE_FAILED", err, map[string]any{"key": key})
	}
}
