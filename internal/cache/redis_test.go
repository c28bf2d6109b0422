package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T, expiry time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: srv.Addr()}), expiry)
	t.Cleanup(func() { _ = s.Close() })
	return s, srv
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestRedisStore(t, time.Hour)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = %v, %v", ok, err)
	}

	if err := s.Set(ctx, "timetable_cache_T1", "payload"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "timetable_cache_T1")
	if err != nil || !ok || v != "payload" {
		t.Fatalf("Get = %q, %v, %v", v, ok, err)
	}
	if ttl := srv.TTL("timetable_cache_T1"); ttl != time.Hour {
		t.Errorf("expiry = %s, want 1h", ttl)
	}

	if err := s.Remove(ctx, "timetable_cache_T1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if srv.Exists("timetable_cache_T1") {
		t.Error("expected key to be gone")
	}
	if err := s.Remove(ctx, "timetable_cache_T1"); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestRedisStore(t, time.Minute)

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	srv.FastForward(2 * time.Minute)
	if _, ok, err := s.Get(ctx, "k"); err != nil || ok {
		t.Errorf("expired key: ok=%v err=%v", ok, err)
	}
}

func TestRedisStoreOOM(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestRedisStore(t, 0)
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	srv.SetError("OOM command not allowed when used memory > 'maxmemory'.")
	err := s.Set(ctx, "k", "v")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	srv.SetError("ERR something else")
	err = s.Set(ctx, "k", "v")
	if err == nil || errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected a plain error, got %v", err)
	}
	if _, _, err := s.Get(ctx, "k"); err == nil {
		t.Error("expected Get to surface the server error")
	}
}

func TestIsRedisOOM(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{redis.Nil, false},
		{errors.New("OOM command not allowed when used memory > 'maxmemory'."), true},
		{errors.New("ERR wrong number of arguments"), false},
		{errors.New("LOADING Redis is loading the dataset in memory"), false},
	}
	for _, tt := range tests {
		if got := isRedisOOM(tt.err); got != tt.want {
			t.Errorf("isRedisOOM(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestManagerOnRedisQuota(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestRedisStore(t, 0)
	clock := newClock()
	m := NewManager(s, Options{Now: clock.Now})

	m.Store(ctx, "T1", sampleSections(2))
	if _, _, ok := m.Load(ctx, "T1"); !ok {
		t.Fatal("expected hit")
	}

	// Eviction and the retry both fail; the store stays silent.
	srv.SetError("OOM command not allowed when used memory > 'maxmemory'.")
	m.Store(ctx, "T1", sampleSections(3))
	srv.SetError("")

	got, _, ok := m.Load(ctx, "T1")
	if !ok || len(got[0].Schedule) != 2 {
		t.Errorf("expected the earlier entry to survive, got ok=%v %v", ok, got)
	}
}

func TestOpenRedis(t *testing.T) {
	srv := miniredis.RunT(t)
	store, err := Open(context.Background(), BackendConfig{
		Backend: BackendRedis,
		Redis:   RedisOptions{Addr: srv.Addr(), Expiry: time.Minute},
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	if _, ok := store.(*RedisStore); !ok {
		t.Fatalf("store = %T, want *RedisStore", store)
	}
}
