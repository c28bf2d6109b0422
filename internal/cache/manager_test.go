package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/horario/internal/timetable"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 2, 8, 0, 0, 0, time.UTC)}
}

func sampleSections(n int) []timetable.SectionSchedule {
	sessions := make([]timetable.Session, n)
	for i := range sessions {
		sessions[i] = timetable.Session{
			CourseID:       "CS101",
			CourseName:     "Intro to Programming",
			InstructorName: "Dr. Adams",
			RoomID:         "R101",
			Type:           timetable.SessionLecture,
			SlotIndex:      i % 40,
			Duration:       1,
		}
	}
	return []timetable.SectionSchedule{{SectionID: "A", GroupID: "G1", Year: 1, Schedule: sessions}}
}

func encodedSize(t *testing.T, m *Manager, id string, sections []timetable.SectionSchedule) int {
	t.Helper()
	b, err := json.Marshal(entry{Data: sections, Timestamp: m.now().UnixMilli()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return len(m.Key(id)) + len(b)
}

func TestManagerKey(t *testing.T) {
	m := NewManager(NewMemoryStore(0), Options{})
	if got := m.Key("T1"); got != "timetable_cache_T1" {
		t.Errorf("Key = %q", got)
	}
	m = NewManager(NewMemoryStore(0), Options{Namespace: "ns"})
	if got := m.Key("T1"); got != "ns_T1" {
		t.Errorf("Key = %q", got)
	}
	if m.TTL() != DefaultTTL {
		t.Errorf("TTL = %v, want %v", m.TTL(), DefaultTTL)
	}
}

func TestManagerTTL(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantHit bool
	}{
		{"fresh", 0, true},
		{"29 minutes", 29 * time.Minute, true},
		{"exactly ttl", 30 * time.Minute, false},
		{"31 minutes", 31 * time.Minute, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			clock := newClock()
			store := NewMemoryStore(0)
			m := NewManager(store, Options{Now: clock.Now})

			m.Store(ctx, "T1", sampleSections(2))
			clock.Advance(tt.elapsed)

			got, storedAt, ok := m.Load(ctx, "T1")
			if ok != tt.wantHit {
				t.Fatalf("Load hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				if _, present, _ := store.Get(ctx, m.Key("T1")); present {
					t.Error("expired entry should be removed from the store")
				}
				return
			}
			if len(got) != 1 || len(got[0].Schedule) != 2 {
				t.Errorf("unexpected payload: %+v", got)
			}
			if !storedAt.Equal(newClock().t) {
				t.Errorf("storedAt = %v", storedAt)
			}
		})
	}
}

func TestManagerLoadMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)
	m := NewManager(store, Options{})

	if _, _, ok := m.Load(ctx, "nope"); ok {
		t.Error("expected miss for unknown key")
	}

	if err := store.Set(ctx, m.Key("T1"), "{not json"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, _, ok := m.Load(ctx, "T1"); ok {
		t.Error("expected miss for corrupt entry")
	}
	if _, present, _ := store.Get(ctx, m.Key("T1")); present {
		t.Error("corrupt entry should be removed")
	}
}

func TestManagerInvalidate(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewMemoryStore(0), Options{})
	m.Store(ctx, "T1", sampleSections(1))
	m.Invalidate(ctx, "T1")
	if _, _, ok := m.Load(ctx, "T1"); ok {
		t.Error("expected miss after invalidate")
	}
}

func TestManagerQuotaEvictsAndRetries(t *testing.T) {
	ctx := context.Background()
	clock := newClock()

	probe := NewManager(NewMemoryStore(0), Options{Now: clock.Now})
	small := sampleSections(1)
	large := sampleSections(20)
	smallSize := encodedSize(t, probe, "T1", small)
	largeSize := encodedSize(t, probe, "T1", large)

	// Large fits alone but not next to the existing small entry.
	store := NewMemoryStore(largeSize + smallSize/2)
	m := NewManager(store, Options{Now: clock.Now})

	m.Store(ctx, "T1", small)
	if _, _, ok := m.Load(ctx, "T1"); !ok {
		t.Fatal("small entry should be stored")
	}

	m.Store(ctx, "T1", large)
	got, _, ok := m.Load(ctx, "T1")
	if !ok {
		t.Fatal("large entry should be stored after eviction")
	}
	if len(got[0].Schedule) != 20 {
		t.Errorf("expected 20 sessions, got %d", len(got[0].Schedule))
	}
}

func TestManagerQuotaRetryFailsSilently(t *testing.T) {
	ctx := context.Background()
	clock := newClock()

	probe := NewManager(NewMemoryStore(0), Options{Now: clock.Now})
	small := sampleSections(1)
	smallSize := encodedSize(t, probe, "T1", small)

	store := NewMemoryStore(smallSize)
	m := NewManager(store, Options{Now: clock.Now})

	m.Store(ctx, "T1", small)
	m.Store(ctx, "T1", sampleSections(30))

	if _, _, ok := m.Load(ctx, "T1"); ok {
		t.Error("oversized write should leave no entry")
	}
	if store.Used() != 0 {
		t.Errorf("store should be empty after eviction, used %d", store.Used())
	}
}

type failingStore struct {
	NopStore
	err error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingStore) Set(context.Context, string, string) error        { return f.err }

func TestManagerSwallowsStoreErrors(t *testing.T) {
	ctx := context.Background()
	m := NewManager(failingStore{err: errors.New("disk gone")}, Options{})
	m.Store(ctx, "T1", sampleSections(1))
	if _, _, ok := m.Load(ctx, "T1"); ok {
		t.Error("expected miss when the store fails")
	}
}

func TestMemoryStoreQuota(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)
	if err := s.Set(ctx, "k", "12345"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	err := s.Set(ctx, "k2", "123456789")
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), BackendConfig{Backend: "floppy"})
	if err == nil || !strings.Contains(err.Error(), "floppy") {
		t.Errorf("expected unknown backend error, got %v", err)
	}
}

func TestOpenMemoryAndOff(t *testing.T) {
	ctx := context.Background()
	for _, backend := range []string{BackendMemory, BackendOff} {
		s, err := Open(ctx, BackendConfig{Backend: backend})
		if err != nil {
			t.Fatalf("Open(%s): %v", backend, err)
		}
		if err := s.Set(ctx, "k", "v"); err != nil {
			t.Errorf("Set(%s): %v", backend, err)
		}
		_ = s.Close()
	}
}
