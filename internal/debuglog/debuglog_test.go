package debuglog

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEventWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Event("CACHE_HIT", map[string]any{"key": "timetable_cache_T1"})
	l.Error("GENERATE_FAILED", errors.New("boom"), map[string]any{"timetable": "T1"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if first["event"] != "CACHE_HIT" || first["key"] != "timetable_cache_T1" {
		t.Errorf("unexpected entry: %v", first)
	}
	if first["seq"] != float64(1) {
		t.Errorf("expected seq 1, got %v", first["seq"])
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if second["error"] != "boom" || second["seq"] != float64(2) {
		t.Errorf("unexpected entry: %v", second)
	}
}

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	l.Event("ANYTHING", nil)
	l.Error("ANYTHING", errors.New("x"), nil)
	if err := l.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	l, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	l.Event("X", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	for _, want := range []string{"DEBUG_START", `"event":"X"`, "DEBUG_END"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}
