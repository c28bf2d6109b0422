// Package debuglog writes structured debug events as JSON lines.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the fixed path for debug logs.
const DefaultPath = "horario-debug.log"

// Logger writes one JSON object per event. A nil *Logger is valid and discards
// everything, so components can log unconditionally.
type Logger struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	seq    int
	now    func() time.Time
}

// New creates a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Open creates (truncating) the log file at path.
func Open(path string) (*Logger, error) {
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	l := New(f)
	l.closer = f
	l.Event("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     l.now().Format(time.RFC3339),
	})
	return l, nil
}

// Event writes a structured log entry.
func (l *Logger) Event(event string, data map[string]any) {
	if l == nil || l.w == nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := map[string]any{
		"seq":   l.seq,
		"ts":    l.now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"seq": l.seq, "event": event, "marshal_error": err.Error()})
	}
	_, _ = fmt.Fprintf(l.w, "%s\n", b)
}

// Error logs an event carrying an error message.
func (l *Logger) Error(event string, err error, data map[string]any) {
	if l == nil {
		return
	}
	entry := make(map[string]any, len(data)+1)
	for k, v := range data {
		entry[k] = v
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	l.Event(event, entry)
}

// Close writes the end marker and closes the underlying file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	l.Event("DEBUG_END", map[string]any{
		"time": l.now().Format(time.RFC3339),
	})
	return l.closer.Close()
}
