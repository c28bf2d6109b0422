package integration

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/horario/internal/config"
	"github.com/javiermolinar/horario/internal/ui"
)

// runCLI executes one horario command against the collaborators, the way
// cmd/horario does, and returns its output.
func runCLI(t *testing.T, cfg *config.Config, args ...string) string {
	t.Helper()
	app := ui.NewApp(cfg)
	defer func() { _ = app.Close() }()

	var out bytes.Buffer
	app.SetOutput(&out)
	app.SetArgs(args)
	if err := app.Execute(); err != nil {
		t.Fatalf("horario %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestCLI(t *testing.T) {
	ui.DisableColor()
	t.Cleanup(ui.EnableColor)

	c := newCollaborators(t)
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Timetable.ID = "fall"
	cfg.Scheduler.DataURL = c.dataURL()
	cfg.Scheduler.ScheduleURL = c.scheduleURL()
	cfg.Cache.DBPath = filepath.Join(dir, "cache.db")
	cfg.Export.Dir = filepath.Join(dir, "out")
	cfg.LLM.Provider = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("config: %v", err)
	}

	out := runCLI(t, cfg, "generate")
	if !strings.Contains(out, "Generated 3 sections, 5 sessions") {
		t.Errorf("generate output:\n%s", out)
	}
	if !strings.Contains(out, "Data issues (1)") {
		t.Errorf("generate should report the malformed session:\n%s", out)
	}

	out = runCLI(t, cfg, "show", "--day", "sunday")
	for _, want := range []string{"Sections: A, B, C", "CS101", "A, B", "Cached"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}
	if c.calls.Load() != 1 {
		t.Errorf("scheduler calls = %d, want 1 (show must use the cache)", c.calls.Load())
	}

	out = runCLI(t, cfg, "export", "--format", "xlsx,ics", "--room", "R1")
	matches, _ := filepath.Glob(filepath.Join(dir, "out", "timetable_R1_*"))
	if len(matches) != 2 {
		t.Errorf("exported files = %v\n%s", matches, out)
	}

	out = runCLI(t, cfg, "review")
	if !strings.Contains(out, "Shared: 1 (33%)") {
		t.Errorf("review output:\n%s", out)
	}

	runCLI(t, cfg, "cache", "clear")
	runCLI(t, cfg, "show")
	if c.calls.Load() != 2 {
		t.Errorf("scheduler calls = %d, want 2 after clearing the cache", c.calls.Load())
	}
}
