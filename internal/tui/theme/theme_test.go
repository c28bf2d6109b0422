package theme

import (
	"testing"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
	}{
		{name: "load mocha theme", themeName: "mocha", wantName: "mocha"},
		{name: "load frappe theme", themeName: "frappe", wantName: "frappe"},
		{name: "load latte theme", themeName: "latte", wantName: "latte"},
		{name: "load light theme", themeName: "light", wantName: "light"},
		{name: "case insensitive", themeName: "Latte", wantName: "latte"},
		{name: "empty name defaults to mocha", themeName: "", wantName: "mocha"},
		{name: "invalid theme falls back to mocha", themeName: "nonexistent", wantName: "mocha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if err != nil {
				t.Fatalf("Load(%q) unexpected error: %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, theme.Name, tt.wantName)
			}
		})
	}
}

func TestLoad_ThemeColors(t *testing.T) {
	for _, name := range Available() {
		theme, err := Load(name)
		if err != nil {
			t.Fatalf("Load(%s) unexpected error: %v", name, err)
		}

		// Every color must be a 7-char hex string.
		colors := map[string]string{
			"Bg":          theme.Bg,
			"BgHighlight": theme.BgHighlight,
			"BgSelection": theme.BgSelection,
			"Fg":          theme.Fg,
			"FgMuted":     theme.FgMuted,
			"Accent":      theme.Accent,
			"Lecture":     theme.Lecture,
			"Lab":         theme.Lab,
			"Tutorial":    theme.Tutorial,
			"GroupRule":   theme.GroupRule,
			"YearRule":    theme.YearRule,
			"Warning":     theme.Warning,
		}

		for field, hex := range colors {
			if len(hex) != 7 || hex[0] != '#' {
				t.Errorf("%s: theme.%s = %q, want #rrggbb", name, field, hex)
			}
		}
	}
}

func TestApplyDefaults(t *testing.T) {
	theme := &Theme{Accent: "#ff0000", FgMuted: "#aaaaaa", BgHighlight: "#202020"}
	theme.applyDefaults()

	if theme.GroupRule != "#aaaaaa" {
		t.Errorf("GroupRule = %q, want fg_muted", theme.GroupRule)
	}
	if theme.YearRule != "#ff0000" {
		t.Errorf("YearRule = %q, want accent", theme.YearRule)
	}
	if theme.BgSelection != "#202020" {
		t.Errorf("BgSelection = %q, want bg_highlight", theme.BgSelection)
	}
}

func TestAvailable(t *testing.T) {
	available := Available()

	expected := []string{"mocha", "frappe", "latte", "light"}
	if len(available) != len(expected) {
		t.Fatalf("Available() returned %d themes, want %d", len(available), len(expected))
	}
	for i, want := range expected {
		if available[i] != want {
			t.Errorf("Available()[%d] = %q, want %q", i, available[i], want)
		}
	}
}

func TestIsAvailable(t *testing.T) {
	tests := []struct {
		name     string
		theme    string
		expected bool
	}{
		{name: "exact match", theme: "mocha", expected: true},
		{name: "case insensitive", theme: "Mocha", expected: true},
		{name: "missing theme", theme: "unknown", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAvailable(tt.theme); got != tt.expected {
				t.Errorf("IsAvailable(%q) = %t, want %t", tt.theme, got, tt.expected)
			}
		})
	}
}

func TestColor(t *testing.T) {
	hex := "#89b4fa"
	c := Color(hex)
	if string(c) != hex {
		t.Errorf("Color(%q) = %q, want %q", hex, string(c), hex)
	}
}
