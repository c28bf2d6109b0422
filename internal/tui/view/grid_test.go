package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestRenderGridMergedBlocks(t *testing.T) {
	plain := lipgloss.NewStyle()
	state := GridViewState{
		TimeWidth:  5,
		ColWidth:   4,
		RowLines:   1,
		Rows:       2,
		Corner:     "Day",
		Headers:    [][]string{{"A"}, {"B"}, {"C"}},
		TimeLabels: []string{"9:00", "9:45"},
		Gutters:    []Gutter{{Glyph: "│"}, {Glyph: "│"}, {Glyph: "║"}},
		Blocks: []Block{
			{Col: 0, ColSpan: 2, Row: 0, RowSpan: 2, Lines: []string{"CS1", "Intro"}, Style: plain},
			{Col: 2, ColSpan: 1, Row: 0, RowSpan: 1, Lines: []string{"LAB"}, Style: plain},
		},
	}

	got := strings.Split(ansi.Strip(RenderGrid(state)), "\n")
	want := []string{
		"Day  │A   │B   ║C   ",
		"9:00 │CS1      ║LAB ",
		"9:45 │Intro    ║    ",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if state.Width() != 5+3*5 {
		t.Errorf("Width() = %d, want %d", state.Width(), 20)
	}
}

func TestRenderGridMultiLineRows(t *testing.T) {
	state := GridViewState{
		TimeWidth:  4,
		ColWidth:   6,
		RowLines:   2,
		Rows:       2,
		Headers:    [][]string{{"A", "G1"}},
		TimeLabels: []string{"1", "2"},
		Blocks: []Block{
			{Col: 0, ColSpan: 1, Row: 0, RowSpan: 2, Lines: []string{"l0", "l1", "l2", "l3", "l4"}},
		},
	}

	got := strings.Split(ansi.Strip(RenderGrid(state)), "\n")
	want := []string{
		"     A     ",
		"     G1    ",
		"1    l0    ",
		"     l1    ",
		"2    l2    ",
		"     l3    ",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "abc", width: 5, want: "abc  "},
		{in: "abcdef", width: 4, want: "abc…"},
		{in: "abc", width: 0, want: ""},
	}
	for _, tt := range tests {
		if got := Fit(tt.in, tt.width); got != tt.want {
			t.Errorf("Fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
