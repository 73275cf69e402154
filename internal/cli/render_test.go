package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestRenderTable_Alignment(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Label", "Balance"},
		Rows: [][]string{
			{"Oats", "60.00"},
			{"---"},
			{"Total", "1,060.00"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != lipgloss.Width(lines[0]) {
			t.Errorf("line %d width %d, want %d", i, w, lipgloss.Width(lines[0]))
		}
	}
	if !strings.Contains(lines[3], "│ Oats  │    60.00 │") {
		t.Errorf("row not aligned: %q", lines[3])
	}
}

func TestRenderTable_Empty(t *testing.T) {
	if got := RenderTable(Table{}); got != "" {
		t.Errorf("RenderTable(empty) = %q, want empty", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	got := RenderProgressBar(7, 28, 8)
	if !strings.Contains(got, "██░░░░░░") || !strings.HasSuffix(got, "7/28") {
		t.Errorf("RenderProgressBar = %q", got)
	}
	if RenderProgressBar(1, 0, 8) != "" {
		t.Error("zero total should render nothing")
	}
}

func TestRenderSparkline(t *testing.T) {
	if got := RenderSparkline([]float64{-10, 0, 10}); got != "▁▄█" {
		t.Errorf("RenderSparkline = %q, want ▁▄█", got)
	}
	if got := RenderSparkline([]float64{5, 5}); got != "▁▁" {
		t.Errorf("flat sparkline = %q, want ▁▁", got)
	}
}
