package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/theirongolddev/fincmd/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRow(t *testing.T) {
	widths := LayoutRow(101, 4)
	if len(widths) != 4 {
		t.Fatalf("len = %d, want 4", len(widths))
	}
	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != 101 {
		t.Errorf("sum = %d, want 101", sum)
	}
	if widths[0] != 26 || widths[3] != 25 {
		t.Errorf("widths = %v, want remainder on the first items", widths)
	}
	if LayoutRow(10, 0) != nil {
		t.Error("LayoutRow(n=0) should be nil")
	}
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	short := ContentCard("Short", "Content", 22)
	tall := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(short)
	tallLines := lipgloss.Height(tall)
	if shortLines >= tallLines {
		t.Fatal("short card should be shorter than tall card")
	}

	lines := strings.Split(CardRow([]string{tall, short}), "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 44 {
			t.Errorf("line %d width = %d, want 44", i, w)
		}
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("padding line %d is unstyled: %q", i, line)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	row := MetricCardRow([]Metric{
		{Label: "Surplus", Value: "1,200.00"},
		{Label: "Liquidity", Value: "5,400.00", Note: "7 lines"},
		{Label: "Food", Value: "18 days", Tone: theme.Active.Red},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestHBarChart(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := HBarChart([]Bar{
		{Label: "Health", Value: 100, Text: "100.00"},
		{Label: "Groceries", Value: 50, Text: "50.00"},
		{Label: "Car", Value: -20, Text: "-20.00"},
	}, theme.Active.Blue, 40)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	full := strings.Count(lines[0], "█")
	half := strings.Count(lines[1], "█")
	if full == 0 || half == 0 || half >= full {
		t.Errorf("bar lengths full=%d half=%d, want 0 < half < full", full, half)
	}
	if strings.Contains(lines[2], "█") {
		t.Error("negative value should render no bar")
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 40 {
			t.Errorf("line %d width = %d, want 40", i, w)
		}
	}
}

func TestSparklineScalesMinToMax(t *testing.T) {
	out := Sparkline([]float64{-50, 0, 50}, theme.Active.Accent)
	for _, r := range []string{"▁", "█"} {
		if !strings.Contains(out, r) {
			t.Errorf("Sparkline = %q, missing %s", out, r)
		}
	}
	if Sparkline(nil, theme.Active.Accent) != "" {
		t.Error("empty series should render nothing")
	}
}

func TestRemainingBarColor(t *testing.T) {
	if got := ColorForRemaining(0.05); got != theme.Active.Red {
		t.Errorf("ColorForRemaining(0.05) = %v, want red", got)
	}
	if got := ColorForRemaining(0.9); got != theme.Active.Green {
		t.Errorf("ColorForRemaining(0.9) = %v, want green", got)
	}
	if !strings.Contains(RemainingBar("Oats", 30, 60, 10, 20), "50%") {
		t.Error("RemainingBar should show 50%")
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('i'); got != 2 {
		t.Errorf("TabIdxByKey('i') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Errorf("TabIdxByKey('z') = %d, want -1", got)
	}
}
