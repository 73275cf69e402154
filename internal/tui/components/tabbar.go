package components

import (
	"strings"

	"github.com/theirongolddev/fincmd/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name
}

// Tabs defines all available tabs, in display order.
var Tabs = []Tab{
	{Name: "Ledger", Key: 'l', KeyPos: 0},
	{Name: "Plan", Key: 'p', KeyPos: 0},
	{Name: "Liquidity", Key: 'i', KeyPos: 4},
	{Name: "Activity", Key: 'a', KeyPos: 0},
	{Name: "Settings", Key: 's', KeyPos: 0},
}

func renderTab(tab Tab, active bool) string {
	t := theme.Active

	if active {
		return lipgloss.NewStyle().
			Foreground(t.AccentBright).
			Background(t.SurfaceHover).
			Bold(true).
			Padding(0, 1).
			Render(tab.Name)
	}

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	before := tab.Name[:tab.KeyPos]
	key := string(tab.Name[tab.KeyPos])
	after := tab.Name[tab.KeyPos+1:]

	return base.Render(" "+before) +
		dimStyle.Render("[") + keyStyle.Render(key) + dimStyle.Render("]") +
		base.Render(after+" ")
}

// TabVisualWidth returns the rendered width of a tab, used for mouse hit testing.
func TabVisualWidth(tab Tab, active bool) int {
	return lipgloss.Width(renderTab(tab, active))
}

// RenderTabBar renders a single-row tab bar padded to width.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active
	sep := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface).Render("│")

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		parts = append(parts, renderTab(tab, i == activeIdx))
	}
	bar := strings.Join(parts, sep)

	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(bar)
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
