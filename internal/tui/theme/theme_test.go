package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestByNameFallsBackToFlexoki(t *testing.T) {
	if got := ByName("tokyo-night").Name; got != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got)
	}
	if got := ByName("nope").Name; got != FlexokiDark.Name {
		t.Errorf("ByName(nope) = %q, want %q", got, FlexokiDark.Name)
	}
}

func TestForMode(t *testing.T) {
	tests := []struct {
		name  string
		light bool
		want  string
	}{
		{"flexoki-dark", true, "flexoki-light"},
		{"flexoki-light", false, "flexoki-dark"},
		{"flexoki-dark", false, "flexoki-dark"},
		{"catppuccin-mocha", true, "catppuccin-mocha"},
	}
	for _, tt := range tests {
		if got := ForMode(tt.name, tt.light).Name; got != tt.want {
			t.Errorf("ForMode(%q, %v) = %q, want %q", tt.name, tt.light, got, tt.want)
		}
	}
}

func TestSign(t *testing.T) {
	th := FlexokiDark
	if th.Sign(1) != th.Green || th.Sign(-1) != th.Red || th.Sign(0) != th.TextPrimary {
		t.Error("Sign picked the wrong colors")
	}
}

func TestNamesMatchesAll(t *testing.T) {
	names := Names()
	if len(names) != len(All) || names[0] != FlexokiDark.Name {
		t.Errorf("Names() = %v", names)
	}
}

func TestNewThemeAssignsRoles(t *testing.T) {
	tests := []struct {
		name string
		got  lipgloss.Color
		want lipgloss.Color
	}{
		{"flexoki-dark background", FlexokiDark.Background, "#100F0F"},
		{"flexoki-dark border", FlexokiDark.Border, "#403E3C"},
		{"flexoki-light text", FlexokiLight.TextPrimary, "#100F0F"},
		{"catppuccin red", CatppuccinMocha.Red, "#F38BA8"},
		{"tokyo-night focus border", TokyoNight.BorderAccent, "#7AA2F7"},
		{"terminal cyan", Terminal.Cyan, "6"},
		{"terminal bright accent", Terminal.AccentBright, "14"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}
