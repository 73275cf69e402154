// Package theme defines the color palettes of the fincmd dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps dashboard roles to colors.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // cards and panels
	SurfaceHover  lipgloss.Color // selected row, active tab
	SurfaceBright lipgloss.Color
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // focused input

	TextDim     lipgloss.Color // hints, disabled rows
	TextMuted   lipgloss.Color // labels
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	// Signal hues. Green and Red also color signed amounts.
	Green       lipgloss.Color
	GreenBright lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color
	Blue        lipgloss.Color
	Yellow      lipgloss.Color
	Magenta     lipgloss.Color
	Cyan        lipgloss.Color
}

// tones is a theme before role assignment.
type tones struct {
	ramp   [5]string // background, surface, hover, bright surface, border
	ink    [3]string // dim, muted, primary
	accent [3]string // accent, bright accent, focus border
	// green, bright green, orange, red, blue, yellow, magenta, cyan
	signal [8]string
}

func newTheme(name string, t tones) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:          name,
		Background:    c(t.ramp[0]),
		Surface:       c(t.ramp[1]),
		SurfaceHover:  c(t.ramp[2]),
		SurfaceBright: c(t.ramp[3]),
		Border:        c(t.ramp[4]),
		BorderAccent:  c(t.accent[2]),
		TextDim:       c(t.ink[0]),
		TextMuted:     c(t.ink[1]),
		TextPrimary:   c(t.ink[2]),
		Accent:        c(t.accent[0]),
		AccentBright:  c(t.accent[1]),
		Green:         c(t.signal[0]),
		GreenBright:   c(t.signal[1]),
		Orange:        c(t.signal[2]),
		Red:           c(t.signal[3]),
		Blue:          c(t.signal[4]),
		Yellow:        c(t.signal[5]),
		Magenta:       c(t.signal[6]),
		Cyan:          c(t.signal[7]),
	}
}

// Active is the theme the dashboard renders with.
var Active = FlexokiDark

// Flexoki, dark and light. The default.
var (
	FlexokiDark = newTheme("flexoki-dark", tones{
		ramp:   [5]string{"#100F0F", "#1C1B1A", "#282726", "#343331", "#403E3C"},
		ink:    [3]string{"#575653", "#878580", "#FFFCF0"},
		accent: [3]string{"#3AA99F", "#5BC8BE", "#3AA99F"},
		signal: [8]string{"#879A39", "#A3B859", "#DA702C", "#D14D41", "#4385BE", "#D0A215", "#CE5D97", "#24837B"},
	})
	FlexokiLight = newTheme("flexoki-light", tones{
		ramp:   [5]string{"#FFFCF0", "#F2F0E5", "#E6E4D9", "#DAD8CE", "#CECDC3"},
		ink:    [3]string{"#B7B5AC", "#6F6E69", "#100F0F"},
		accent: [3]string{"#24837B", "#1C6C66", "#24837B"},
		signal: [8]string{"#66800B", "#536907", "#BC5215", "#AF3029", "#205EA6", "#AD8301", "#A02F6F", "#24837B"},
	})
)

// CatppuccinMocha uses the Mocha flavour's surface and pastel hues.
var CatppuccinMocha = newTheme("catppuccin-mocha", tones{
	ramp:   [5]string{"#1E1E2E", "#313244", "#45475A", "#585B70", "#585B70"},
	ink:    [3]string{"#6C7086", "#A6ADC8", "#CDD6F4"},
	accent: [3]string{"#89B4FA", "#B4D0FB", "#89B4FA"},
	signal: [8]string{"#A6E3A1", "#C6F6C1", "#FAB387", "#F38BA8", "#89B4FA", "#F9E2AF", "#F5C2E7", "#94E2D5"},
})

// TokyoNight uses the Night variant's blues and purples.
var TokyoNight = newTheme("tokyo-night", tones{
	ramp:   [5]string{"#1A1B26", "#24283B", "#343A52", "#414868", "#565F89"},
	ink:    [3]string{"#565F89", "#A9B1D6", "#C0CAF5"},
	accent: [3]string{"#7AA2F7", "#A9C1FF", "#7AA2F7"},
	signal: [8]string{"#9ECE6A", "#B9E87A", "#FF9E64", "#F7768E", "#7AA2F7", "#E0AF68", "#BB9AF7", "#7DCFFF"},
})

// Terminal sticks to the 16 ANSI colors.
var Terminal = newTheme("terminal", tones{
	ramp:   [5]string{"0", "0", "8", "8", "8"},
	ink:    [3]string{"8", "7", "15"},
	accent: [3]string{"6", "14", "6"},
	signal: [8]string{"2", "10", "3", "1", "4", "3", "5", "6"},
})

// All available themes.
var All = []Theme{FlexokiDark, FlexokiLight, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// ForMode resolves the configured theme against the ledger's light/dark
// display mode. Only the Flexoki pair has both variants; other themes are
// returned as configured.
func ForMode(name string, light bool) Theme {
	switch {
	case light && name == FlexokiDark.Name:
		return FlexokiLight
	case !light && name == FlexokiLight.Name:
		return FlexokiDark
	default:
		return ByName(name)
	}
}

// Sign picks the color for a signed amount: green above zero, red below.
func (t Theme) Sign(v float64) lipgloss.Color {
	switch {
	case v > 0:
		return t.Green
	case v < 0:
		return t.Red
	default:
		return t.TextPrimary
	}
}
