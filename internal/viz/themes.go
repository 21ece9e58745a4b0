package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fission/internal/entity"
)

// Theme is the colour scheme for the playfield and side panel. Colours are hex
// so the SVG exporter can reuse them.
type Theme struct {
	Name       string
	Normal     lipgloss.Color
	Time       lipgloss.Color
	Supernova  lipgloss.Color
	BlackHole  lipgloss.Color
	Well       lipgloss.Color
	Neutron    lipgloss.Color
	Text       lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Background lipgloss.Color
}

var (
	ThemeReactor = Theme{
		Name:       "reactor",
		Normal:     lipgloss.Color("#00ff88"),
		Time:       lipgloss.Color("#00ccff"),
		Supernova:  lipgloss.Color("#ffaa00"),
		BlackHole:  lipgloss.Color("#cc66ff"),
		Well:       lipgloss.Color("#666688"),
		Neutron:    lipgloss.Color("#ffffff"),
		Text:       lipgloss.Color("#ffee66"),
		Accent:     lipgloss.Color("#00ffff"),
		Muted:      lipgloss.Color("#666688"),
		Background: lipgloss.Color("#0a0a0a"),
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Normal:     lipgloss.Color("#00ff00"),
		Time:       lipgloss.Color("#88ff88"),
		Supernova:  lipgloss.Color("#ffff00"),
		BlackHole:  lipgloss.Color("#00cc00"),
		Well:       lipgloss.Color("#005500"),
		Neutron:    lipgloss.Color("#ccffcc"),
		Text:       lipgloss.Color("#88ff88"),
		Accent:     lipgloss.Color("#00ff00"),
		Muted:      lipgloss.Color("#005500"),
		Background: lipgloss.Color("#001100"),
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Normal:     lipgloss.Color("#ff6b6b"),
		Time:       lipgloss.Color("#feca57"),
		Supernova:  lipgloss.Color("#ff9ff3"),
		BlackHole:  lipgloss.Color("#8b6b8c"),
		Well:       lipgloss.Color("#4a3b4c"),
		Neutron:    lipgloss.Color("#fff5f5"),
		Text:       lipgloss.Color("#ffc048"),
		Accent:     lipgloss.Color("#ff9ff3"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Background: lipgloss.Color("#2d1b2e"),
	}

	Themes = []Theme{ThemeReactor, ThemeRetroGreen, ThemeSunset}
)

// GetTheme returns the named theme, falling back to the reactor theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeReactor
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// AtomColor picks the colour for an atom by variant; wells use the well colour.
func (t Theme) AtomColor(a *entity.Atom) lipgloss.Color {
	if a.Well() {
		return t.Well
	}
	switch a.Kind() {
	case entity.KindTime:
		return t.Time
	case entity.KindSupernova:
		return t.Supernova
	case entity.KindBlackHole:
		return t.BlackHole
	default:
		return t.Normal
	}
}
