package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/DaanHessen/cramweek/internal/engine"
)

type palette struct {
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Accent   lipgloss.Color
	Border   lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Danger   lipgloss.Color
	BarFill  lipgloss.Color
	BarEmpty lipgloss.Color
}

var palettes = map[string]palette{
	"campus": {
		Text:     lipgloss.Color("#e8e6e3"),
		Muted:    lipgloss.Color("#9a9a9a"),
		Accent:   lipgloss.Color("#f2a65a"),
		Border:   lipgloss.Color("#5c5c5c"),
		Success:  lipgloss.Color("#7fc97f"),
		Warning:  lipgloss.Color("#f4d35e"),
		Danger:   lipgloss.Color("#ee6055"),
		BarFill:  lipgloss.Color("#7fc97f"),
		BarEmpty: lipgloss.Color("#3a3a3a"),
	},
	"midnight": {
		Text:     lipgloss.Color("#cdd6f4"),
		Muted:    lipgloss.Color("#a6adc8"),
		Accent:   lipgloss.Color("#cba6f7"),
		Border:   lipgloss.Color("#585b70"),
		Success:  lipgloss.Color("#94e2d5"),
		Warning:  lipgloss.Color("#f9e2af"),
		Danger:   lipgloss.Color("#f38ba8"),
		BarFill:  lipgloss.Color("#94e2d5"),
		BarEmpty: lipgloss.Color("#313244"),
	},
	"paper": {
		Text:     lipgloss.Color("#3c3836"),
		Muted:    lipgloss.Color("#7c6f64"),
		Accent:   lipgloss.Color("#af3a03"),
		Border:   lipgloss.Color("#bdae93"),
		Success:  lipgloss.Color("#79740e"),
		Warning:  lipgloss.Color("#b57614"),
		Danger:   lipgloss.Color("#9d0006"),
		BarFill:  lipgloss.Color("#79740e"),
		BarEmpty: lipgloss.Color("#d5c4a1"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["campus"]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string, step int) string {
	names := themeNames()
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	idx = (idx + step) % len(names)
	if idx < 0 {
		idx += len(names)
	}
	return names[idx]
}

// logColor maps a log line type onto the palette.
func (p palette) logColor(t engine.LogType) lipgloss.Color {
	switch t {
	case engine.LogSuccess:
		return p.Success
	case engine.LogWarning:
		return p.Warning
	case engine.LogDanger:
		return p.Danger
	case engine.LogSystem:
		return p.Accent
	}
	return p.Text
}

func (p palette) riskColor(r engine.RiskTier) lipgloss.Color {
	switch r {
	case engine.RiskHigh:
		return p.Danger
	case engine.RiskLow:
		return p.Warning
	}
	return p.Success
}
