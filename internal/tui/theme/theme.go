// Package theme holds the terminal color scheme.
package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/voeis/seqplot/internal/color"
)

// Theme is a set of named terminal colors.
type Theme struct {
	Name string

	Base     lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Surface2 lipgloss.Color
	Overlay  lipgloss.Color
	Text     lipgloss.Color
	Subtext  lipgloss.Color

	Primary  lipgloss.Color
	Lavender lipgloss.Color
	Blue     lipgloss.Color
	Green    lipgloss.Color
	Yellow   lipgloss.Color
	Red      lipgloss.Color

	// Palette colors series by selection index.
	Palette color.Palette
}

// Mocha is the dark theme.
var Mocha = Theme{
	Name:     "mocha",
	Base:     "#1e1e2e",
	Surface0: "#313244",
	Surface1: "#45475a",
	Surface2: "#585b70",
	Overlay:  "#6c7086",
	Text:     "#cdd6f4",
	Subtext:  "#a6adc8",
	Primary:  "#89b4fa",
	Lavender: "#b4befe",
	Blue:     "#89b4fa",
	Green:    "#a6e3a1",
	Yellow:   "#f9e2af",
	Red:      "#f38ba8",
	Palette:  color.DefaultPalette(),
}

// Latte is the light theme. Series colors are darker to stay readable.
var Latte = Theme{
	Name:     "latte",
	Base:     "#eff1f5",
	Surface0: "#ccd0da",
	Surface1: "#bcc0cc",
	Surface2: "#acb0be",
	Overlay:  "#9ca0b0",
	Text:     "#4c4f69",
	Subtext:  "#6c6f85",
	Primary:  "#1e66f5",
	Lavender: "#7287fd",
	Blue:     "#1e66f5",
	Green:    "#40a02b",
	Yellow:   "#df8e1d",
	Red:      "#d20f39",
	Palette:  color.Palette{StartHue: color.DefaultStartHue, Saturation: 1, Lightness: 0.4},
}

// Plain has no colors at all.
var Plain = Theme{
	Name:    "plain",
	Palette: color.DefaultPalette(),
}

var (
	mu       sync.RWMutex
	override *Theme
	noColor  bool
)

// NoColorEnabled reports whether color output is disabled by SetNoColor,
// NO_COLOR or SEQPLOT_NO_COLOR.
func NoColorEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	if noColor {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	v := strings.ToLower(os.Getenv("SEQPLOT_NO_COLOR"))
	return v == "1" || v == "true"
}

// SetNoColor disables colors for the rest of the process and switches
// lipgloss to the ASCII profile.
func SetNoColor(disable bool) {
	mu.Lock()
	noColor = disable
	mu.Unlock()
	if disable {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// Set forces a theme, e.g. from config. Nil restores detection.
func Set(t *Theme) {
	mu.Lock()
	defer mu.Unlock()
	override = t
}

// ByName returns a theme by name.
func ByName(name string) (Theme, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mocha", "dark":
		return Mocha, true
	case "latte", "light":
		return Latte, true
	case "plain", "none":
		return Plain, true
	}
	return Theme{}, false
}

// Current returns the active theme: Plain when colors are off, then a theme
// set with Set, then SEQPLOT_THEME, then one matching the terminal
// background.
func Current() Theme {
	if NoColorEnabled() {
		return Plain
	}
	mu.RLock()
	o := override
	mu.RUnlock()
	if o != nil {
		return *o
	}
	if t, ok := ByName(os.Getenv("SEQPLOT_THEME")); ok {
		return t
	}
	if lipgloss.HasDarkBackground() {
		return Mocha
	}
	return Latte
}

// Series returns the color of series index, or no color for Plain.
func (t Theme) Series(index int) lipgloss.TerminalColor {
	if t.Name == Plain.Name {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(t.Palette.Hex(index))
}
