// Package color assigns each series index a color by stepping the hue by the
// golden angle, so any run of consecutive indices gets well spread hues.
package color

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GoldenAngle is the hue step between consecutive indices, in degrees.
const GoldenAngle = 137.5077640500379

// DefaultStartHue is the hue of index 0.
const DefaultStartHue = 210

// Hue returns the hue in [0, 360) for index.
func Hue(index int, startHue float64) int {
	h := int(math.Round(GoldenAngle*float64(index) + startHue))
	return ((h % 360) + 360) % 360
}

// HSL formats the color of index as "h, s%, l%" with saturation and
// lightness in [0, 1].
func HSL(index int, saturation, lightness float64) string {
	return fmt.Sprintf("%d, %g%%, %g%%", Hue(index, DefaultStartHue), saturation*100, lightness*100)
}

// Palette generates colors from a fixed start hue, saturation and lightness.
type Palette struct {
	StartHue   float64
	Saturation float64
	Lightness  float64
}

// DefaultPalette returns fully saturated colors at half lightness.
func DefaultPalette() Palette {
	return Palette{StartHue: DefaultStartHue, Saturation: 1, Lightness: 0.5}
}

// Color returns the color of index.
func (p Palette) Color(index int) colorful.Color {
	return colorful.Hsl(float64(Hue(index, p.StartHue)), p.Saturation, p.Lightness)
}

// Hex returns the color of index as "#rrggbb".
func (p Palette) Hex(index int) string {
	return p.Color(index).Clamped().Hex()
}

// Hex returns the default palette color of index.
func Hex(index int) string {
	return DefaultPalette().Hex(index)
}
