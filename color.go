package termsdf

import (
	"github.com/chewxy/math32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB color with components nominally in [0,1].
type Color struct {
	R, G, B float32
}

// ColorFromHex parses a "#rrggbb" or "#rgb" color.
func ColorFromHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return FromColorful(c), nil
}

// FromColorful converts a go-colorful color.
func FromColorful(c colorful.Color) Color {
	return Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// Colorful converts c to a go-colorful color.
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// Hex returns c clamped and formatted as "#rrggbb".
func (c Color) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// RGB255 returns c clamped and quantized to 8 bits per channel.
func (c Color) RGB255() (r, g, b uint8) {
	return c.Colorful().Clamped().RGB255()
}

func (c Color) Add(d Color) Color { return Color{R: c.R + d.R, G: c.G + d.G, B: c.B + d.B} }

func (c Color) Mul(d Color) Color { return Color{R: c.R * d.R, G: c.G * d.G, B: c.B * d.B} }

func (c Color) Scale(f float32) Color { return Color{R: c.R * f, G: c.G * f, B: c.B * f} }

// Clamp limits every channel to [0,1]. NaN channels become 0.
func (c Color) Clamp() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

func clamp01(v float32) float32 {
	if math32.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// Brightness is the mean of the three channels.
func (c Color) Brightness() float32 {
	return (c.R + c.G + c.B) / 3
}

// MaxChannel returns the largest channel value.
func (c Color) MaxChannel() float32 {
	return math32.Max(c.R, math32.Max(c.G, c.B))
}
