package render

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGB color with float channels. Channels are nominally in
// [0, 1]; scaling may push them past 1 until the next Add or the final
// conversion to 8 bits.
type Color struct {
	R, G, B float64
}

// C creates a Color from its channels.
func C(r, g, b float64) Color {
	return Color{r, g, b}
}

// Colors for convenience
var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
)

// Add returns the channel-wise sum, saturating every channel at 1.
func (c Color) Add(o Color) Color {
	return Color{
		min(c.R+o.R, 1),
		min(c.G+o.G, 1),
		min(c.B+o.B, 1),
	}
}

// Scale multiplies every channel by s without clamping.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s}
}

// ApproxEqual reports whether c and o differ by at most eps on every channel.
func (c Color) ApproxEqual(o Color, eps float64) bool {
	return abs(c.R-o.R) <= eps && abs(c.G-o.G) <= eps && abs(c.B-o.B) <= eps
}

// ToRGBA clamps c to [0, 1] and converts it to an opaque 8-bit color.
func (c Color) ToRGBA() color.RGBA {
	r, g, b := colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().RGB255()
	return color.RGBA{r, g, b, 255}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
