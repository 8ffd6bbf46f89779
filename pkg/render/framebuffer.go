// Package render holds lumen's output side: colors, the framebuffer the ray
// tracer fills, the pinhole camera and its orbit animation, and the
// terminal and PNG presenters.
package render

import (
	"image"

	"github.com/fogleman/gg"
)

// Framebuffer is a 2D array of colors written by the ray tracer and read by
// a presenter. Row 0 is the top of the image.
type Framebuffer struct {
	Width  int     // Width in pixels
	Height int     // Height in pixels
	Pixels []Color // Row-major pixel data
}

// NewFramebuffer creates a black framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Clear resets every pixel to black. Animated views call it between frames.
func (fb *Framebuffer) Clear() {
	fb.Fill(Black)
}

// Fill sets every pixel to c.
func (fb *Framebuffer) Fill(c Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetColor sets the pixel at (x, y).
// Bounds checking is performed.
func (fb *Framebuffer) SetColor(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetColor returns the color at (x, y).
// Returns black if out of bounds.
func (fb *Framebuffer) GetColor(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Black
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x].ToRGBA())
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	return gg.SavePNG(path, fb.ToImage())
}
