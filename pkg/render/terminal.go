package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// HalfBlock is the glyph used to pack two framebuffer rows into one terminal
// cell: the foreground paints the top pixel, the background the bottom one.
const HalfBlock = "▀"

// CellColors returns the top and bottom pixel colors backing terminal cell
// (col, row).
func (fb *Framebuffer) CellColors(col, row int) (top, bottom color.RGBA) {
	return fb.GetColor(col, row*2).ToRGBA(), fb.GetColor(col, row*2+1).ToRGBA()
}

// Draw converts the framebuffer to terminal cells and draws them on the
// screen inside area. The framebuffer height should be 2x the area height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		for col := area.Min.X; col < area.Max.X; col++ {
			x, y := col-area.Min.X, row-area.Min.Y
			if x >= fb.Width {
				break
			}
			top, bot := fb.CellColors(x, y)
			scr.SetCell(col, row, &uv.Cell{
				Content: HalfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: top,
					Bg: bot,
				},
			})
		}
	}
}

// TerminalRenderer draws frames onto a fixed region of a terminal screen.
type TerminalRenderer struct {
	screen uv.Screen
	cols   int
	rows   int
}

// NewTerminalRenderer creates a renderer for a cols×rows cell region.
func NewTerminalRenderer(scr uv.Screen, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{screen: scr, cols: cols, rows: rows}
}

// FramebufferSize returns the pixel dimensions a frame needs to fill the
// region: one pixel per column, two per row.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Resize updates the region after a terminal resize.
func (t *TerminalRenderer) Resize(cols, rows int) {
	t.cols, t.rows = cols, rows
}

// Render draws fb at the top-left of the screen.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.screen, uv.Rect(0, 0, t.cols, t.rows))
}
