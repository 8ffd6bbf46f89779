package main

import (
	"fmt"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/taigrr/lumen/pkg/math3d"
)

var (
	hudBase   = lipgloss.NewStyle().Background(lipgloss.Color("#000000")).Padding(0, 1)
	hudFPS    = hudBase.Foreground(lipgloss.Color("#5FFF87"))
	hudTitle  = hudBase.Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	hudCount  = hudBase.Foreground(lipgloss.Color("#5FD7FF")).Bold(true)
	hudStatus = hudBase.Foreground(lipgloss.Color("#FFFFFF"))
	hudPaused = hudBase.Foreground(lipgloss.Color("#FFD75F")).Bold(true)
	hudHint   = hudBase.Foreground(lipgloss.Color("#FFD75F")).Faint(true)
)

// HUD renders an overlay with scene info and camera state.
type HUD struct {
	filename   string
	primitives int
	fps        float64
	fpsFrames  int
	fpsTime    time.Time
}

// NewHUD creates a new HUD
func NewHUD(filename string, primitives int) *HUD {
	return &HUD{
		filename:   filename,
		primitives: primitives,
		fpsTime:    time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// cameraStatus is the camera state shown on the bottom HUD line.
type cameraStatus struct {
	Theta  float64
	Origin math3d.Vec3
	Paused bool
}

// TopLine returns the styled fps, file name and primitive count.
func (h *HUD) TopLine() (left, center, right string) {
	return hudFPS.Render(fmt.Sprintf("%.0f FPS", h.fps)),
		hudTitle.Render(h.filename),
		hudCount.Render(fmt.Sprintf("%d prims", h.primitives))
}

// BottomLine returns the styled camera status and key hint.
func (h *HUD) BottomLine(st cameraStatus) (left, right string) {
	status := fmt.Sprintf("θ %+6.1f°  origin (%.2f, %.2f, %.2f)", st.Theta, st.Origin.X, st.Origin.Y, st.Origin.Z)
	left = hudStatus.Render(status)
	if st.Paused {
		left += hudPaused.Render("paused")
	}
	return left, hudHint.Render("space: pause")
}

// Render draws the HUD overlay directly to the terminal.
func (h *HUD) Render(width, height int, show bool, st cameraStatus) {
	const clearLine = "\x1b[2K"
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)
	if !show {
		return
	}

	left, center, right := h.TopLine()
	fmt.Print(moveTo(1, 1) + left)
	fmt.Print(moveTo(1, max((width-lipgloss.Width(center))/2, 1)) + center)
	fmt.Print(moveTo(1, max(width-lipgloss.Width(right)+1, 1)) + right)

	status, hint := h.BottomLine(st)
	fmt.Print(moveTo(height, 1) + status)
	fmt.Print(moveTo(height, max(width-lipgloss.Width(hint)+1, 1)) + hint)
}
