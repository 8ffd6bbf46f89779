// lumen - Whitted ray tracer for the terminal
// Render text scene files to PNG, or watch them in your terminal with an
// orbiting camera.
//
// Usage:
//
//	lumen render scene.scene --out scene.png --width 800 --height 600
//	lumen view scene.scene --swing 15
//
// View controls:
//
//	Space       - Pause/resume the orbit
//	Left/Right  - Nudge the orbit
//	W/S         - Move the camera forward/back
//	A/D         - Move the camera left/right
//	R           - Reset camera and orbit
//	?           - Toggle HUD overlay
//	Esc         - Quit
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}
