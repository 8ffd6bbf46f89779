package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/raytrace"
	"github.com/taigrr/lumen/pkg/render"
)

const (
	moveStep  = 0.25 // origin units per key press
	nudgeStep = 30.0 // degrees per second added to the orbit
)

type viewOptions struct {
	fps   int
	swing float64
}

func newViewCmd(a *app) *cobra.Command {
	opts := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view <scene>",
		Short: "Watch a scene in the terminal with an orbiting camera",
		Long: `Watch a scene in the terminal with an orbiting camera.

Controls:
  Space       pause/resume the orbit
  Left/Right  nudge the orbit
  W/S         move the camera forward/back
  A/D         move the camera left/right
  R           reset camera and orbit
  ?           toggle HUD overlay
  Esc         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runView(cmd.Context(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.fps, "fps", 30, "target frames per second")
	f.Float64Var(&opts.swing, "swing", render.DefaultSwing, "orbit amplitude in degrees (0 = still)")
	return cmd
}

// viewState is the interactive camera state driven by key presses.
type viewState struct {
	cam     *render.Camera
	orbit   *render.Orbit
	home    math3d.Vec3
	showHUD bool
	quit    bool
}

// handleKey applies one key press to the view.
func (v *viewState) handleKey(ev uv.KeyPressEvent) {
	switch {
	case ev.MatchString("esc", "escape", "ctrl+c"):
		v.quit = true
	case ev.MatchString("space"):
		v.orbit.TogglePause()
	case ev.MatchString("left"):
		v.orbit.Nudge(-nudgeStep)
	case ev.MatchString("right"):
		v.orbit.Nudge(nudgeStep)
	case ev.MatchString("w", "up"):
		v.cam.Move(math3d.V3(0, 0, moveStep))
	case ev.MatchString("s", "down"):
		v.cam.Move(math3d.V3(0, 0, -moveStep))
	case ev.MatchString("a"):
		v.cam.Move(math3d.V3(-moveStep, 0, 0))
	case ev.MatchString("d"):
		v.cam.Move(math3d.V3(moveStep, 0, 0))
	case ev.MatchString("r"):
		v.cam.SetOrigin(v.home)
		v.orbit.Reset()
	case ev.MatchString("?", "shift+/"):
		v.showHUD = !v.showHUD
	}
}

// status reports the camera state for the HUD.
func (v *viewState) status() cameraStatus {
	return cameraStatus{
		Theta:  v.cam.Theta,
		Origin: v.cam.Origin,
		Paused: v.orbit.Paused,
	}
}

func (a *app) runView(ctx context.Context, scenePath string, opts *viewOptions) error {
	if opts.fps < 1 {
		return fmt.Errorf("invalid fps %d", opts.fps)
	}

	s, err := a.loadScene(scenePath)
	if err != nil {
		return err
	}
	// Frame logs would scribble over the alternate screen.
	rt, err := a.newTracer(s, nil)
	if err != nil {
		return err
	}

	state := &viewState{
		cam:   a.newCamera(s),
		orbit: render.NewOrbit(opts.fps, opts.swing),
		home:  a.origin.Vec3,
	}
	state.orbit.Theta = a.theta

	// Create terminal
	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	termRenderer := render.NewTerminalRenderer(term, width, height)
	fb := render.NewFramebuffer(termRenderer.FramebufferSize())
	hud := NewHUD(filepath.Base(scenePath), s.PrimitiveCount())
	events := term.Events()

	targetDuration := time.Second / time.Duration(opts.fps)
	frames := 0
	start := time.Now()

	for !state.quit {
		now := time.Now()

		// Drain pending input before the frame.
	drain:
		for {
			select {
			case <-ctx.Done():
				state.quit = true
				break drain
			case ev, ok := <-events:
				if !ok {
					state.quit = true
					break drain
				}
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					termRenderer.Resize(width, height)
					fb = render.NewFramebuffer(termRenderer.FramebufferSize())
				case uv.KeyPressEvent:
					state.handleKey(ev)
				}
			default:
				break drain
			}
		}
		if state.quit {
			break
		}

		if err := state.step(ctx, rt, fb); err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			cleanup()
			return err
		}

		termRenderer.Render(fb)
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		// HUD overlay (always update FPS, render clears lines when HUD off)
		hud.UpdateFPS()
		hud.Render(width, height, state.showHUD, state.status())
		frames++

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}

	cleanup()
	a.logger.Debug("view closed",
		"frames", frames,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// step advances the orbit and renders the next frame into fb.
func (v *viewState) step(ctx context.Context, rt *raytrace.Raytracer, fb *render.Framebuffer) error {
	v.cam.SetTheta(v.orbit.Update())
	fb.Clear()
	return rt.RenderContext(ctx, fb, v.cam)
}
