package raytrace

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/lumen/pkg/render"
	"github.com/taigrr/lumen/pkg/scene"
)

// DefaultMaxBounces is the mirror recursion budget of a primary ray.
const DefaultMaxBounces = 3

// Options configures a Raytracer.
type Options struct {
	// MaxBounces limits mirror recursion per primary ray. Negative values
	// are treated as 0.
	MaxBounces int
	// Workers is the number of rows rendered concurrently. Values below 1
	// mean runtime.NumCPU().
	Workers int
	// Logger receives one debug line per frame. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		MaxBounces: DefaultMaxBounces,
		Workers:    runtime.NumCPU(),
	}
}

// Raytracer renders one immutable scene. It is safe for concurrent use.
type Raytracer struct {
	scene  *scene.Scene
	lights []Light
	opts   Options
}

// New creates a Raytracer for s. It fails with an error wrapping
// scene.ErrUnresolvedMaterial if a primitive's material does not resolve.
func New(s *scene.Scene, opts Options) (*Raytracer, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene: %w", err)
	}
	opts.MaxBounces = max(opts.MaxBounces, 0)
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	return &Raytracer{
		scene:  s,
		lights: Lights(s),
		opts:   opts,
	}, nil
}

// Scene returns the scene being rendered.
func (r *Raytracer) Scene() *scene.Scene {
	return r.scene
}

// Options returns the effective options.
func (r *Raytracer) Options() Options {
	return r.opts
}

// Render shades every pixel of fb as seen from cam.
func (r *Raytracer) Render(fb *render.Framebuffer, cam *render.Camera) {
	// Background contexts are never canceled.
	_ = r.RenderContext(context.Background(), fb, cam)
}

// RenderContext is Render with cancellation between rows. On cancellation
// the frame is left partially written and the returned error wraps ctx.Err().
func (r *Raytracer) RenderContext(ctx context.Context, fb *render.Framebuffer, cam *render.Camera) error {
	start := time.Now()
	vp := cam.Viewport(fb.Width, fb.Height, r.scene.FocalLength)

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for y := 0; y < fb.Height; y++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.renderRow(fb, vp, y)
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("render frame: %w", err)
	}

	if r.opts.Logger != nil {
		r.opts.Logger.Debug("frame rendered",
			"width", fb.Width,
			"rows", fb.Height,
			"theta", cam.Theta,
			"duration", time.Since(start),
		)
	}
	return nil
}

func (r *Raytracer) renderRow(fb *render.Framebuffer, vp render.Viewport, y int) {
	for x := 0; x < fb.Width; x++ {
		origin, dir := vp.Ray(x, y)
		fb.SetColor(x, y, r.Shade(Ray{origin, dir}, r.opts.MaxBounces))
	}
}
