package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/lumen/pkg/math3d"
	"github.com/taigrr/lumen/pkg/raytrace"
	"github.com/taigrr/lumen/pkg/render"
	"github.com/taigrr/lumen/pkg/scene"
)

// app carries state shared by every subcommand.
type app struct {
	logger  *log.Logger
	verbose bool

	bounces int
	workers int
	theta   float64
	origin  vec3Value
}

func newRootCmd() *cobra.Command {
	a := &app{
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix:          "lumen",
			ReportTimestamp: true,
		}),
	}

	root := &cobra.Command{
		Use:           "lumen",
		Short:         "Whitted ray tracer for text scene files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if a.verbose {
				a.logger.SetLevel(log.DebugLevel)
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")
	pf.IntVar(&a.bounces, "bounces", raytrace.DefaultMaxBounces, "mirror reflection depth")
	pf.IntVar(&a.workers, "workers", 0, "rows rendered in parallel (0 = one per CPU)")
	pf.Float64Var(&a.theta, "theta", 0, "camera rotation about the Y axis in degrees")
	pf.Var(&a.origin, "origin", "camera origin as x,y,z")

	root.AddCommand(newRenderCmd(a), newViewCmd(a))
	return root
}

// loadScene parses the scene at path and logs what it contains.
func (a *app) loadScene(path string) (*scene.Scene, error) {
	s, err := scene.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	a.logger.Debug("scene loaded",
		"path", path,
		"spheres", len(s.Spheres),
		"triangles", len(s.Triangles),
		"lights", s.LightCount(),
		"materials", len(s.Materials),
	)
	return s, nil
}

// newTracer builds a ray tracer for s from the command line options.
// frameLogger receives per-frame debug lines and may be nil.
func (a *app) newTracer(s *scene.Scene, frameLogger *log.Logger) (*raytrace.Raytracer, error) {
	rt, err := raytrace.New(s, raytrace.Options{
		MaxBounces: a.bounces,
		Workers:    a.workers,
		Logger:     frameLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("create tracer: %w", err)
	}
	return rt, nil
}

// newCamera returns the camera described by the command line options.
func (a *app) newCamera(s *scene.Scene) *render.Camera {
	cam := render.NewCamera()
	cam.SetOrigin(a.origin.Vec3)
	cam.SetTheta(a.theta)
	cam.FocalLength = s.FocalLength
	return cam
}

// vec3Value is a flag value parsed from "x,y,z".
type vec3Value struct {
	math3d.Vec3
}

func (v *vec3Value) String() string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

func (v *vec3Value) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("parse %q: %w", p, err)
		}
		xyz[i] = f
	}
	v.Vec3 = math3d.V3(xyz[0], xyz[1], xyz[2])
	return nil
}

func (v *vec3Value) Type() string {
	return "x,y,z"
}
