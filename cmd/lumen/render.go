package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taigrr/lumen/pkg/render"
)

type renderOptions struct {
	width  int
	height int
	out    string
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <scene>",
		Short: "Render a scene to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.width, "width", 640, "image width in pixels")
	f.IntVar(&opts.height, "height", 480, "image height in pixels")
	f.StringVarP(&opts.out, "out", "o", "", "output PNG path (default: scene name with .png)")
	return cmd
}

// outputPath derives "<scene>.png" in the working directory when no
// output was given.
func outputPath(scenePath, out string) string {
	if out != "" {
		return out
	}
	base := filepath.Base(scenePath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

func (a *app) runRender(cmd *cobra.Command, scenePath string, opts *renderOptions) error {
	if opts.width < 1 || opts.height < 1 {
		return fmt.Errorf("invalid image size %dx%d", opts.width, opts.height)
	}

	s, err := a.loadScene(scenePath)
	if err != nil {
		return err
	}
	rt, err := a.newTracer(s, a.logger)
	if err != nil {
		return err
	}

	fb := render.NewFramebuffer(opts.width, opts.height)
	start := time.Now()
	if err := rt.RenderContext(cmd.Context(), fb, a.newCamera(s)); err != nil {
		return err
	}

	out := outputPath(scenePath, opts.out)
	if err := fb.SavePNG(out); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	a.logger.Info("wrote image",
		"path", out,
		"size", fmt.Sprintf("%dx%d", opts.width, opts.height),
		"primitives", s.PrimitiveCount(),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}
