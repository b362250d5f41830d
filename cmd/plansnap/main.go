// Command plansnap renders a plan to PNG without opening a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/milk9111/planview/config"
	"github.com/milk9111/planview/geometry"
	"github.com/milk9111/planview/render"
	"github.com/milk9111/planview/scene"
	"github.com/milk9111/planview/viewport"
)

type snapOptions struct {
	Width, Height int
	Hide          []string
	Zoom          float64
	Dump          bool
}

func main() {
	sceneName := flag.String("scene", scene.DefaultSample, "scene file, or the name of a bundled sample")
	configPath := flag.String("config", "", "YAML settings file (PLANVIEW_* env vars override it)")
	out := flag.String("o", "plan.png", "output PNG path")
	width := flag.Int("w", 0, "image width (default: window.width from config)")
	height := flag.Int("h", 0, "image height (default: window.height from config)")
	hide := flag.String("hide", "", "comma-separated layers to hide")
	zoom := flag.Float64("zoom", 1, "zoom factor applied around the image centre after fitting")
	dump := flag.Bool("dump", false, "print the draw operations to stdout")
	watch := flag.Bool("watch", false, "re-render whenever the scene file changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	opts := snapOptions{
		Width:  *width,
		Height: *height,
		Hide:   splitList(*hide),
		Zoom:   *zoom,
		Dump:   *dump,
	}
	if opts.Width <= 0 {
		opts.Width = cfg.Window.Width
	}
	if opts.Height <= 0 {
		opts.Height = cfg.Window.Height
	}

	snap := func() {
		entities, err := scene.Load(*sceneName)
		if err != nil {
			log.Printf("plansnap: %v", err)
			return
		}
		img, ops, err := snapshot(cfg, entities, opts)
		if err != nil {
			log.Printf("plansnap: %v", err)
			return
		}
		if opts.Dump {
			fmt.Print(ops)
		}
		if err := writePNG(*out, img); err != nil {
			log.Printf("plansnap: %v", err)
			return
		}
		log.Printf("plansnap: wrote %s (%d entities)", *out, len(entities))
	}

	if !*watch {
		snap()
		return
	}

	w, err := scene.Watch(*sceneName)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sched viewport.Scheduler
	sched.Request()
	go func() {
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				sched.Request()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("plansnap: watch: %v", err)
			}
		}
	}()

	interval := time.Second / time.Duration(cfg.View.RedrawFPS)
	if err := sched.Run(ctx, interval, snap); err != nil && err != context.Canceled {
		log.Fatal(err)
	}
	stats := sched.Stats()
	log.Printf("plansnap: %d renders for %d changes", stats.Draws, stats.Requests)
}

// snapshot renders entities headlessly. The returned summary lists the
// draw operations when opts.Dump is set.
func snapshot(cfg config.Config, entities []geometry.Entity, opts snapOptions) (*image.RGBA, string, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, "", fmt.Errorf("plansnap: invalid size %dx%d", opts.Width, opts.Height)
	}

	r := viewport.NewRenderer(opts.Width, opts.Height, cfg.RendererOptions())
	r.LoadGeometry(entities)
	for _, layer := range opts.Hide {
		r.UpdateLayerVisibility(layer, false)
	}
	if opts.Zoom > 0 && opts.Zoom != 1 {
		r.Camera().ZoomAt(float64(opts.Width)/2, float64(opts.Height)/2, opts.Zoom)
		r.RequestRender()
	}

	raster := render.NewRaster(opts.Width, opts.Height)
	r.Frame(raster)

	var summary string
	if opts.Dump {
		rec := render.NewRecorder(opts.Width, opts.Height)
		r.Draw(rec)
		summary = rec.Summary()
	}
	return raster.Image(), summary, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plansnap: create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("plansnap: encode %s: %w", path, err)
	}
	return f.Close()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
