// Package config loads viewer settings from a YAML file and PLANVIEW_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/milk9111/planview/geometry"
	"github.com/milk9111/planview/viewport"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides, e.g. PLANVIEW_WINDOW_WIDTH.
const EnvPrefix = "PLANVIEW"

type Config struct {
	Window WindowConfig `yaml:"window" envconfig:"WINDOW"`
	View   ViewConfig   `yaml:"view" envconfig:"VIEW"`
	Colors ColorConfig  `yaml:"colors" envconfig:"COLORS"`
	Info   InfoConfig   `yaml:"info" envconfig:"INFO"`
}

type WindowConfig struct {
	Width  int    `yaml:"width" envconfig:"WIDTH"`
	Height int    `yaml:"height" envconfig:"HEIGHT"`
	Title  string `yaml:"title" envconfig:"TITLE"`
}

type ViewConfig struct {
	FitMargin       float64 `yaml:"fit_margin" envconfig:"FIT_MARGIN"`
	ZoomStep        float64 `yaml:"zoom_step" envconfig:"ZOOM_STEP"`
	MarkerUnitScale float64 `yaml:"marker_unit_scale" envconfig:"MARKER_UNIT_SCALE"`
	MinMarkerPixels float64 `yaml:"min_marker_pixels" envconfig:"MIN_MARKER_PIXELS"`
	// PathBounds is "scan" or "parsed".
	PathBounds string `yaml:"path_bounds" envconfig:"PATH_BOUNDS"`
	// RedrawFPS paces headless redraw loops.
	RedrawFPS int `yaml:"redraw_fps" envconfig:"REDRAW_FPS"`
}

type ColorConfig struct {
	Background geometry.Color            `yaml:"background" envconfig:"BACKGROUND"`
	Hover      geometry.Color            `yaml:"hover" envconfig:"HOVER"`
	Materials  map[string]geometry.Color `yaml:"materials" ignored:"true"`
}

type InfoConfig struct {
	// Script is a tengo file that formats hover text. Empty uses the
	// built-in format.
	Script string `yaml:"script" envconfig:"SCRIPT"`
}

// Default returns the built-in settings.
func Default() Config {
	materials := make(map[string]geometry.Color)
	for name, c := range geometry.DefaultPalette() {
		materials[name] = geometry.Color{Color: c}
	}
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "planview"},
		View: ViewConfig{
			FitMargin:       viewport.DefaultFitMargin,
			ZoomStep:        viewport.ZoomStep,
			MarkerUnitScale: viewport.MarkerUnitScale,
			MinMarkerPixels: viewport.MinMarkerPixels,
			PathBounds:      viewport.PathBoundsScan.String(),
			RedrawFPS:       60,
		},
		Colors: ColorConfig{
			Background: geometry.Color{Color: color.White},
			Hover:      geometry.Color{Color: geometry.DefaultHoverFill},
			Materials:  materials,
		},
	}
}

// Load reads filename over the defaults and then applies environment
// overrides. An empty filename skips the file.
func Load(filename string) (Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", filename, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: unmarshal %s: %w", filename, err)
		}
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the viewer cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if !(c.View.FitMargin > 0) {
		errs = append(errs, fmt.Errorf("view.fit_margin %v must be positive", c.View.FitMargin))
	}
	if !(c.View.ZoomStep > 1) {
		errs = append(errs, fmt.Errorf("view.zoom_step %v must be greater than 1", c.View.ZoomStep))
	}
	if !(c.View.MarkerUnitScale > 0) {
		errs = append(errs, fmt.Errorf("view.marker_unit_scale %v must be positive", c.View.MarkerUnitScale))
	}
	if c.View.MinMarkerPixels < 0 {
		errs = append(errs, fmt.Errorf("view.min_marker_pixels %v must not be negative", c.View.MinMarkerPixels))
	}
	if p := c.View.PathBounds; p != "scan" && p != "parsed" {
		errs = append(errs, fmt.Errorf("view.path_bounds %q must be scan or parsed", p))
	}
	if c.View.RedrawFPS <= 0 {
		errs = append(errs, fmt.Errorf("view.redraw_fps %d must be positive", c.View.RedrawFPS))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid: %w", err)
	}
	return nil
}

// Palette returns the material fills.
func (c Config) Palette() geometry.Palette {
	p := geometry.DefaultPalette()
	for name, col := range c.Colors.Materials {
		if col.Color != nil {
			p[name] = col.Color
		}
	}
	return p
}

// RendererOptions maps the view and colour settings onto the renderer.
func (c Config) RendererOptions() viewport.Options {
	return viewport.Options{
		Background:      c.Colors.Background.Or(color.White),
		HoverFill:       c.Colors.Hover.Or(geometry.DefaultHoverFill),
		Palette:         c.Palette(),
		FitMargin:       c.View.FitMargin,
		ZoomStep:        c.View.ZoomStep,
		MarkerUnitScale: c.View.MarkerUnitScale,
		MinMarkerPixels: c.View.MinMarkerPixels,
		PathBounds:      viewport.ParsePathBounds(c.View.PathBounds),
	}
}
