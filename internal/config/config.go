// Package config holds the cropctl configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/sebnyberg/cropview/geom"
)

// Engines that can perform the crop.
const (
	EngineImaging    = "imaging"
	EngineDraw       = "draw"
	EngineVips       = "vips"
	EngineVipsStream = "vips-stream"
	EngineVipsFile   = "vips-file"
	EngineBMP        = "bmp"
	EngineTIFF       = "tiff"
)

var engines = map[string]bool{
	EngineImaging: true, EngineDraw: true, EngineVips: true,
	EngineVipsStream: true, EngineVipsFile: true, EngineBMP: true, EngineTIFF: true,
}

// InMemory reports whether engine decodes the whole image before cropping.
func InMemory(engine string) bool {
	return engine == EngineImaging || engine == EngineDraw || engine == EngineVips
}

// Config holds runtime configuration. Fields may be loaded from a YAML file
// and overridden by command-line flags.
type Config struct {
	ShadedOpacity      float64 `yaml:"shaded_opacity"`
	TransparentOpacity float64 `yaml:"transparent_opacity"`
	TapSlop            float64 `yaml:"tap_slop"`
	Resolution         string  `yaml:"resolution"`
	Engine             string  `yaml:"engine"`
	// Filter names the resampling filter of the imaging or draw engine.
	Filter   string `yaml:"filter"`
	LogLevel string `yaml:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `yaml:"log_format"`
	Output    Output `yaml:"output"`

	// Selection is the last committed crop rectangle in display space.
	Selection Selection `yaml:"selection"`
}

// Output controls how crops are written.
type Output struct {
	// Format is the file format: png, jpeg, gif, bmp or tiff. Empty means
	// derive it from the output path.
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`
	// Compress wraps the output in seekable zstd.
	Compress bool `yaml:"compress"`
}

type Selection struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Rect returns the selection as a rectangle.
func (s Selection) Rect() geom.Rect { return geom.Rc(s.X, s.Y, s.W, s.H) }

// Empty reports whether there is no saved selection.
func (s Selection) Empty() bool { return s.W <= 0 || s.H <= 0 }

// SelectionOf converts a rectangle to a Selection.
func SelectionOf(r geom.Rect) Selection {
	return Selection{X: r.Origin.X, Y: r.Origin.Y, W: r.Size.W, H: r.Size.H}
}

// Default returns a Config populated with standard defaults.
func Default() *Config {
	return &Config{
		ShadedOpacity:      0.65,
		TransparentOpacity: 0,
		TapSlop:            10,
		Resolution:         "native",
		Engine:             EngineImaging,
		Filter:             "lanczos",
		LogLevel:           "info",
		LogFormat:          "console",
		Output:             Output{Quality: 95},
	}
}

// Validate resets out-of-range values to their defaults. The returned error
// lists every field that was reset; the config is usable either way.
func (c *Config) Validate() error {
	d := Default()
	var err error
	reset := func(field string, v any) {
		err = multierr.Append(err, fmt.Errorf("%s: invalid value %v, using default", field, v))
	}
	if c.ShadedOpacity < 0 || c.ShadedOpacity > 1 {
		reset("shaded_opacity", c.ShadedOpacity)
		c.ShadedOpacity = d.ShadedOpacity
	}
	if c.TransparentOpacity < 0 || c.TransparentOpacity > 1 {
		reset("transparent_opacity", c.TransparentOpacity)
		c.TransparentOpacity = d.TransparentOpacity
	}
	if c.TapSlop < 0 {
		reset("tap_slop", c.TapSlop)
		c.TapSlop = d.TapSlop
	}
	if c.Resolution != "native" && c.Resolution != "display" {
		reset("resolution", c.Resolution)
		c.Resolution = d.Resolution
	}
	if !engines[c.Engine] {
		reset("engine", c.Engine)
		c.Engine = d.Engine
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		reset("log_format", c.LogFormat)
		c.LogFormat = d.LogFormat
	}
	if c.Output.Quality < 1 || c.Output.Quality > 100 {
		reset("output.quality", c.Output.Quality)
		c.Output.Quality = d.Output.Quality
	}
	if c.Selection.W < 0 || c.Selection.H < 0 {
		reset("selection", c.Selection)
		c.Selection = Selection{}
	}
	return err
}

// Load reads the configuration at path. A missing file yields Default().
// Validation problems are returned alongside a usable config; check with
// IsValidation.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config err, %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return Default(), fmt.Errorf("parse config %q err, %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, &ValidationError{err}
	}
	return cfg, nil
}

// ValidationError wraps the fields Validate had to reset.
type ValidationError struct{ err error }

func (e *ValidationError) Error() string { return "config: " + e.err.Error() }
func (e *ValidationError) Unwrap() error { return e.err }

// Problems lists the individual fields that were reset.
func (e *ValidationError) Problems() []error { return multierr.Errors(e.err) }

// IsValidation reports whether err only describes reset fields.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config err, %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config err, %w", err)
	}
	return nil
}
