// Package config holds the player configuration: defaults, an optional
// YAML file, command line flags and validation.
package config

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rviscarra/canvas-player/internal/surface"
	"github.com/rviscarra/canvas-player/internal/transform"
)

// Validation errors.
var (
	// ErrInvalidRegion indicates an effect region that can never be rendered.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrInvalidConfig indicates any other rejected setting.
	ErrInvalidConfig = errors.New("invalid config")
)

// Source kinds
const (
	SourcePattern = "pattern"
	SourceScreen  = "screen"
)

// Region defaults. Region fields left unset fall back to these.
var (
	DefaultInvertRegion = surface.Region{X: 100, Y: 100, Width: 100, Height: 50}
	DefaultMosaicRegion = surface.Region{X: 10, Y: 30, Width: 100, Height: 100}
)

// RegionConfig is a region whose fields may be individually omitted.
type RegionConfig struct {
	X      *int `yaml:"x,omitempty"`
	Y      *int `yaml:"y,omitempty"`
	Width  *int `yaml:"width,omitempty"`
	Height *int `yaml:"height,omitempty"`
}

// Resolve fills every unset field from def.
func (r RegionConfig) Resolve(def surface.Region) surface.Region {
	pick := func(v *int, d int) int {
		if v == nil {
			return d
		}
		return *v
	}
	return surface.Region{
		X:      pick(r.X, def.X),
		Y:      pick(r.Y, def.Y),
		Width:  pick(r.Width, def.Width),
		Height: pick(r.Height, def.Height),
	}
}

// String formats the set fields as key=value pairs
func (r *RegionConfig) String() string {
	if r == nil {
		return ""
	}
	var parts []string
	for _, f := range r.fields() {
		if *f.ptr != nil {
			parts = append(parts, fmt.Sprintf("%s=%d", f.name, **f.ptr))
		}
	}
	return strings.Join(parts, ",")
}

// Set parses "x=10,y=30,width=100,height=100"; any subset of keys is allowed.
// It implements flag.Value.
func (r *RegionConfig) Set(value string) error {
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("region field %q: expected key=value", pair)
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("region field %q: %w", key, err)
		}
		found := false
		for _, f := range r.fields() {
			if f.name == strings.ToLower(strings.TrimSpace(key)) {
				*f.ptr = &n
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown region field %q", key)
		}
	}
	return nil
}

type regionField struct {
	name string
	ptr  **int
}

func (r *RegionConfig) fields() []regionField {
	return []regionField{
		{"x", &r.X},
		{"y", &r.Y},
		{"width", &r.Width},
		{"height", &r.Height},
	}
}

// Config is the complete player configuration.
type Config struct {
	HTTPPort      string       `yaml:"http_port"`
	Width         int          `yaml:"width"`
	Height        int          `yaml:"height"`
	FPS           int          `yaml:"fps"`
	Source        string       `yaml:"source"`
	Screen        int          `yaml:"screen"`
	PatternFrames uint64       `yaml:"pattern_frames"`
	SampleSize    int          `yaml:"sample_size"`
	LogLevel      string       `yaml:"log_level"`
	InvertRegion  RegionConfig `yaml:"invert_region"`
	MosaicRegion  RegionConfig `yaml:"mosaic_region"`
}

// Default returns the built-in configuration.
func Default() Config {
	x, y, w, h := DefaultInvertRegion.X, DefaultInvertRegion.Y, DefaultInvertRegion.Width, DefaultInvertRegion.Height
	return Config{
		HTTPPort:   "9000",
		Width:      460,
		Height:     270,
		FPS:        60,
		Source:     SourcePattern,
		SampleSize: transform.DefaultSampleSize,
		LogLevel:   "info",
		InvertRegion: RegionConfig{
			X:      &x,
			Y:      &y,
			Width:  &w,
			Height: &h,
		},
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return cfg, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// BindFlags registers a flag for every setting, using the current values as
// defaults, so flags given on the command line override file values.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.HTTPPort, "http.port", c.HTTPPort, "HTTP listen port")
	fs.IntVar(&c.Width, "surface.width", c.Width, "surface width in pixels")
	fs.IntVar(&c.Height, "surface.height", c.Height, "surface height in pixels")
	fs.IntVar(&c.FPS, "fps", c.FPS, "refresh rate of the frame pump")
	fs.StringVar(&c.Source, "source", c.Source, "video source: pattern or screen")
	fs.IntVar(&c.Screen, "screen", c.Screen, "screen index for the screen source")
	fs.Uint64Var(&c.PatternFrames, "pattern.frames", c.PatternFrames, "end the pattern stream after N frames (0 = never)")
	fs.IntVar(&c.SampleSize, "mosaic.sample", c.SampleSize, "mosaic block edge length")
	fs.StringVar(&c.LogLevel, "log.level", c.LogLevel, "log level")
	fs.Var(&c.InvertRegion, "invert.region", "invert region as x=,y=,width=,height=")
	fs.Var(&c.MosaicRegion, "mosaic.region", "mosaic region as x=,y=,width=,height=")
}

// Regions returns the resolved invert and mosaic regions.
func (c Config) Regions() (invert, mosaic surface.Region) {
	return c.InvertRegion.Resolve(DefaultInvertRegion), c.MosaicRegion.Resolve(DefaultMosaicRegion)
}

// Validate checks the configuration before it is used.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("surface %dx%d: %w", c.Width, c.Height, ErrInvalidConfig)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps %d: %w", c.FPS, ErrInvalidConfig)
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("mosaic sample size %d: %w", c.SampleSize, ErrInvalidConfig)
	}
	if c.Source != SourcePattern && c.Source != SourceScreen {
		return fmt.Errorf("source %q: %w", c.Source, ErrInvalidConfig)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %v: %w", err, ErrInvalidConfig)
	}

	invert, mosaic := c.Regions()
	bounds := image.Rect(0, 0, c.Width, c.Height)
	for name, r := range map[string]surface.Region{"invert": invert, "mosaic": mosaic} {
		switch {
		case r.X < 0 || r.Y < 0:
			return fmt.Errorf("%s region %v has a negative origin: %w", name, r, ErrInvalidRegion)
		case r.Empty():
			return fmt.Errorf("%s region %v is empty: %w", name, r, ErrInvalidRegion)
		case r.Clamp(bounds).Empty():
			return fmt.Errorf("%s region %v lies outside the %dx%d surface: %w", name, r, c.Width, c.Height, ErrInvalidRegion)
		}
	}
	return nil
}
