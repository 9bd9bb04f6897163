package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rviscarra/canvas-player/internal/surface"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	invert, mosaic := cfg.Regions()
	assert.Equal(t, surface.Region{X: 100, Y: 100, Width: 100, Height: 50}, invert)
	assert.Equal(t, surface.Region{X: 10, Y: 30, Width: 100, Height: 100}, mosaic)
}

func TestRegionConfig_PartialFallsBackToDefaults(t *testing.T) {
	var rc RegionConfig
	require.NoError(t, rc.Set("x=5, width=40"))

	got := rc.Resolve(DefaultMosaicRegion)
	assert.Equal(t, surface.Region{X: 5, Y: 30, Width: 40, Height: 100}, got)
	assert.Equal(t, "x=5,width=40", rc.String())
}

func TestRegionConfig_SetErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing value", "x"},
		{"not a number", "x=ten"},
		{"unknown key", "depth=3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rc RegionConfig
			assert.Error(t, rc.Set(tt.input))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }, ErrInvalidConfig},
		{"zero width", func(c *Config) { c.Width = 0 }, ErrInvalidConfig},
		{"negative fps", func(c *Config) { c.FPS = -30 }, ErrInvalidConfig},
		{"zero sample", func(c *Config) { c.SampleSize = 0 }, ErrInvalidConfig},
		{"negative sample", func(c *Config) { c.SampleSize = -4 }, ErrInvalidConfig},
		{"bad source", func(c *Config) { c.Source = "webcam" }, ErrInvalidConfig},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, ErrInvalidConfig},
		{"negative origin", func(c *Config) { _ = c.MosaicRegion.Set("x=-1") }, ErrInvalidRegion},
		{"empty region", func(c *Config) { _ = c.InvertRegion.Set("height=0") }, ErrInvalidRegion},
		{"outside surface", func(c *Config) { _ = c.MosaicRegion.Set("x=500") }, ErrInvalidRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == ErrInvalidConfig {
				assert.NotErrorIs(t, err, ErrInvalidRegion)
			}
		})
	}

	t.Run("partially outside is allowed", func(t *testing.T) {
		cfg := Default()
		require.NoError(t, cfg.MosaicRegion.Set("x=400"))
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.yaml")
	data := []byte(`
http_port: "8080"
fps: 30
source: pattern
mosaic_region:
  x: 100
  y: 100
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 460, cfg.Width)

	_, mosaic := cfg.Regions()
	assert.Equal(t, surface.Region{X: 100, Y: 100, Width: 100, Height: 100}, mosaic)
}

func TestLoad_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colour: red\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestBindFlags_OverrideFile(t *testing.T) {
	cfg := Default()
	cfg.FPS = 30

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-source", "screen", "-invert.region", "y=20"}))

	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, SourceScreen, cfg.Source)
	invert, _ := cfg.Regions()
	assert.Equal(t, surface.Region{X: 100, Y: 20, Width: 100, Height: 50}, invert)
}
