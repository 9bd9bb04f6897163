// Package transform implements the region-local effects applied to each
// rendered frame.
//
// Every transform reads the samples of one region from the surface, computes
// the effect and writes the result back into that same region. Pixels outside
// the region are never touched.
package transform

import (
	"fmt"

	"github.com/rviscarra/canvas-player/internal/surface"
)

// DefaultSampleSize is the mosaic block edge length in pixels.
const DefaultSampleSize = 10

// Transform applies an effect to a region of the surface.
type Transform interface {
	// Apply processes region r of s in place
	Apply(s *surface.Surface, r surface.Region) error
	// Name returns the transform name for logs and status
	Name() string
}

// For returns the transform that implements mode.
func For(mode Mode, sampleSize int) (Transform, error) {
	switch mode {
	case PassThrough:
		return Identity{}, nil
	case Invert:
		return InvertTransform{}, nil
	case Mosaic:
		return NewMosaic(sampleSize), nil
	}
	return nil, fmt.Errorf("%v: %w", mode, ErrUnknownMode)
}

// Identity leaves the composited frame as it is.
type Identity struct{}

// Apply does nothing.
func (Identity) Apply(*surface.Surface, surface.Region) error {
	return nil
}

// Name returns the effect name.
func (Identity) Name() string {
	return "Identity"
}
