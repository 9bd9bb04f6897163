package transform

import (
	"github.com/rviscarra/canvas-player/internal/surface"
)

// InvertTransform inverts the color channels of a region, leaving alpha alone.
type InvertTransform struct{}

// Apply reads region r, inverts it and writes it back.
func (InvertTransform) Apply(s *surface.Surface, r surface.Region) error {
	buf, err := s.Read(r)
	if err != nil {
		return err
	}
	return s.Write(r, InvertBuffer(buf))
}

// Name returns the effect name.
func (InvertTransform) Name() string {
	return "Invert"
}

// InvertBuffer returns a new buffer with every color channel replaced by
// 255 minus its value. The input is not modified.
func InvertBuffer(buf surface.PixelBuffer) surface.PixelBuffer {
	out := make(surface.PixelBuffer, len(buf))
	for i, px := range buf {
		out[i] = surface.Sample{
			R: 255 - px.R,
			G: 255 - px.G,
			B: 255 - px.B,
			A: px.A,
		}
	}
	return out
}
