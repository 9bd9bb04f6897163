package transform

import (
	"fmt"
	"image"

	"github.com/rviscarra/canvas-player/internal/surface"
)

// MosaicTransform renders a region as a grid of solid blocks, each colored
// with the sample found at the block's top-left corner.
type MosaicTransform struct {
	sampleSize int
}

// NewMosaic creates a mosaic with the given block edge length.
// Values below 1 fall back to DefaultSampleSize.
func NewMosaic(sampleSize int) *MosaicTransform {
	if sampleSize < 1 {
		sampleSize = DefaultSampleSize
	}
	return &MosaicTransform{
		sampleSize: sampleSize,
	}
}

// SampleSize returns the block edge length.
func (m *MosaicTransform) SampleSize() int {
	return m.sampleSize
}

// Apply pixelates region r. Rows of the sampled buffer are r.Width samples
// apart. Blocks on the right and bottom edges are clipped to the region.
func (m *MosaicTransform) Apply(s *surface.Surface, r surface.Region) error {
	buf, err := s.Read(r)
	if err != nil {
		return err
	}

	bounds := r.Rect()
	for i := r.Y; i < r.Y+r.Height; i += m.sampleSize {
		for j := r.X; j < r.X+r.Width; j += m.sampleSize {
			p := (j - r.X) + (i-r.Y)*r.Width
			block := image.Rect(j, i, j+m.sampleSize, i+m.sampleSize).Intersect(bounds)
			s.FillRect(block, buf[p])
		}
	}
	return nil
}

// Blocks returns how many blocks Apply paints for region r.
func (m *MosaicTransform) Blocks(r surface.Region) int {
	if r.Empty() {
		return 0
	}
	cols := (r.Width + m.sampleSize - 1) / m.sampleSize
	rows := (r.Height + m.sampleSize - 1) / m.sampleSize
	return cols * rows
}

// Name returns the effect name.
func (m *MosaicTransform) Name() string {
	return fmt.Sprintf("Mosaic(%d)", m.sampleSize)
}
