// Package surface implements the frame surface the player renders into and
// the accessor used to move RGBA samples in and out of a rectangular region.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"
)

// Sample is a single RGBA pixel, 8 bits per channel.
type Sample struct {
	R, G, B, A uint8
}

// RGBA converts the sample into a color usable by image/draw.
func (s Sample) RGBA() color.RGBA {
	return color.RGBA{R: s.R, G: s.G, B: s.B, A: s.A}
}

// PixelBuffer holds the samples of one region in row-major order.
type PixelBuffer []Sample

// Surface is the drawable that holds the most recently composited frame.
// It has no internal locking; callers serialize access.
type Surface struct {
	img *image.RGBA
}

// New allocates a transparent surface of the given size
func New(width, height int) *Surface {
	return &Surface{
		img: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// Bounds returns the surface rectangle, always anchored at the origin.
func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

// Snapshot returns a deep copy of the surface contents.
func (s *Surface) Snapshot() *image.RGBA {
	dst := image.NewRGBA(s.img.Bounds())
	copy(dst.Pix, s.img.Pix)
	return dst
}

// At returns the sample at (x, y). Points outside the surface read as zero.
func (s *Surface) At(x, y int) Sample {
	c := s.img.RGBAAt(x, y)
	return Sample{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Read copies the samples of region r out of the surface.
func (s *Surface) Read(r Region) (PixelBuffer, error) {
	if !r.Within(s.Bounds()) {
		return nil, fmt.Errorf("read %v from %v surface: %w", r, s.Bounds().Size(), ErrOutOfBounds)
	}

	buf := make(PixelBuffer, 0, r.Area())
	for y := r.Y; y < r.Y+r.Height; y++ {
		off := s.img.PixOffset(r.X, y)
		row := s.img.Pix[off : off+4*r.Width]
		for i := 0; i < len(row); i += 4 {
			buf = append(buf, Sample{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]})
		}
	}
	return buf, nil
}

// Write stores buf into region r. The buffer must hold exactly r.Area() samples.
func (s *Surface) Write(r Region, buf PixelBuffer) error {
	if !r.Within(s.Bounds()) {
		return fmt.Errorf("write %v to %v surface: %w", r, s.Bounds().Size(), ErrOutOfBounds)
	}
	if len(buf) != r.Area() {
		return fmt.Errorf("write %d samples to %v: %w", len(buf), r, ErrSizeMismatch)
	}

	k := 0
	for y := r.Y; y < r.Y+r.Height; y++ {
		off := s.img.PixOffset(r.X, y)
		row := s.img.Pix[off : off+4*r.Width]
		for i := 0; i < len(row); i += 4 {
			px := buf[k]
			row[i], row[i+1], row[i+2], row[i+3] = px.R, px.G, px.B, px.A
			k++
		}
	}
	return nil
}

// FillRect paints rect with a solid sample, replacing what was there.
// The rectangle is clipped to the surface.
func (s *Surface) FillRect(rect image.Rectangle, c Sample) {
	rect = rect.Intersect(s.img.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(s.img, rect, image.NewUniform(c.RGBA()), image.Point{}, draw.Src)
}

// Fit scales frame to size. Frames that already have that size are returned
// as they are.
func Fit(frame image.Image, size image.Point) image.Image {
	if frame == nil || frame.Bounds().Size() == size {
		return frame
	}
	return resize.Resize(uint(size.X), uint(size.Y), frame, resize.Lanczos3)
}

// Composite copies frame onto the surface, anchored at the origin and
// clipped to the surface. It never scales; use Fit first for frames of
// another size. A nil frame leaves the surface as it is.
func (s *Surface) Composite(frame image.Image) {
	if frame == nil {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), frame, frame.Bounds().Min, draw.Src)
}
