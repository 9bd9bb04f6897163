package source

import (
	"image"
	"io"
)

// SMPTE color bars, left to right
var barColors = [7][3]uint8{
	{192, 192, 192}, // Gray
	{192, 192, 0},   // Yellow
	{0, 192, 192},   // Cyan
	{0, 192, 0},     // Green
	{192, 0, 192},   // Magenta
	{192, 0, 0},     // Red
	{0, 0, 192},     // Blue
}

// PatternSource generates color bars that scroll one pixel per frame.
type PatternSource struct {
	*paced
	bounds image.Rectangle
}

// NewPatternSource creates a paused test pattern source. A positive limit
// ends the stream after that many frames.
func NewPatternSource(width, height, fps int, limit uint64) *PatternSource {
	bounds := image.Rect(0, 0, width, height)
	grab := func(n uint64) (*image.RGBA, error) {
		if limit > 0 && n >= limit {
			return nil, io.EOF
		}
		return PatternFrame(bounds, int(n)), nil
	}
	return &PatternSource{
		paced:  newPaced("pattern", fps, grab),
		bounds: bounds,
	}
}

// Bounds returns the generated frame rectangle
func (p *PatternSource) Bounds() image.Rectangle {
	return p.bounds
}

// PatternFrame renders the bars shifted left by offset pixels.
func PatternFrame(bounds image.Rectangle, offset int) *image.RGBA {
	img := image.NewRGBA(bounds)
	width := bounds.Dx()
	barWidth := width / 7
	if barWidth == 0 {
		barWidth = 1
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := 0; x < width; x++ {
			barIdx := ((x + offset) % width) / barWidth
			if barIdx >= 7 {
				barIdx = 6
			}
			i := img.PixOffset(bounds.Min.X+x, y)
			img.Pix[i] = barColors[barIdx][0]
			img.Pix[i+1] = barColors[barIdx][1]
			img.Pix[i+2] = barColors[barIdx][2]
			img.Pix[i+3] = 255
		}
	}
	return img
}
