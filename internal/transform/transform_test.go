package transform

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rviscarra/canvas-player/internal/surface"
)

// createTestSurface returns a surface whose pixel (x, y) is {x, y, x+y, 255}.
func createTestSurface(w, h int) *surface.Surface {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: uint8(x + y), A: 255})
		}
	}
	s := surface.New(w, h)
	s.Composite(img)
	return s
}

func randomBuffer(n int, seed int64) surface.PixelBuffer {
	rng := rand.New(rand.NewSource(seed))
	buf := make(surface.PixelBuffer, n)
	for i := range buf {
		buf[i] = surface.Sample{
			R: uint8(rng.Intn(256)),
			G: uint8(rng.Intn(256)),
			B: uint8(rng.Intn(256)),
			A: uint8(rng.Intn(256)),
		}
	}
	return buf
}

// assertOutsideUntouched compares every pixel outside r between two surfaces.
func assertOutsideUntouched(t *testing.T, before *image.RGBA, after *surface.Surface, r surface.Region) {
	t.Helper()
	rect := r.Rect()
	b := after.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if (image.Point{X: x, Y: y}).In(rect) {
				continue
			}
			want := before.RGBAAt(x, y)
			got := after.At(x, y)
			if got.RGBA() != want {
				t.Fatalf("pixel (%d,%d) outside %v changed: %v -> %v", x, y, r, want, got)
			}
		}
	}
}

func TestInvertBuffer_Involutive(t *testing.T) {
	for _, seed := range []int64{1, 7, 42} {
		buf := randomBuffer(500, seed)
		assert.Equal(t, buf, InvertBuffer(InvertBuffer(buf)))
	}
}

func TestInvertBuffer_PreservesAlphaAndLength(t *testing.T) {
	buf := randomBuffer(321, 3)
	orig := append(surface.PixelBuffer(nil), buf...)

	out := InvertBuffer(buf)
	require.Len(t, out, len(buf))
	for i := range buf {
		assert.Equal(t, buf[i].A, out[i].A)
		assert.Equal(t, 255-buf[i].R, out[i].R)
	}
	assert.Equal(t, orig, buf, "input buffer must not be modified")
}

func TestInvertTransform_RedRegion(t *testing.T) {
	s := surface.New(460, 270)
	r := surface.Region{X: 100, Y: 100, Width: 100, Height: 50}
	s.FillRect(r.Rect(), surface.Sample{R: 255, A: 255})
	before := s.Snapshot()

	require.NoError(t, InvertTransform{}.Apply(s, r))

	buf, err := s.Read(r)
	require.NoError(t, err)
	for _, px := range buf {
		require.Equal(t, surface.Sample{R: 0, G: 255, B: 255, A: 255}, px)
	}
	assertOutsideUntouched(t, before, s, r)
}

func TestInvertTransform_OutOfBounds(t *testing.T) {
	s := surface.New(50, 50)
	err := InvertTransform{}.Apply(s, surface.Region{X: 40, Y: 40, Width: 20, Height: 20})
	assert.ErrorIs(t, err, surface.ErrOutOfBounds)
}

func TestMosaic_DefaultRegionBlocks(t *testing.T) {
	s := createTestSurface(200, 200)
	r := surface.Region{X: 10, Y: 30, Width: 100, Height: 100}
	before := s.Snapshot()

	m := NewMosaic(DefaultSampleSize)
	require.NoError(t, m.Apply(s, r))
	assert.Equal(t, 100, m.Blocks(r))

	colors := make(map[surface.Sample]bool)
	for by := r.Y; by < r.Y+r.Height; by += 10 {
		for bx := r.X; bx < r.X+r.Width; bx += 10 {
			want := surface.Sample{R: uint8(bx), G: uint8(by), B: uint8(bx + by), A: 255}
			for y := by; y < by+10; y++ {
				for x := bx; x < bx+10; x++ {
					require.Equal(t, want, s.At(x, y), "block (%d,%d) not uniform at (%d,%d)", bx, by, x, y)
				}
			}
			colors[want] = true
		}
	}
	assert.Len(t, colors, 100)
	assertOutsideUntouched(t, before, s, r)
}

func TestMosaic_RaggedRegionStaysInside(t *testing.T) {
	s := createTestSurface(120, 80)
	r := surface.Region{X: 7, Y: 9, Width: 25, Height: 15}
	before := s.Snapshot()

	m := NewMosaic(10)
	require.NoError(t, m.Apply(s, r))
	assert.Equal(t, 6, m.Blocks(r))

	// edge blocks are clipped to the region: columns 10,10,5 wide, rows 10,5 high
	colors := make(map[surface.Sample]bool)
	for by := r.Y; by < r.Y+r.Height; by += 10 {
		for bx := r.X; bx < r.X+r.Width; bx += 10 {
			want := surface.Sample{R: uint8(bx), G: uint8(by), B: uint8(bx + by), A: 255}
			for y := by; y < min(by+10, r.Y+r.Height); y++ {
				for x := bx; x < min(bx+10, r.X+r.Width); x++ {
					require.Equal(t, want, s.At(x, y), "block (%d,%d) not uniform at (%d,%d)", bx, by, x, y)
				}
			}
			colors[want] = true
		}
	}
	assert.Len(t, colors, m.Blocks(r))
	assertOutsideUntouched(t, before, s, r)
}

func TestMosaic_NonSquareSamplesByWidth(t *testing.T) {
	s := createTestSurface(100, 100)
	r := surface.Region{X: 0, Y: 0, Width: 40, Height: 20}

	require.NoError(t, NewMosaic(10).Apply(s, r))

	// block at row 10, column 30 samples its own top-left pixel
	assert.Equal(t, surface.Sample{R: 30, G: 10, B: 40, A: 255}, s.At(35, 15))
}

func TestMosaic_SampleSizeFallback(t *testing.T) {
	assert.Equal(t, DefaultSampleSize, NewMosaic(0).SampleSize())
	assert.Equal(t, "Mosaic(4)", NewMosaic(4).Name())
}

func TestIdentity_LeavesSurface(t *testing.T) {
	s := createTestSurface(30, 30)
	before := s.Snapshot()
	require.NoError(t, Identity{}.Apply(s, surface.Region{X: 0, Y: 0, Width: 30, Height: 30}))
	assert.Equal(t, before.Pix, s.Snapshot().Pix)
}

func TestFor(t *testing.T) {
	tests := []struct {
		mode Mode
		name string
	}{
		{PassThrough, "Identity"},
		{Invert, "Invert"},
		{Mosaic, "Mosaic(10)"},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			tr, err := For(tt.mode, DefaultSampleSize)
			require.NoError(t, err)
			assert.Equal(t, tt.name, tr.Name())
		})
	}

	_, err := For(Mode(9), DefaultSampleSize)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", PassThrough, false},
		{"passthrough", PassThrough, false},
		{"Invert", Invert, false},
		{" mosaic ", Mosaic, false},
		{"sepia", PassThrough, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMode_TextRoundTrip(t *testing.T) {
	text, err := Mosaic.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "mosaic", string(text))

	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("invert")))
	assert.Equal(t, Invert, m)
}
