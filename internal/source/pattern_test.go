package source

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, frames <-chan *image.RGBA) (*image.RGBA, bool) {
	t.Helper()
	select {
	case f, ok := <-frames:
		return f, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a frame")
		return nil, false
	}
}

func TestPatternFrame(t *testing.T) {
	img := PatternFrame(image.Rect(0, 0, 70, 4), 0)

	assert.Equal(t, []uint8{192, 192, 192, 255}, img.Pix[0:4])
	red := img.PixOffset(55, 2)
	assert.Equal(t, []uint8{192, 0, 0, 255}, img.Pix[red:red+4])

	shifted := PatternFrame(image.Rect(0, 0, 70, 4), 10)
	assert.Equal(t, img.Pix[img.PixOffset(10, 0):img.PixOffset(11, 0)], shifted.Pix[0:4])
}

func TestPatternSource_StartsPaused(t *testing.T) {
	src := NewPatternSource(70, 10, 200, 0)
	defer src.Close()

	assert.True(t, src.Paused())
	assert.Equal(t, 200, src.Fps())
	assert.Equal(t, image.Rect(0, 0, 70, 10), src.Bounds())

	select {
	case <-src.Frames():
		t.Fatal("paused source produced a frame")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestPatternSource_PlayProducesFrames(t *testing.T) {
	src := NewPatternSource(70, 10, 200, 0)
	defer src.Close()

	require.NoError(t, src.Play())
	assert.False(t, src.Paused())
	// playing twice is fine
	require.NoError(t, src.Play())

	f, ok := receive(t, src.Frames())
	require.True(t, ok)
	assert.Equal(t, image.Rect(0, 0, 70, 10), f.Bounds())

	require.NoError(t, src.Pause())
	assert.True(t, src.Paused())
}

func TestPatternSource_EndOfStream(t *testing.T) {
	src := NewPatternSource(14, 2, 500, 2)
	defer src.Close()

	require.NoError(t, src.Play())
	for i := 0; i < 2; i++ {
		_, ok := receive(t, src.Frames())
		require.True(t, ok)
	}
	_, ok := receive(t, src.Frames())
	assert.False(t, ok, "frames channel must be closed after the limit")

	assert.True(t, src.Paused())
	assert.ErrorIs(t, src.Play(), ErrStreamEnded)
}

func TestPatternSource_CloseStopsPlay(t *testing.T) {
	src := NewPatternSource(14, 2, 100, 0)
	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	assert.ErrorIs(t, src.Play(), ErrStreamEnded)
}
