// Package source provides the video sources the player renders from.
package source

import (
	"errors"
	"image"
	"io"
)

// ErrStreamEnded indicates the source reached the end of its stream.
var ErrStreamEnded = errors.New("video stream ended")

// VideoSource produces a continuously advancing frame while playing.
// The Frames channel is closed when the stream ends.
type VideoSource interface {
	io.Closer
	Play() error
	Pause() error
	Paused() bool
	Frames() <-chan *image.RGBA
	Fps() int
	Bounds() image.Rectangle
}

// Screen is a capturable display
type Screen struct {
	Index  int
	Bounds image.Rectangle
}

// Service enumerates screens and creates sources for them
type Service interface {
	CreateScreenSource(screen Screen, fps int) (VideoSource, error)
	Screens() ([]Screen, error)
}
