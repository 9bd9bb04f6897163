package source

import (
	"errors"
	"image"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// grabFunc returns the n-th frame of a stream, or io.EOF once it is over.
type grabFunc func(n uint64) (*image.RGBA, error)

// paced runs a grabFunc at a fixed frame rate and can be paused and resumed.
// It implements everything of VideoSource except Bounds.
type paced struct {
	name   string
	fps    int
	grab   grabFunc
	frames chan *image.RGBA
	stop   chan struct{}

	mu      sync.Mutex
	gate    chan struct{} // non-nil while paused
	halt    chan struct{} // closed when paused
	started bool
	ended   bool
	closed  bool
}

func newPaced(name string, fps int, grab grabFunc) *paced {
	if fps <= 0 {
		fps = 30
	}
	halt := make(chan struct{})
	close(halt)
	return &paced{
		name:   name,
		fps:    fps,
		grab:   grab,
		frames: make(chan *image.RGBA),
		stop:   make(chan struct{}),
		gate:   make(chan struct{}),
		halt:   halt,
	}
}

// Play starts or resumes the capture loop.
func (p *paced) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ended || p.closed {
		return ErrStreamEnded
	}
	if p.gate == nil {
		return nil
	}
	close(p.gate)
	p.gate = nil
	p.halt = make(chan struct{})
	if !p.started {
		p.started = true
		go p.run()
	}
	logrus.WithFields(logrus.Fields{
		"function": "VideoSource.Play",
		"source":   p.name,
		"fps":      p.fps,
	}).Debug("Video source playing")
	return nil
}

// Pause holds the capture loop. A frame grabbed before the pause and not yet
// delivered is dropped.
func (p *paced) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gate == nil {
		p.gate = make(chan struct{})
		close(p.halt)
	}
	return nil
}

// Paused reports whether the source is currently not advancing.
func (p *paced) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.gate != nil || p.ended || p.closed
}

// Frames returns a channel that will receive the image stream
func (p *paced) Frames() <-chan *image.RGBA {
	return p.frames
}

// Fps returns the frames per second the source produces
func (p *paced) Fps() int {
	return p.fps
}

// Close stops the capture loop for good.
func (p *paced) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.closed = true
		close(p.stop)
	}
	return nil
}

// waitPlaying blocks while the source is paused. It returns false once the
// source is closed.
func (p *paced) waitPlaying() bool {
	p.mu.Lock()
	gate := p.gate
	p.mu.Unlock()

	if gate == nil {
		return true
	}
	select {
	case <-gate:
		return true
	case <-p.stop:
		return false
	}
}

func (p *paced) halted() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.halt
}

func (p *paced) run() {
	delta := time.Second / time.Duration(p.fps)
	var n uint64
	for {
		if !p.waitPlaying() {
			return
		}
		halt := p.halted()
		startedAt := time.Now()
		img, err := p.grab(n)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logrus.WithFields(logrus.Fields{
					"function": "VideoSource.run",
					"source":   p.name,
					"error":    err.Error(),
				}).Error("Frame capture failed, ending stream")
			}
			p.mu.Lock()
			p.ended = true
			p.mu.Unlock()
			close(p.frames)
			return
		}

		select {
		case p.frames <- img:
			n++
		case <-halt:
			// paused before anyone took it
			continue
		case <-p.stop:
			return
		}

		if sleep := delta - time.Since(startedAt); sleep > 0 {
			select {
			case <-time.After(sleep):
			case <-p.stop:
				return
			}
		}
	}
}
