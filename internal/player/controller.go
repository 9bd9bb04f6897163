// Package player implements the playback controller: it owns the effect mode
// and the play, pause and capture lifecycle, and is the only caller that
// starts or stops the frame pump.
package player

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/rviscarra/canvas-player/internal/capture"
	"github.com/rviscarra/canvas-player/internal/config"
	"github.com/rviscarra/canvas-player/internal/pump"
	"github.com/rviscarra/canvas-player/internal/source"
	"github.com/rviscarra/canvas-player/internal/surface"
	"github.com/rviscarra/canvas-player/internal/transform"
)

// Controller is the playback controller.
type Controller struct {
	video    source.VideoSource
	encoders capture.Service
	pump     *pump.Pump

	// mode is read by the pump on every tick
	mode atomic.Int32

	mu   sync.Mutex
	last *capture.Capture
}

// Status describes the controller for display.
type Status struct {
	Playing     bool
	Mode        transform.Mode
	Source      image.Rectangle
	SourceFPS   int
	Pump        pump.Stats
	LastCapture *capture.Capture
}

// NewController creates a paused controller. pcfg describes the pump; its
// OnEnded hook is owned by the controller.
func NewController(video source.VideoSource, encoders capture.Service, pcfg pump.Config) *Controller {
	c := &Controller{
		video:    video,
		encoders: encoders,
	}
	pcfg.OnEnded = c.onEnded
	c.pump = pump.New(pcfg, c)

	entry := logrus.WithFields(logrus.Fields{
		"function":     "NewController",
		"source":       video.Bounds().Size().String(),
		"source_fps":   video.Fps(),
		"surface":      image.Pt(pcfg.Width, pcfg.Height).String(),
		"refresh_rate": pcfg.FPS,
	})
	if video.Bounds().Size() != image.Pt(pcfg.Width, pcfg.Height) {
		entry.Warn("Video size differs from the surface, every frame will be scaled")
	} else {
		entry.Debug("Controller created")
	}
	return c
}

// NewFromConfig builds the effects described by cfg and creates a controller.
func NewFromConfig(cfg config.Config, video source.VideoSource, encoders capture.Service) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	invertRegion, mosaicRegion := cfg.Regions()

	effects := make(map[transform.Mode]pump.Effect, 2)
	for mode, region := range map[transform.Mode]surface.Region{
		transform.Invert: invertRegion,
		transform.Mosaic: mosaicRegion,
	} {
		t, err := transform.For(mode, cfg.SampleSize)
		if err != nil {
			return nil, err
		}
		effects[mode] = pump.Effect{Transform: t, Region: region}
	}

	return NewController(video, encoders, pump.Config{
		Width:   cfg.Width,
		Height:  cfg.Height,
		FPS:     cfg.FPS,
		Effects: effects,
	}), nil
}

// Mode returns the mode the pump runs on its next tick.
func (c *Controller) Mode() transform.Mode {
	return transform.Mode(c.mode.Load())
}

// SetMode switches the effect. A running pump picks it up on its next tick.
func (c *Controller) SetMode(mode transform.Mode) {
	old := transform.Mode(c.mode.Swap(int32(mode)))
	if old != mode {
		logrus.WithFields(logrus.Fields{
			"function": "Controller.SetMode",
			"old_mode": old.String(),
			"new_mode": mode.String(),
		}).Info("Mode changed")
	}
}

// Playing reports whether the video is advancing.
func (c *Controller) Playing() bool {
	return !c.video.Paused()
}

// Play starts playback with mode. Calling Play while already playing does
// nothing, the mode included; use SetMode to switch effects mid-playback.
func (c *Controller) Play(mode transform.Mode) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.video.Paused() {
		return nil
	}
	if err := c.video.Play(); err != nil {
		return fmt.Errorf("play video: %w", err)
	}
	c.SetMode(mode)
	if err := c.pump.Start(c.video.Frames()); err != nil && !errors.Is(err, pump.ErrAlreadyRunning) {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function": "Controller.Play",
		"mode":     mode.String(),
	}).Info("Playback started")
	return nil
}

// Pause pauses the video and idles the pump. Pausing while paused does nothing.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.video.Paused() {
		return nil
	}
	if err := c.video.Pause(); err != nil {
		return fmt.Errorf("pause video: %w", err)
	}
	c.pump.Stop()

	logrus.WithFields(logrus.Fields{
		"function": "Controller.Pause",
		"ticks":    c.pump.Stats().Ticks,
	}).Info("Playback paused")
	return nil
}

// Frame returns a copy of what the surface currently shows.
func (c *Controller) Frame() (*image.RGBA, error) {
	img, err := c.pump.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNothingRendered, err)
	}
	return img, nil
}

// Capture encodes the current surface and keeps it as the latest capture.
func (c *Controller) Capture(format capture.Format) (*capture.Capture, error) {
	if !c.encoders.Supports(format) {
		return nil, fmt.Errorf("%q: %w", format, capture.ErrUnsupportedFormat)
	}
	img, err := c.Frame()
	if err != nil {
		return nil, err
	}
	shot, err := c.encoders.Encode(img, format)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.last = shot
	c.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"function": "Controller.Capture",
		"id":       shot.ID,
		"format":   string(shot.Format),
		"size":     shot.Size(),
	}).Info("Capture taken")
	return shot, nil
}

// DownloadCapture returns the most recent capture.
func (c *Controller) DownloadCapture() (*capture.Capture, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.last == nil {
		return nil, ErrNoCaptureAvailable
	}
	return c.last, nil
}

// Status returns a snapshot of the controller state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	return Status{
		Playing:     c.Playing(),
		Mode:        c.Mode(),
		Source:      c.video.Bounds(),
		SourceFPS:   c.video.Fps(),
		Pump:        c.pump.Stats(),
		LastCapture: last,
	}
}

// Close stops the pump and releases the video source.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pump.Stop()
	return c.video.Close()
}

func (c *Controller) onEnded() {
	logrus.WithFields(logrus.Fields{
		"function": "Controller.onEnded",
		"ticks":    c.pump.Stats().Ticks,
	}).Info("Playback ended")
}
