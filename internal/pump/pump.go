// Package pump drives the per-refresh render loop.
//
// While running, every tick composites the latest video frame onto the
// surface and then applies the effect bound to the currently selected mode:
//
//	video frame → Fit → Composite → Read region → Transform → Write region
//
// Frames are scaled to the surface size once, when they arrive; ticks only
// copy the latest frame.
// Ticks run one at a time on the pump goroutine. The mode is read fresh on
// every tick, so a mode switch applies from the next tick on. A tick whose
// effect fails is logged and skipped; the loop keeps going.
package pump

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rviscarra/canvas-player/internal/surface"
	"github.com/rviscarra/canvas-player/internal/transform"
)

// State of the pump
type State int32

const (
	// Idle means no ticks are being executed
	Idle State = iota
	// Running means the pump ticks once per refresh interval
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

// ModeSource reports the mode to run on the next tick.
type ModeSource interface {
	Mode() transform.Mode
}

// Effect binds a transform to the region it runs on.
type Effect struct {
	Transform transform.Transform
	Region    surface.Region
}

// Config holds pump construction parameters.
type Config struct {
	Width  int
	Height int
	FPS    int

	// Effects maps every non pass-through mode to its effect.
	Effects map[transform.Mode]Effect

	// NewTicker defaults to NewTimeTicker.
	NewTicker TickerFunc

	// OnEnded, if set, runs after the frame stream closes and the pump is idle.
	OnEnded func()
}

// Stats is a point-in-time view of the pump counters.
type Stats struct {
	State   State
	Ticks   uint64
	Skipped uint64
	Clamped uint64
	Frames  uint64
	Scaled  uint64
}

// Pump is the frame pump.
type Pump struct {
	cfg   Config
	modes ModeSource

	// mu guards the surface and serializes ticks with snapshots.
	mu      sync.Mutex
	surface *surface.Surface

	// ctrl serializes Start and Stop.
	ctrl  sync.Mutex
	state atomic.Int32
	stop  chan struct{}
	done  chan struct{}

	ticks   atomic.Uint64
	skipped atomic.Uint64
	clamped atomic.Uint64
	frames  atomic.Uint64
	scaled  atomic.Uint64
}

// New creates an idle pump. The surface is allocated lazily on the first tick.
func New(cfg Config, modes ModeSource) *Pump {
	if cfg.NewTicker == nil {
		cfg.NewTicker = NewTimeTicker
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	return &Pump{
		cfg:   cfg,
		modes: modes,
	}
}

// State returns the current pump state.
func (p *Pump) State() State {
	return State(p.state.Load())
}

// Interval is the time between two ticks
func (p *Pump) Interval() time.Duration {
	return time.Second / time.Duration(p.cfg.FPS)
}

// Start moves the pump from Idle to Running. Frames received on frames
// become the image composited by subsequent ticks; closing the channel ends
// the stream and returns the pump to Idle.
func (p *Pump) Start(frames <-chan *image.RGBA) error {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	if p.State() == Running {
		return ErrAlreadyRunning
	}
	if p.done != nil {
		// wait for a loop that ended on its own to finish
		<-p.done
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	p.stop, p.done = stop, done
	p.state.Store(int32(Running))

	logrus.WithFields(logrus.Fields{
		"function": "Pump.Start",
		"fps":      p.cfg.FPS,
		"width":    p.cfg.Width,
		"height":   p.cfg.Height,
	}).Info("Frame pump started")

	go func() {
		ended := p.run(frames, stop)
		p.state.Store(int32(Idle))
		close(done)
		if ended && p.cfg.OnEnded != nil {
			p.cfg.OnEnded()
		}
	}()
	return nil
}

// Stop moves the pump to Idle and waits for the loop to exit. Stopping an
// idle pump does nothing.
func (p *Pump) Stop() {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	if p.State() != Running {
		return
	}
	close(p.stop)
	<-p.done

	logrus.WithFields(logrus.Fields{
		"function": "Pump.Stop",
		"ticks":    p.ticks.Load(),
	}).Info("Frame pump stopped")
}

// run is the pump loop. It reports whether it exited because the frame
// stream ended.
func (p *Pump) run(frames <-chan *image.RGBA, stop <-chan struct{}) bool {
	ticker := p.cfg.NewTicker(p.Interval())
	defer ticker.Stop()

	var latest image.Image
	for {
		select {
		case <-stop:
			return false
		case frame, ok := <-frames:
			if !ok {
				logrus.WithFields(logrus.Fields{
					"function": "Pump.run",
					"ticks":    p.ticks.Load(),
				}).Info("Video source ended, frame pump going idle")
				return true
			}
			p.frames.Add(1)
			if frame != nil {
				latest = p.fit(frame)
			}
		case <-ticker.C():
			// errors are logged inside Tick
			_ = p.Tick(latest)
		}
	}
}

func (p *Pump) fit(frame image.Image) image.Image {
	size := image.Pt(p.cfg.Width, p.cfg.Height)
	if frame.Bounds().Size() == size {
		return frame
	}
	p.scaled.Add(1)
	return surface.Fit(frame, size)
}

// Tick executes one render step synchronously. frame is copied as is, so it
// should already have the surface size. A nil frame keeps whatever the
// surface already shows. The returned error is the reason the effect
// was skipped, if any.
func (p *Pump) Tick(frame image.Image) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.surface == nil {
		p.surface = surface.New(p.cfg.Width, p.cfg.Height)
	}
	p.surface.Composite(frame)
	p.ticks.Add(1)

	mode := p.modes.Mode()
	if mode == transform.PassThrough {
		return nil
	}

	effect, ok := p.cfg.Effects[mode]
	if !ok || effect.Transform == nil {
		p.skipped.Add(1)
		err := fmt.Errorf("%v: %w", mode, ErrNoEffect)
		logrus.WithFields(logrus.Fields{
			"function": "Pump.Tick",
			"mode":     mode.String(),
			"error":    err.Error(),
		}).Warn("Skipping tick")
		return err
	}

	region := effect.Region
	if !region.Within(p.surface.Bounds()) {
		clamped := region.Clamp(p.surface.Bounds())
		if clamped.Empty() {
			p.skipped.Add(1)
			logrus.WithFields(logrus.Fields{
				"function": "Pump.Tick",
				"mode":     mode.String(),
				"region":   region.String(),
			}).Debug("Region outside surface, showing frame unmodified")
			return fmt.Errorf("region %v: %w", region, surface.ErrOutOfBounds)
		}
		p.clamped.Add(1)
		region = clamped
	}

	if err := effect.Transform.Apply(p.surface, region); err != nil {
		p.skipped.Add(1)
		logrus.WithFields(logrus.Fields{
			"function":  "Pump.Tick",
			"transform": effect.Transform.Name(),
			"region":    region.String(),
			"error":     err.Error(),
		}).Warn("Transform failed, skipping tick")
		return err
	}
	return nil
}

// Snapshot returns a copy of the current surface contents.
func (p *Pump) Snapshot() (*image.RGBA, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.surface == nil {
		return nil, ErrNoSurface
	}
	return p.surface.Snapshot(), nil
}

// Stats returns the pump counters.
func (p *Pump) Stats() Stats {
	return Stats{
		State:   p.State(),
		Ticks:   p.ticks.Load(),
		Skipped: p.skipped.Load(),
		Clamped: p.clamped.Load(),
		Frames:  p.frames.Load(),
		Scaled:  p.scaled.Load(),
	}
}
