package source

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// XVideoProvider implements the source.Service interface for the local displays
type XVideoProvider struct{}

// ScreenSource captures video from one display
type ScreenSource struct {
	*paced
	screen Screen
}

// NewVideoProvider returns a display-backed video provider
func NewVideoProvider() (Service, error) {
	return &XVideoProvider{}, nil
}

// Screens Returns the available screens to capture
func (x *XVideoProvider) Screens() ([]Screen, error) {
	numScreens := screenshot.NumActiveDisplays()
	screens := make([]Screen, numScreens)
	for i := 0; i < numScreens; i++ {
		screens[i] = Screen{
			Index:  i,
			Bounds: screenshot.GetDisplayBounds(i),
		}
	}
	return screens, nil
}

// CreateScreenSource creates a paused source that grabs screen at fps
func (*XVideoProvider) CreateScreenSource(screen Screen, fps int) (VideoSource, error) {
	if screen.Bounds.Empty() {
		return nil, fmt.Errorf("screen %d has empty bounds", screen.Index)
	}
	grab := func(uint64) (*image.RGBA, error) {
		return screenshot.CaptureRect(screen.Bounds)
	}
	return &ScreenSource{
		paced:  newPaced(fmt.Sprintf("screen-%d", screen.Index), fps, grab),
		screen: screen,
	}, nil
}

// Bounds returns the captured display rectangle
func (s *ScreenSource) Bounds() image.Rectangle {
	return s.screen.Bounds
}
