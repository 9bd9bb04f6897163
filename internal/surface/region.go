package surface

import (
	"fmt"
	"image"
)

// Region is a rectangle in surface pixel coordinates.
type Region struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Rect returns the region as an image.Rectangle
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Area is the number of samples a buffer for this region must hold.
func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Empty reports whether the region covers no pixel.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within reports whether the region lies entirely inside bounds.
func (r Region) Within(bounds image.Rectangle) bool {
	if r.Empty() {
		return false
	}
	return r.Rect().In(bounds)
}

// Clamp intersects the region with bounds. The result may be empty.
func (r Region) Clamp(bounds image.Rectangle) Region {
	return RegionOf(r.Rect().Intersect(bounds))
}

// RegionOf converts a rectangle into a Region.
func RegionOf(rect image.Rectangle) Region {
	return Region{
		X:      rect.Min.X,
		Y:      rect.Min.Y,
		Width:  rect.Dx(),
		Height: rect.Dy(),
	}
}

func (r Region) String() string {
	return fmt.Sprintf("{x:%d y:%d w:%d h:%d}", r.X, r.Y, r.Width, r.Height)
}
