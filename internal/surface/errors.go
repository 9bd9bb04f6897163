package surface

import "errors"

// Accessor errors.
var (
	// ErrOutOfBounds indicates the region does not fit inside the surface.
	ErrOutOfBounds = errors.New("region out of surface bounds")

	// ErrSizeMismatch indicates a pixel buffer whose length differs from the region area.
	ErrSizeMismatch = errors.New("pixel buffer size does not match region")
)
