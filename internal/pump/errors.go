package pump

import "errors"

// Surface errors.
var (
	// ErrNoSurface indicates no tick has run yet, so there is nothing to read.
	ErrNoSurface = errors.New("surface not initialized")
)

// Lifecycle errors.
var (
	// ErrAlreadyRunning indicates Start was called while the pump is running.
	ErrAlreadyRunning = errors.New("pump is already running")

	// ErrNoEffect indicates the active mode has no configured effect.
	ErrNoEffect = errors.New("no effect configured for mode")
)
