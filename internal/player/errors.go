package player

import "errors"

// User facing errors.
var (
	// ErrNoCaptureAvailable indicates a download was requested before any capture.
	ErrNoCaptureAvailable = errors.New("no capture available, take a screenshot first")

	// ErrNothingRendered indicates a capture was requested before the first frame.
	ErrNothingRendered = errors.New("nothing rendered yet, press play first")
)
