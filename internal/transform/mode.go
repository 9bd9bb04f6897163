package transform

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode indicates a mode name that does not map to any transform.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects which transform runs on a tick.
type Mode int

const (
	// PassThrough shows the video frame unmodified
	PassThrough Mode = iota
	// Invert inverts the colors inside the configured region
	Invert
	// Mosaic pixelates the configured region
	Mosaic
)

var modeNames = map[Mode]string{
	PassThrough: "passthrough",
	Invert:      "invert",
	Mosaic:      "mosaic",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps a mode name to a Mode. The empty string is PassThrough.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return PassThrough, nil
	}
	for m, n := range modeNames {
		if n == name {
			return m, nil
		}
	}
	return PassThrough, fmt.Errorf("%q: %w", name, ErrUnknownMode)
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	if _, ok := modeNames[m]; !ok {
		return nil, fmt.Errorf("%d: %w", int(m), ErrUnknownMode)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
