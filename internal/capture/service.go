// Package capture encodes still images of the rendered surface.
package capture

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupportedFormat indicates no encoder is registered for the format.
var ErrUnsupportedFormat = errors.New("unsupported capture format")

// Format is a still image encoding
type Format string

const (
	// PNG lossless, the default
	PNG Format = "png"
	// JPEG lossy
	JPEG Format = "jpeg"
	// BMP uncompressed
	BMP Format = "bmp"
	// TIFF lossless
	TIFF Format = "tiff"
)

// ParseFormat maps a format name or file extension to a Format. The empty
// string is PNG.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	switch name {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "bmp":
		return BMP, nil
	case "tiff", "tif":
		return TIFF, nil
	}
	return "", fmt.Errorf("%q: %w", name, ErrUnsupportedFormat)
}

// Capture is an immutable encoded still image.
type Capture struct {
	ID          string
	Format      Format
	ContentType string
	Bounds      image.Rectangle
	TakenAt     time.Time
	data        []byte
}

// Data returns a copy of the encoded bytes
func (c *Capture) Data() []byte {
	return append([]byte(nil), c.data...)
}

// Size is the encoded length in bytes
func (c *Capture) Size() int {
	return len(c.data)
}

// Filename suggests a download name for the capture
func (c *Capture) Filename() string {
	return fmt.Sprintf("capture-%s.%s", c.ID, c.Format)
}

// Service encodes images into captures
type Service interface {
	Encode(img image.Image, format Format) (*Capture, error)
	Supports(format Format) bool
}

// Encoder writes one image into its encoded form
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
	ContentType() string
}

type encoderFactory = func() Encoder

// Index of supported formats, each encoder registers itself from init
var registeredEncoders = make(map[Format]encoderFactory, 4)

// EncoderService creates captures with the registered encoders
type EncoderService struct {
	now func() time.Time
}

// NewEncoderService creates a capture encoder service
func NewEncoderService() *EncoderService {
	return &EncoderService{now: time.Now}
}

// Encode encodes img with the encoder registered for format.
func (s *EncoderService) Encode(img image.Image, format Format) (*Capture, error) {
	factory, found := registeredEncoders[format]
	if !found {
		return nil, fmt.Errorf("%q: %w", format, ErrUnsupportedFormat)
	}
	enc := factory()
	data, err := enc.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("encode %s capture: %w", format, err)
	}
	return &Capture{
		ID:          uuid.New().String(),
		Format:      format,
		ContentType: enc.ContentType(),
		Bounds:      img.Bounds(),
		TakenAt:     s.now(),
		data:        data,
	}, nil
}

// Supports returns a boolean indicating if the format is supported
func (*EncoderService) Supports(format Format) bool {
	_, found := registeredEncoders[format]
	return found
}
