package capture

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const jpegQuality = 92

type pngEncoder struct{}

func (pngEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pngEncoder) ContentType() string { return "image/png" }

type jpegEncoder struct {
	quality int
}

func (e jpegEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (jpegEncoder) ContentType() string { return "image/jpeg" }

type bmpEncoder struct{}

func (bmpEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (bmpEncoder) ContentType() string { return "image/bmp" }

type tiffEncoder struct{}

func (tiffEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (tiffEncoder) ContentType() string { return "image/tiff" }

func init() {
	registeredEncoders[PNG] = func() Encoder { return pngEncoder{} }
	registeredEncoders[JPEG] = func() Encoder { return jpegEncoder{quality: jpegQuality} }
	registeredEncoders[BMP] = func() Encoder { return bmpEncoder{} }
	registeredEncoders[TIFF] = func() Encoder { return tiffEncoder{} }
}
