package image

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// MaxSide is the largest width or height accepted when flattening an image.
const MaxSide = 1 << 14

var (
	// ErrNilImage is returned when no image is supplied.
	ErrNilImage = errors.New("image cannot be nil")

	// ErrUnsupportedColorModel is returned for images without a colour model.
	ErrUnsupportedColorModel = errors.New("unsupported colour model")

	// ErrInvalidPixels is returned when a raw buffer does not match its dimensions.
	ErrInvalidPixels = errors.New("invalid pixel buffer")
)

// Pixels flattens an image to non-premultiplied RGBA bytes, row-major with no
// padding. The result has width*height*4 bytes.
func Pixels(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	if img.ColorModel() == nil {
		return nil, ErrUnsupportedColorModel
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return []byte{}, nil
	}
	if width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("image too large: %dx%d (maximum side: %d)", width, height, MaxSide)
	}

	// Tightly packed NRGBA can be copied row by row.
	if m, ok := img.(*image.NRGBA); ok {
		out := make([]byte, 0, width*height*4)
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			start := m.PixOffset(bounds.Min.X, y)
			out = append(out, m.Pix[start:start+width*4]...)
		}
		return out, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return dst.Pix, nil
}

// NewRaw wraps an RGBA byte buffer of width*height*4 bytes as an image.
// The buffer is not copied.
func NewRaw(pixels []byte, width, height int) (*image.NRGBA, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidPixels, width, height)
	}
	if width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("%w: dimensions %dx%d exceed %d", ErrInvalidPixels, width, height, MaxSide)
	}
	if want := width * height * 4; len(pixels) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrInvalidPixels, len(pixels), want, width, height)
	}
	return &image.NRGBA{
		Pix:    pixels,
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}
