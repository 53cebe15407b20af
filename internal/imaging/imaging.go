// Package imaging implements the 2x upscale stub and image codec helpers.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Upscale returns a new image exactly twice the width and height of img.
// A nil image passes through as nil.
func Upscale(img image.Image) image.Image {
	if img == nil {
		return nil
	}

	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*2, b.Dy()*2))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// ErrTooLarge is returned when an image header declares more pixels than allowed
var ErrTooLarge = errors.New("image too large")

// DecodeLimited reads the image header first and refuses images over maxPixels
// before any pixel data is allocated. maxPixels <= 0 disables the check.
func DecodeLimited(r io.Reader, maxPixels int64) (image.Image, string, error) {
	if maxPixels <= 0 {
		return Decode(r)
	}

	var header bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &header))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image header: %w", err)
	}
	if pixels := int64(cfg.Width) * int64(cfg.Height); pixels > maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	return Decode(io.MultiReader(&header, r))
}

// Decode reads a png, jpeg, gif or webp image
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}

// EncodePNG encodes img as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
