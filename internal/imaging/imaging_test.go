package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpscaleDoublesSize(t *testing.T) {
	tests := []struct {
		w, h int
	}{
		{1, 1},
		{10, 10},
		{7, 3},
		{640, 480},
	}

	for _, tt := range tests {
		src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
		out := Upscale(src)
		require.NotNil(t, out)
		assert.Equal(t, tt.w*2, out.Bounds().Dx())
		assert.Equal(t, tt.h*2, out.Bounds().Dy())
	}
}

func TestUpscaleNil(t *testing.T) {
	assert.Nil(t, Upscale(nil))
}

func TestUpscaleOffsetBounds(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 15, 10))
	out := Upscale(src)
	assert.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())
}

func TestUpscaleKeepsSolidColor(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	red := color.RGBA{R: 255, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, red)
		}
	}

	out := Upscale(src)
	r, g, b, a := out.At(4, 4).RGBA()
	assert.InDelta(t, 0xffff, r, 256)
	assert.InDelta(t, 0, g, 256)
	assert.InDelta(t, 0, b, 256)
	assert.InDelta(t, 0xffff, a, 256)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))

	data, err := EncodePNG(src)
	require.NoError(t, err)

	img, format, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, src.Bounds(), img.Bounds())
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestDecodeLimited(t *testing.T) {
	data, err := EncodePNG(image.NewGray(image.Rect(0, 0, 20, 10)))
	require.NoError(t, err)

	img, format, err := DecodeLimited(bytes.NewReader(data), 200)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())

	_, _, err = DecodeLimited(bytes.NewReader(data), 199)
	assert.ErrorIs(t, err, ErrTooLarge)

	img, _, err = DecodeLimited(bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, 20, img.Bounds().Dx())
}

func TestDecodeLimitedGarbage(t *testing.T) {
	_, _, err := DecodeLimited(bytes.NewReader([]byte("not an image")), 100)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTooLarge)
}
