package ocr

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticExtract(t *testing.T) {
	e := NewStatic("line1\nline2")

	text, err := e.Extract(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", text)
}

func TestStaticEmptyImage(t *testing.T) {
	e := NewStatic("ignored")

	text, err := e.Extract(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, text)

	text, err = e.Extract(context.Background(), image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestStaticCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStatic("x").Extract(ctx, image.NewRGBA(image.Rect(0, 0, 1, 1)))
	assert.ErrorIs(t, err, context.Canceled)
}
