// Package ocr defines the text extraction collaborator used for manga pages.
// There is no real OCR engine here; Static returns fixed text.
package ocr

import (
	"context"
	"image"
)

// Engine extracts text from an image, lines separated by newlines
type Engine interface {
	Extract(ctx context.Context, img image.Image) (string, error)
}

// Static returns the same text for every non-empty image
type Static struct {
	Text string
}

// NewStatic creates a Static engine
func NewStatic(text string) *Static {
	return &Static{Text: text}
}

// Extract implements Engine
func (s *Static) Extract(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if img == nil || img.Bounds().Empty() {
		return "", nil
	}
	return s.Text, nil
}

// Func adapts a function to Engine
type Func func(ctx context.Context, img image.Image) (string, error)

// Extract implements Engine
func (f Func) Extract(ctx context.Context, img image.Image) (string, error) {
	return f(ctx, img)
}
