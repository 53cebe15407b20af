package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUpscaleFile(t *testing.T) {
	logger = zap.NewNop()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 7))))
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0644))

	require.NoError(t, upscaleFile(in, out))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 6, 14), img.Bounds())
}

func TestUpscaleFileMissing(t *testing.T) {
	logger = zap.NewNop()
	err := upscaleFile(filepath.Join(t.TempDir(), "nope.png"), filepath.Join(t.TempDir(), "out.png"))
	assert.Error(t, err)
}

func TestDatasetShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.txt")
	require.NoError(t, os.WriteFile(path, []byte(" a \n\nb\n"), 0644))

	var stdout, stderr bytes.Buffer
	datasetShowCmd.SetOut(&stdout)
	datasetShowCmd.SetErr(&stderr)
	require.NoError(t, datasetShowCmd.RunE(datasetShowCmd, []string{path}))

	assert.Equal(t, "a\nb\n", stdout.String())
	assert.Equal(t, "Dataset contains 2 lines.\n", stderr.String())
}
