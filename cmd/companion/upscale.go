package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrwolf/companion-server/internal/imaging"
)

var upscaleCmd = &cobra.Command{
	Use:   "upscale INPUT OUTPUT",
	Short: "Upscale an image to twice its size, written as PNG",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return upscaleFile(args[0], args[1])
	},
}

func upscaleFile(in, out string) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("opening %s: %w", in, err)
	}
	defer f.Close()

	img, format, err := imaging.Decode(f)
	if err != nil {
		return err
	}

	data, err := imaging.EncodePNG(imaging.Upscale(img))
	if err != nil {
		return err
	}

	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	if logger != nil {
		b := img.Bounds()
		logger.Info("upscaled image",
			zap.String("input", in),
			zap.String("format", format),
			zap.Int("width", b.Dx()*2),
			zap.Int("height", b.Dy()*2),
		)
	}
	return nil
}
