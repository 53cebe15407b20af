package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	debug    bool
	logger   *zap.Logger
	logLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

var rootCmd = &cobra.Command{
	Use:   "companion",
	Short: "Companion persona server",
	Long: `companion builds a toy companion persona from manga-page text and chats with it.

Dialogue lines are collected into a dataset (typed in, uploaded, or extracted
from manga pages) and replies are drawn from that dataset at random.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if debug {
			logLevel.SetLevel(zapcore.DebugLevel)
		}
		zcfg.Level = logLevel
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, upscaleCmd, datasetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
