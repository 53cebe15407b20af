package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrwolf/companion-server/internal/api"
	"github.com/mrwolf/companion-server/internal/chat"
	"github.com/mrwolf/companion-server/internal/config"
	"github.com/mrwolf/companion-server/internal/dataset"
	"github.com/mrwolf/companion-server/internal/db"
	"github.com/mrwolf/companion-server/internal/ocr"
	"github.com/mrwolf/companion-server/internal/scheduler"
	"github.com/mrwolf/companion-server/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	logger.Info("starting companion-server")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", zap.Error(err))
		return err
	}

	if cfg.Debug {
		logLevel.SetLevel(zapcore.DebugLevel)
	}
	logger.Debug("config loaded", zap.String("dataset", cfg.DatasetPath), zap.String("db", cfg.DBPath))

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", zap.Error(err))
		return err
	}

	sess := session.New(session.Options{
		DatasetPath: cfg.DatasetPath,
		OCR:         ocr.NewStatic(cfg.OCRText),
		Picker:      chat.NewPicker(cfg.Seed),
		Recorder:    database,
		Logger:      logger,
	})

	// Populate the dataset from its file when present
	if cfg.LoadOnStart && dataset.FileExists(cfg.DatasetPath) {
		sess.LoadDataset(cfg.DatasetPath)
		logger.Info("dataset loaded", zap.String("path", cfg.DatasetPath), zap.Int("lines", sess.Dataset().Len()))
	}

	router := api.NewRouter(cfg, database, sess, logger)

	sched, err := scheduler.New(sess, database, logger, scheduler.Config{
		Location:         cfg.Location(),
		AutosaveInterval: cfg.AutosaveInterval,
		Retention:        cfg.ActivityRetention,
	})
	if err != nil {
		logger.Error("failed to create scheduler", zap.Error(err))
		return err
	}
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", zap.Error(err))
		return err
	}

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.String("session", sess.ID()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}
	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}

	logger.Info("stopping scheduler")
	if err := sched.Stop(); err != nil {
		logger.Error("scheduler shutdown", zap.Error(err))
	}

	logger.Info("closing database")
	if err := database.Close(); err != nil {
		logger.Error("database close", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return nil
}
