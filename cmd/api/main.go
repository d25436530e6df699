//	@title			Drive Relay API
//	@version		1.0
//	@description	Receives one multipart file per request and relays it to Google Drive (or an S3-compatible bucket).
//
//	@host		localhost:8080
//	@BasePath	/

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/driverelay/service/internal/config"
	"github.com/driverelay/service/internal/logging"
	"github.com/driverelay/service/internal/upload"

	_ "github.com/driverelay/service/docs/swagger"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("configuration failed", zap.Error(err))
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		zap.Must(zap.NewProduction()).Fatal("logger init failed", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	if !cfg.EnvFileLoaded {
		logger.Info("no .env file found, reading from environment")
	}

	// Wire dependencies: provider -> relay -> handler
	state := newReadiness(context.Background(), cfg, logger)
	uploadHandler := upload.NewHandler(state, upload.Options{
		TempDir:        cfg.TempDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Destination:    cfg.Destination,
	}, logger.Named("upload"))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newRouter(uploadHandler, logger),
		// Uploads stream the whole body before the provider call starts.
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("provider", cfg.Provider),
		)
		logger.Info("swagger UI at http://localhost:" + cfg.Port + "/swagger/")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
