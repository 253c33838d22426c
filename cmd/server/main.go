package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/youruser/coverapp/internal/api"
	"github.com/youruser/coverapp/internal/config"
	"github.com/youruser/coverapp/internal/metrics"
	"github.com/youruser/coverapp/internal/notify"
	"github.com/youruser/coverapp/internal/session"
	"github.com/youruser/coverapp/internal/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.NewPrometheusObserver("coverapp", reg)
	if err != nil {
		logger.Error("Failed to register metrics", zap.Error(err))
		os.Exit(1)
	}

	sess, err := session.New(session.Options{
		Preset:         cfg.Render.DefaultPreset,
		Template:       cfg.Render.DefaultTemplate,
		PixelRatio:     cfg.Render.PixelRatio,
		PhotoMaxBytes:  cfg.Photo.MaxBytes,
		PhotoCacheSize: cfg.Photo.CacheSize,
		ToastTTL:       cfg.Notify.TTL,
		Scheduler:      notify.RealScheduler(),
		Observer:       observer,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("Failed to create session", zap.Error(err))
		os.Exit(1)
	}
	defer sess.Close()

	gin.SetMode(cfg.Server.GinMode)
	router := api.NewRouter(api.NewHandler(sess, logger), api.RouterOptions{
		CORSEnabled: cfg.Server.CORSEnabled,
		CORSOrigins: cfg.Server.CORSOrigins,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("Cover server started",
		zap.String("addr", "http://localhost:"+cfg.Server.Port),
		zap.String("preset", cfg.Render.DefaultPreset),
		zap.Float64("pixel_ratio", cfg.Render.PixelRatio),
	)

	select {
	case sig := <-sigCh:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}
