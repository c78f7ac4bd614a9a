package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"worklog/internal/cache"
	"worklog/internal/cli"
	apphttp "worklog/internal/http"
	"worklog/internal/log"
	"worklog/internal/session"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentApp, os.Stdout)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	res, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	sessions := session.NewManager(res.Store, cfg.MaxSessions, cfg.SessionTTL)

	janitor := cache.NewJanitor()
	janitor.Register("sessions", sessions.Cache())
	janitor.Start(time.Minute)
	defer janitor.Stop()

	srv := apphttp.NewServer(":"+cfg.Port, res.Service, sessions, apphttp.Options{
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	}()

	logger.Info("Starting worklog server",
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend,
		"publishing", res.Publishing,
		"capacity_hours", res.Service.Capacity())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		cancel()
		os.Exit(1)
	}

	<-stopped
	logger.Info("Server stopped gracefully")
}
