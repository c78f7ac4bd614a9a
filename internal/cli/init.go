// Package cli holds the process bootstrap shared by cmd/worklog,
// cmd/worklog-sync and cmd/worklogctl, and the worklogctl commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"worklog/internal/backend"
	"worklog/internal/config"
	"worklog/internal/log"
	gsheet "worklog/internal/sheets/google"
)

// ErrMirrorDisabled is returned when the Google Sheets mirror is not configured.
var ErrMirrorDisabled = errors.New("google sheets mirror not configured (set GOOGLE_SPREADSHEET_ID and service account credentials)")

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger for component and installs it as the
// slog default.
func SetupLogger(level, component string, out io.Writer) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: component,
		Output:    out,
	})
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration, sets up logging to out at the
// configured level and validates. It exits the process on failure.
func LoadAndValidateConfig(component string, out io.Writer) (*config.Config, *log.Logger) {
	cfg, err := config.Load()
	if err != nil {
		logger := SetupLogger(os.Getenv("LOG_LEVEL"), component, out)
		logger.Error("Failed to load configuration", log.FieldError, err)
		os.Exit(1)
	}
	logger := SetupLogger(cfg.LogLevel, component, out)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}

// OpenBackend creates the configured store and the service over it.
func OpenBackend(ctx context.Context, logger *log.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("backend config: %w", err)
	}
	res, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", bcfg.Type, err)
	}
	return res, nil
}

// NewMirror connects to the Google Sheets mirror.
func NewMirror(ctx context.Context, cfg *config.Config) (*gsheet.Client, error) {
	if !cfg.MirrorEnabled() {
		return nil, ErrMirrorDisabled
	}
	return gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetPrefix:     cfg.GoogleSheetPrefix,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
