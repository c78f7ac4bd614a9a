package main

import (
	"errors"
	"fmt"
	"os"

	"worklog/internal/cli"
	"worklog/internal/core"
	"worklog/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig(log.ComponentCLI, os.Stderr)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	app := &cli.App{Config: cfg, Logger: logger}
	err := cli.NewRootCmd(app).ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil {
		logger.Error("Backend cleanup failed", log.FieldError, cerr)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, core.ErrInvalidWeekKey) {
			os.Exit(cli.ExitUsage)
		}
		os.Exit(cli.ExitError)
	}
}
