package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/minsung-dev/choomup/internal/tasks"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	if level, err := log.ParseLevel(config.General.LogLevel); err == nil {
		shared.SetLogLevel(logger, level)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "choomup",
		Usage:    "Upload dance cover videos across multiple accounts",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	// Ctrl-C cancels the run context; the engine surfaces it as an interrupt
	// so the supervisor knows not to restart.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrInterrupted) {
			logger.Warn("interrupted")
			os.Exit(tasks.ExitInterrupted)
		}
		logger.Error("application error", "error", err)
		os.Exit(tasks.ExitFailure)
	}
}
