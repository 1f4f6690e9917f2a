package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates a config file from the embedded template and the working
// directories the stores live in.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
		r.writePlain("Created %s\n", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, dir := range []string{
		config.General.VideoRoot,
		filepath.Dir(config.Paths.History),
		filepath.Dir(config.Paths.Journal),
	} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	r.writePlain("Setup complete.\n")
	r.writePlain("  ledger:  %s\n", config.Paths.Ledger)
	r.writePlain("  history: %s\n", config.Paths.History)
	r.writePlain("  catalog: %s\n", config.Paths.Catalog)
	r.writePlain("  videos:  %s\n", config.General.VideoRoot)
	return nil
}
