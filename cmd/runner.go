package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/minsung-dev/choomup/internal/stores"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, superviseCommand, statusCommand, statsCommand, journalCommand,
		exportCommand, catalogCommand, historyCommand, extractCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger swaps the runner's logger, used when a command redirects logs to
// a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// openLedger loads the account ledger from the configured path.
func (r *Runner) openLedger() (*stores.Ledger, error) {
	return stores.LoadLedger(r.config.Paths.Ledger, r.logger)
}

// openHistory loads the upload history from the configured path.
func (r *Runner) openHistory() (*stores.History, error) {
	return stores.LoadHistory(r.config.Paths.History, r.logger)
}

// openCatalog loads the asset catalog from the configured path.
func (r *Runner) openCatalog() (*stores.Catalog, error) {
	return stores.LoadCatalog(r.config.Paths.Catalog, r.logger)
}

// openJournal opens the run journal database. Journal failures are reported
// to the caller, which decides whether they are fatal.
func (r *Runner) openJournal() (*stores.Journal, error) {
	return stores.OpenJournal(r.config.Paths.Journal)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
