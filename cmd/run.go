package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/minsung-dev/choomup/internal/agent"
	"github.com/minsung-dev/choomup/internal/stores"
	"github.com/minsung-dev/choomup/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Run executes one full upload pass across the eligible accounts. Any login
// or upload failure aborts the whole process; restart policy lives in the
// supervisor, not here.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	idRange := cmd.StringArg("range")

	maxUploads := r.config.General.MaxUploadsPerAccount
	if cmd.Int("max") > 0 {
		maxUploads = cmd.Int("max")
	}
	delay := time.Duration(r.config.General.UploadDelaySeconds) * time.Second
	if cmd.Int("delay") > 0 {
		delay = time.Duration(cmd.Int("delay")) * time.Second
	}

	ledger, err := r.openLedger()
	if err != nil {
		return err
	}
	history, err := r.openHistory()
	if err != nil {
		return err
	}
	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}

	var journal *stores.Journal
	if j, err := r.openJournal(); err != nil {
		r.logger.Warn("run journal unavailable, continuing without it", "error", err)
	} else {
		journal = j
		defer journal.Close()
	}

	uploadAgent := agent.NewHanlimAgent(r.config.Automation, r.logger)
	defer uploadAgent.Close()

	engine := tasks.NewUploadEngine(tasks.EngineOpts{
		Ledger:  ledger,
		History: history,
		Catalog: catalog,
		Agent:   uploadAgent,
		Journal: journal,
		Logger:  r.logger,
		Delay:   delay,
	})

	r.writePlain("Starting upload run...\n")
	if idRange != "" {
		r.writePlain("Account range: %s\n", idRange)
	}
	r.writePlain("Max uploads per account: %d\n\n", maxUploads)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	drained := r.printProgress(progressCh)

	result, runErr := engine.Run(ctx, tasks.RunOpts{
		MaxPerAccount: maxUploads,
		IDRange:       idRange,
		VideoRoot:     r.config.General.VideoRoot,
		HashtagCount:  r.config.General.HashtagCount,
	}, progressCh)
	close(progressCh)
	<-drained

	r.writePlain("\n")
	r.writePlainHeader("Upload Run Summary")
	r.writePlain("Accounts completed: %d\n", result.Accounts)
	r.writePlain("Uploads: %d\n", result.Uploads)
	r.writePlain("Skipped: %d\n", result.Skipped)
	if runErr != nil {
		r.writePlain("Aborted: %v\n", runErr)
	}

	return runErr
}

// printProgress renders progress updates until ch closes. The returned
// channel closes after the final update is written, so the caller can wait
// before printing output that must follow the progress lines.
func (r *Runner) printProgress(ch <-chan tasks.ProgressUpdate) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range ch {
			switch update.Phase {
			case tasks.SelectAccounts:
				r.writePlain("▶ %s\n", update.Message)
			case tasks.AccountLogin:
				r.writePlain("\n→ %s\n", update.Message)
			case tasks.FileUpload:
				r.writePlain("  ↑ %s\n", update.Message)
			case tasks.FileSkip:
				r.writePlain("  - %s\n", update.Message)
			case tasks.AccountDone:
				r.writePlain("✓ %s\n", update.Message)
			}
		}
	}()
	return done
}

// Supervise re-launches the run command until it exits cleanly. The child
// process is a fresh invocation of this binary so every attempt starts with a
// clean browser session and freshly loaded stores.
func (r *Runner) Supervise(ctx context.Context, cmd *cli.Command) error {
	idRange := cmd.StringArg("range")

	maxRetries := r.config.Supervisor.MaxRetries
	if cmd.Int("retries") > 0 {
		maxRetries = cmd.Int("retries")
	}
	retryDelay := time.Duration(r.config.Supervisor.RetryDelaySeconds) * time.Second
	if cmd.Int("retry-delay") > 0 {
		retryDelay = time.Duration(cmd.Int("retry-delay")) * time.Second
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	args := []string{"run"}
	if idRange != "" {
		args = append(args, idRange)
	}

	supervisor := &tasks.Supervisor{
		MaxRetries: maxRetries,
		Delay:      retryDelay,
		Logger:     r.logger,
		Command: func() *exec.Cmd {
			child := exec.CommandContext(ctx, executable, args...)
			child.Stdout = os.Stdout
			child.Stderr = os.Stderr
			return child
		},
	}

	r.writePlain("Supervising upload runs (max %d retries, %s between attempts)\n\n", maxRetries, retryDelay)
	return supervisor.Run(ctx)
}
