package tasks

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
)

// Exit codes shared between the orchestrator process and the supervisor.
// ExitInterrupted is distinct so a user Ctrl-C is never retried.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitInterrupted = 130
)

// Supervisor repeatedly launches the orchestrator process until it exits
// cleanly. It shares no state with the orchestrator beyond the exit code;
// resume correctness relies entirely on the ledger and history stores being
// persisted synchronously after every confirmed upload.
type Supervisor struct {
	MaxRetries int
	Delay      time.Duration
	Command    func() *exec.Cmd // Builds a fresh orchestrator invocation per attempt
	Logger     *log.Logger
	Sleep      func(context.Context, time.Duration) error // nil means real sleep
}

// Run drives the retry loop. Exit 0 stops with success; the interrupt code
// stops without retrying; any other exit waits the configured delay and
// retries up to MaxRetries. Exceeding the budget returns an error.
func (s *Supervisor) Run(ctx context.Context) error {
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			s.Logger.Info("waiting before restart", "delay", s.Delay, "attempt", attempt, "max", s.MaxRetries)
			if err := sleep(ctx, s.Delay); err != nil {
				return err
			}
		}

		s.Logger.Info("starting upload run", "attempt", attempt+1)
		code, err := s.runOnce()
		if err != nil {
			return err
		}

		switch code {
		case ExitSuccess:
			s.Logger.Info("upload run completed successfully")
			return nil
		case ExitInterrupted:
			s.Logger.Info("upload run interrupted by user, not retrying")
			return fmt.Errorf("run interrupted")
		default:
			s.Logger.Error("upload run failed", "exit_code", code)
		}
	}

	return fmt.Errorf("maximum retries (%d) exceeded", s.MaxRetries)
}

// runOnce spawns one orchestrator process and returns its exit code.
// Cancellation is handled by the caller building commands with
// [exec.CommandContext].
func (s *Supervisor) runOnce() (int, error) {
	cmd := s.Command()
	err := cmd.Run()
	if err == nil {
		return ExitSuccess, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, fmt.Errorf("failed to run orchestrator: %w", err)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
