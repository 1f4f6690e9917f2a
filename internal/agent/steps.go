package agent

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// checkpoint marks a point in the upload step sequence the recovery path can
// re-enter at. Steps before a checkpoint are replayed on recovery; steps
// after it are not, because their DOM side effects survived the failure.
type checkpoint int

const (
	checkpointStart checkpoint = iota
	checkpointSearch
	checkpointFileSelect
)

func (c checkpoint) String() string {
	switch c {
	case checkpointStart:
		return "start"
	case checkpointSearch:
		return "post_search"
	case checkpointFileSelect:
		return "post_file_select"
	default:
		return ""
	}
}

// uploadStep is one named browser interaction in the upload sequence.
// Reaches marks the checkpoint this step establishes on success, if any.
type uploadStep struct {
	name    string
	reaches checkpoint
	run     func() error
}

// runSteps executes steps in order. On a step failure it asks recover to
// bring the page back to the last established checkpoint and replays from
// the first step after that checkpoint, at most retries times. Failing with
// no retries left returns the step error.
func runSteps(steps []uploadStep, retries int, recover func(checkpoint) error, logger *log.Logger) error {
	last := checkpointStart
	attempts := 0

	for i := 0; i < len(steps); i++ {
		step := steps[i]
		if err := step.run(); err != nil {
			if attempts >= retries {
				return fmt.Errorf("step %s failed: %w", step.name, err)
			}
			attempts++
			logger.Warn("upload step failed, recovering",
				"step", step.name, "checkpoint", last.String(), "attempt", attempts)

			if rerr := recover(last); rerr != nil {
				return fmt.Errorf("recovery at %s failed: %w", last.String(), rerr)
			}
			i = indexAfterCheckpoint(steps, last) - 1
			continue
		}
		if step.reaches > last {
			last = step.reaches
		}
	}

	return nil
}

// wizardActions holds the page interactions the recovery path replays to
// rebuild wizard state after a failure.
type wizardActions struct {
	open       func() error
	search     func() error
	next       func() error
	importFile func() error
	selectFile func() error
}

// replayToCheckpoint rebuilds wizard state up to and including cp. It must
// stop at the action whose step establishes cp: runSteps resumes at the step
// after that one, so going further would double-run a step.
func replayToCheckpoint(cp checkpoint, w wizardActions) error {
	if err := w.open(); err != nil {
		return err
	}
	if cp < checkpointSearch {
		return nil
	}
	if err := w.search(); err != nil {
		return err
	}
	if cp < checkpointFileSelect {
		return nil
	}
	if err := w.next(); err != nil {
		return err
	}
	if err := w.importFile(); err != nil {
		return err
	}
	return w.selectFile()
}

// indexAfterCheckpoint returns the index of the first step to replay when
// re-entering at cp: the step immediately after the one that establishes cp,
// or 0 for the start checkpoint.
func indexAfterCheckpoint(steps []uploadStep, cp checkpoint) int {
	if cp == checkpointStart {
		return 0
	}
	for i, s := range steps {
		if s.reaches == cp {
			return i + 1
		}
	}
	return 0
}
