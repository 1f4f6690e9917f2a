package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/agent"
	"github.com/minsung-dev/choomup/internal/models"
	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/minsung-dev/choomup/internal/stores"
	"golang.org/x/time/rate"
)

// LedgerStore is the quota ledger capability the engine depends on.
type LedgerStore interface {
	ListEligible(maxPerAccount int, idRange string, highCount func(folder string) int) []models.Account
	Increment(email string) (int, error)
	Set(email string, count int) error
}

// HistoryStore is the upload history capability, parameterized by account
// email at every call site.
type HistoryStore interface {
	IsUploaded(email, filename string) bool
	Record(email, filename string, artist, title models.NullString) error
}

// RunJournal records run outcomes for reporting. Best-effort: the engine
// logs journal errors and keeps going.
type RunJournal interface {
	StartRun(id string, startedAt time.Time) error
	FinishRun(id, status string, accounts, uploads, failures int) error
	RecordUpload(ev stores.UploadEvent) error
}

// RunOpts configures one orchestrator run.
type RunOpts struct {
	MaxPerAccount int    // Quota ceiling per account
	IDRange       string // Optional "a-b" or "n" account id filter
	VideoRoot     string // Directory containing the per-folder video files
	HashtagCount  int    // Hashtags appended to each description
}

// RunResult summarizes a completed (or aborted) run.
type RunResult struct {
	RunID    string
	Accounts int // Accounts processed to completion
	Uploads  int // Confirmed successful uploads this run
	Skipped  int // Candidates skipped (already uploaded or no title)
}

// EngineOpts contains dependencies and tuning for NewUploadEngine.
type EngineOpts struct {
	Ledger  LedgerStore
	History HistoryStore
	Catalog CatalogReader
	Agent   agent.UploadAgent
	Journal RunJournal // optional
	Logger  *log.Logger
	Delay   time.Duration // Fixed inter-upload delay (courtesy pacing)
	Seed    int64         // Hashtag sampling seed; 0 means time-based
}

// UploadEngine drives the end-to-end per-account, per-file upload loop. It is
// the only component with cross-cutting control flow and failure policy: any
// login or upload failure aborts the whole run so the supervisor can restart
// with a fresh browser session.
type UploadEngine struct {
	ledger  LedgerStore
	history HistoryStore
	catalog CatalogReader
	agent   agent.UploadAgent
	journal RunJournal
	logger  *log.Logger
	limiter *rate.Limiter
	rng     *rand.Rand
	now     func() time.Time
}

// NewUploadEngine creates an engine with the provided dependencies.
func NewUploadEngine(opts EngineOpts) *UploadEngine {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var limiter *rate.Limiter
	if opts.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	return &UploadEngine{
		ledger:  opts.Ledger,
		history: opts.History,
		catalog: opts.Catalog,
		agent:   opts.Agent,
		journal: opts.Journal,
		logger:  opts.Logger,
		limiter: limiter,
		rng:     rand.New(rand.NewSource(seed)),
		now:     time.Now,
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *UploadEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Run executes the full upload pass. Returns the run summary together with
// the aborting error, if any; counters in the summary reflect work completed
// before the abort. A cancelled context maps to [shared.ErrInterrupted] so
// the caller can exit with a distinct, non-retryable status.
func (e *UploadEngine) Run(ctx context.Context, opts RunOpts, progress chan<- ProgressUpdate) (*RunResult, error) {
	if e.agent == nil {
		return nil, fmt.Errorf("%w: upload agent not initialized", shared.ErrServiceUnavailable)
	}

	result := &RunResult{RunID: shared.GenerateID()}
	e.journalStart(result)

	err := e.run(ctx, opts, progress, result)
	e.journalFinish(result, err)
	return result, err
}

func (e *UploadEngine) run(ctx context.Context, opts RunOpts, progress chan<- ProgressUpdate, result *RunResult) error {
	accounts := e.ledger.ListEligible(opts.MaxPerAccount, opts.IDRange, e.catalog.HighConfidenceCount)
	e.sendProgress(progress, selectAccountsUpdate(len(accounts)))

	if len(accounts) == 0 {
		e.logger.Info("no accounts ready for upload, nothing to do")
		return nil
	}

	for i, account := range accounts {
		if err := e.interrupted(ctx); err != nil {
			return err
		}

		e.sendProgress(progress, loginUpdate(i+1, len(accounts), account.Email))
		e.logger.Info("processing account", "email", account.Email, "folder", account.Folder.Or(""))

		if err := e.agent.Login(ctx, account.Email, account.Password); err != nil {
			if cerr := e.interrupted(ctx); cerr != nil {
				return cerr
			}
			// A failed login likely indicates an environment-level problem
			// that will recur for every remaining account.
			return fmt.Errorf("%w: %s: %v", shared.ErrLoginFailed, account.Email, err)
		}

		uploaded, err := e.processAccount(ctx, account, opts, progress, result)
		if err != nil {
			return err
		}

		if err := e.agent.Logout(ctx); err != nil {
			e.logger.Warn("logout failed", "email", account.Email, "err", err)
		}

		result.Accounts++
		e.sendProgress(progress, accountDoneUpdate(i+1, len(accounts), account.Email, uploaded))
	}

	e.sendProgress(progress, runDoneUpdate(result.Uploads))
	e.logger.Info("run complete", "accounts", result.Accounts, "uploads", result.Uploads, "skipped", result.Skipped)
	return nil
}

// processAccount drives the file pump for one logged-in account. Returns the
// number of uploads confirmed this pass.
func (e *UploadEngine) processAccount(ctx context.Context, account models.Account, opts RunOpts, progress chan<- ProgressUpdate, result *RunResult) (int, error) {
	candidates := ResolveCandidates(e.catalog, account.Folder.Value, opts.VideoRoot, e.logger)

	// Local running count seeded from the ledger value at account start.
	count := account.UploadedCount
	uploadedThisPass := 0

	for _, candidate := range candidates {
		if err := e.interrupted(ctx); err != nil {
			return uploadedThisPass, err
		}

		if count >= opts.MaxPerAccount {
			e.logger.Info("quota reached, deferring remaining candidates",
				"email", account.Email, "count", count, "max", opts.MaxPerAccount)
			break
		}

		filename := candidate.Entry.OriginalFilename
		if e.history.IsUploaded(account.Email, filename) {
			e.sendProgress(progress, skipUpdate(account.Email, filename, "already uploaded"))
			e.logger.Info("already uploaded, skipping", "email", account.Email, "file", filename)
			result.Skipped++
			continue
		}
		if !candidate.Entry.Title.Valid {
			e.sendProgress(progress, skipUpdate(account.Email, filename, "no title"))
			result.Skipped++
			continue
		}

		e.sendProgress(progress, uploadUpdate(count+1, opts.MaxPerAccount, account.Email, filename))

		req := agent.UploadRequest{
			FilePath:    candidate.Path,
			Artist:      candidate.Entry.Artist,
			Title:       candidate.Entry.Title.Value,
			Description: BuildDescription(candidate.Entry.Artist, candidate.Entry.Title.Value, opts.HashtagCount, e.rng),
		}

		started := e.now()
		err := e.agent.Upload(ctx, req)
		e.journalUpload(result.RunID, account.Email, candidate, started, err)

		if err != nil {
			if cerr := e.interrupted(ctx); cerr != nil {
				return uploadedThisPass, cerr
			}
			// Crash-fast: the browser session's DOM state is unreliable after
			// a failed step; continuing risks uploading the wrong file under
			// the wrong metadata.
			return uploadedThisPass, fmt.Errorf("%w: %s for %s: %v",
				shared.ErrUploadFailed, filepath.Base(candidate.Path), account.Email, err)
		}

		// Persist history first: losing the record after a confirmed upload
		// causes a duplicate on restart, which the platform does not dedupe.
		if err := e.history.Record(account.Email, filename, candidate.Entry.Artist, candidate.Entry.Title); err != nil {
			e.logger.Error("failed to persist upload history after confirmed upload; duplicate upload possible on restart",
				"email", account.Email, "file", filename, "err", err)
		}

		newCount, err := e.ledger.Increment(account.Email)
		if err != nil {
			e.logger.Error("failed to persist upload count after confirmed upload",
				"email", account.Email, "file", filename, "err", err)
		}
		count = newCount
		uploadedThisPass++
		result.Uploads++

		if e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return uploadedThisPass, fmt.Errorf("%w: %v", shared.ErrInterrupted, err)
			}
		}
	}

	// Re-sync the persisted count; idempotent with the increments above.
	if err := e.ledger.Set(account.Email, count); err != nil {
		e.logger.Error("failed to re-sync upload count", "email", account.Email, "err", err)
	}

	return uploadedThisPass, nil
}

// interrupted maps context cancellation to the distinct interrupt error.
func (e *UploadEngine) interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInterrupted, err)
	}
	return nil
}

func (e *UploadEngine) journalStart(result *RunResult) {
	if e.journal == nil {
		return
	}
	if err := e.journal.StartRun(result.RunID, e.now()); err != nil {
		e.logger.Warn("failed to journal run start", "err", err)
	}
}

func (e *UploadEngine) journalFinish(result *RunResult, runErr error) {
	if e.journal == nil {
		return
	}
	status := "success"
	failures := 0
	if runErr != nil {
		status = "failed"
		failures = 1
	}
	if err := e.journal.FinishRun(result.RunID, status, result.Accounts, result.Uploads, failures); err != nil {
		e.logger.Warn("failed to journal run finish", "err", err)
	}
}

func (e *UploadEngine) journalUpload(runID, email string, candidate Candidate, started time.Time, uploadErr error) {
	if e.journal == nil {
		return
	}
	ev := stores.UploadEvent{
		RunID:     runID,
		Email:     email,
		Filename:  candidate.Entry.OriginalFilename,
		Artist:    candidate.Entry.Artist.Or(""),
		Title:     candidate.Entry.Title.Or(""),
		StartedAt: started,
		Duration:  e.now().Sub(started),
		OK:        uploadErr == nil,
	}
	if uploadErr != nil {
		ev.Error = uploadErr.Error()
	}
	if err := e.journal.RecordUpload(ev); err != nil {
		e.logger.Warn("failed to journal upload", "err", err)
	}
}
