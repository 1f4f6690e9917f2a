package stores

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Journal records run and upload outcomes in SQLite for the reporting
// commands. All writes are best-effort from the orchestrator's point of view;
// a journal failure is logged by the caller and never aborts a run.
type Journal struct {
	db *sql.DB
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Accounts   int
	Uploads    int
	Failures   int
	Status     string
}

// UploadEvent is one row of the uploads table.
type UploadEvent struct {
	RunID     string
	Email     string
	Filename  string
	Artist    string
	Title     string
	StartedAt time.Time
	Duration  time.Duration
	OK        bool
	Error     string
}

// OpenJournal opens (or creates) the journal database at path and applies
// any pending schema migrations. The path can be ":memory:" for tests.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal database: %w", err)
	}

	if err := migrateJournal(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Journal{db: db}, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// StartRun records the beginning of an orchestrator run.
func (j *Journal) StartRun(id string, startedAt time.Time) error {
	_, err := j.db.Exec(
		`INSERT INTO runs (id, started_at, status) VALUES (?, ?, 'running')`,
		id, startedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// FinishRun closes out a run row with final counters and status.
func (j *Journal) FinishRun(id, status string, accounts, uploads, failures int) error {
	_, err := j.db.Exec(
		`UPDATE runs SET finished_at = ?, accounts = ?, uploads = ?, failures = ?, status = ? WHERE id = ?`,
		time.Now(), accounts, uploads, failures, status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordUpload appends one upload attempt outcome.
func (j *Journal) RecordUpload(ev UploadEvent) error {
	_, err := j.db.Exec(
		`INSERT INTO uploads (run_id, email, filename, artist, title, started_at, duration_ms, ok, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID, ev.Email, ev.Filename, ev.Artist, ev.Title,
		ev.StartedAt, ev.Duration.Milliseconds(), ev.OK, ev.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to insert upload event: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (j *Journal) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := j.db.Query(
		`SELECT id, started_at, COALESCE(finished_at, started_at), accounts, uploads, failures, status
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.Accounts, &r.Uploads, &r.Failures, &r.Status); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// RunUploads returns the upload events of one run in insertion order.
func (j *Journal) RunUploads(runID string) ([]UploadEvent, error) {
	rows, err := j.db.Query(
		`SELECT run_id, email, filename, artist, title, started_at, duration_ms, ok, error
		 FROM uploads WHERE run_id = ? ORDER BY rowid`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query uploads: %w", err)
	}
	defer rows.Close()

	var events []UploadEvent
	for rows.Next() {
		var ev UploadEvent
		var durationMS int64
		if err := rows.Scan(&ev.RunID, &ev.Email, &ev.Filename, &ev.Artist, &ev.Title, &ev.StartedAt, &durationMS, &ev.OK, &ev.Error); err != nil {
			return nil, fmt.Errorf("failed to scan upload event: %w", err)
		}
		ev.Duration = time.Duration(durationMS) * time.Millisecond
		events = append(events, ev)
	}
	return events, rows.Err()
}
