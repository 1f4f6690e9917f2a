package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/minsung-dev/choomup/internal/formatter"
	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/minsung-dev/choomup/internal/stores"
	"github.com/urfave/cli/v3"
)

// buildStatusReport assembles the point-in-time status snapshot from the local
// stores.
func (r *Runner) buildStatusReport() (*formatter.StatusReport, error) {
	ledger, err := r.openLedger()
	if err != nil {
		return nil, err
	}
	history, err := r.openHistory()
	if err != nil {
		return nil, err
	}
	catalog, err := r.openCatalog()
	if err != nil {
		return nil, err
	}

	report := &formatter.StatusReport{GeneratedAt: time.Now()}
	for _, account := range ledger.Accounts() {
		row := formatter.StatusRow{
			ID:       account.ID,
			Email:    account.Email,
			Folder:   account.Folder.Or(""),
			Uploaded: account.UploadedCount,
			Cap:      r.config.General.MaxUploadsPerAccount,
			Recorded: history.Count(account.Email),
		}
		if account.HasFolder() {
			row.Eligible = catalog.HighConfidenceCount(account.Folder.Value)
		}
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

// Status prints the per-account quota table, optionally narrowed to an
// account id range.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	report, err := r.buildStatusReport()
	if err != nil {
		return err
	}

	if rangeArg := cmd.StringArg("range"); rangeArg != "" {
		start, end, err := stores.ParseAccountRange(rangeArg)
		if err != nil {
			return err
		}
		rows := report.Rows[:0]
		for _, row := range report.Rows {
			if row.ID >= start && row.ID <= end {
				rows = append(rows, row)
			}
		}
		report.Rows = rows
	}

	if cmd.Bool("json") {
		return r.writeJSON(report, cmd.Bool("pretty"))
	}

	data, err := formatter.ExportToText(report)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// folderStats counts the catalog entries of one folder by confidence.
type folderStats struct {
	Files int `json:"files"`
	High  int `json:"high_confidence"`
}

// uploadStats summarizes the history and catalog stores for the stats command.
type uploadStats struct {
	Accounts     int                    `json:"accounts"`
	TotalUploads int                    `json:"total_uploads"`
	PerAccount   map[string]int         `json:"per_account"`
	Folders      map[string]folderStats `json:"folders,omitempty"`
}

// Stats summarizes the upload history and the per-folder confidence
// distribution of the catalog.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	history, err := r.openHistory()
	if err != nil {
		return err
	}

	stats := uploadStats{PerAccount: make(map[string]int)}
	emails := history.Emails()
	sort.Strings(emails)
	for _, email := range emails {
		count := history.Count(email)
		stats.PerAccount[email] = count
		stats.TotalUploads += count
		stats.Accounts++
	}

	// A missing catalog just means no extraction has run yet.
	catalog, err := r.openCatalog()
	if err != nil && !errors.Is(err, shared.ErrMissingCatalog) {
		return err
	}
	var folders []string
	if catalog != nil {
		stats.Folders = make(map[string]folderStats)
		folders = catalog.Folders()
		for _, folder := range folders {
			stats.Folders[folder] = folderStats{
				Files: len(catalog.Entries(folder)),
				High:  catalog.HighConfidenceCount(folder),
			}
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlainHeader("Upload History")
	r.writePlain("Accounts with uploads: %d\n", stats.Accounts)
	r.writePlain("Total recorded uploads: %d\n\n", stats.TotalUploads)
	for _, email := range emails {
		r.writePlain("%-32s %5d\n", email, stats.PerAccount[email])
	}
	if len(folders) > 0 {
		r.writePlain("\nCatalog confidence by folder:\n")
		for _, folder := range folders {
			fs := stats.Folders[folder]
			r.writePlain("%-32s %3d files, %3d high confidence\n", folder, fs.Files, fs.High)
		}
	}
	return nil
}

// JournalRuns lists the most recent runs from the journal.
func (r *Runner) JournalRuns(ctx context.Context, cmd *cli.Command) error {
	journal, err := r.openJournal()
	if err != nil {
		return err
	}
	defer journal.Close()

	runs, err := journal.RecentRuns(cmd.Int("limit"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return r.writePlain("No recorded runs.\n")
	}

	r.writePlain("%-36s %-20s %-9s %9s %8s %9s\n",
		"RUN", "STARTED", "STATUS", "ACCOUNTS", "UPLOADS", "FAILURES")
	for _, run := range runs {
		r.writePlain("%-36s %-20s %-9s %9d %8d %9d\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Status, run.Accounts, run.Uploads, run.Failures)
	}
	return nil
}

// JournalUploads lists the upload attempts recorded for one run.
func (r *Runner) JournalUploads(ctx context.Context, cmd *cli.Command) error {
	runID := cmd.StringArg("run-id")
	if runID == "" {
		return fmt.Errorf("%w: run-id", shared.ErrMissingArgument)
	}

	journal, err := r.openJournal()
	if err != nil {
		return err
	}
	defer journal.Close()

	events, err := journal.RunUploads(runID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return r.writePlain("No uploads recorded for run %s.\n", runID)
	}

	for i, ev := range events {
		mark := "✓"
		if !ev.OK {
			mark = "✗"
		}
		r.writePlain("%s %d. [%s] %s (%s)", mark, i+1, ev.Email, ev.Filename, ev.Duration.Round(time.Millisecond))
		if ev.Error != "" {
			r.writePlain(": %s", ev.Error)
		}
		r.writePlain("\n")
	}
	return nil
}

// Export writes the status report in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	outputPath := cmd.String("output")

	report, err := r.buildStatusReport()
	if err != nil {
		return err
	}

	data, err := formatter.Export(report, format)
	if err != nil {
		return err
	}

	if outputPath == "" {
		return r.writePlain("%s", data)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	r.logger.Info("exported status report", "format", format, "path", outputPath)
	return r.writePlain("Exported %d accounts to %s\n", len(report.Rows), outputPath)
}
