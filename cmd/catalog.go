package main

import (
	"context"
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/minsung-dev/choomup/internal/ui"
	"github.com/urfave/cli/v3"
)

// CatalogList prints catalog folders, or the entries of one folder.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	folder := cmd.StringArg("folder")

	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}

	if folder == "" {
		if cmd.Bool("json") {
			summary := make(map[string]int)
			for _, f := range catalog.Folders() {
				summary[f] = len(catalog.Entries(f))
			}
			return r.writeJSON(summary, true)
		}
		for _, f := range catalog.Folders() {
			r.writePlain("%-32s %4d entries, %d eligible\n",
				f, len(catalog.Entries(f)), catalog.HighConfidenceCount(f))
		}
		return nil
	}

	entries := catalog.Entries(folder)
	if entries == nil {
		return fmt.Errorf("%w: folder %s", shared.ErrEntryUnknown, folder)
	}
	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}
	for i, e := range entries {
		eligible := " "
		if e.Uploadable() {
			eligible = "✓"
		}
		r.writePlain("%s %3d. %s\n", eligible, i+1, e.OriginalFilename)
		if e.FinalFormat != "" {
			r.writePlain("       %s (%s)\n", e.FinalFormat, e.Confidence)
		}
	}
	return nil
}

// CatalogBrowse launches the interactive catalog browser.
func (r *Runner) CatalogBrowse(ctx context.Context, cmd *cli.Command) error {
	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/choomup-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(catalog)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running catalog browser: %w", err)
	}
	return model.Err()
}

// CatalogRemove deletes one entry from a folder.
func (r *Runner) CatalogRemove(ctx context.Context, cmd *cli.Command) error {
	folder := cmd.String("folder")
	file := cmd.String("file")

	catalog, err := r.openCatalog()
	if err != nil {
		return err
	}
	if err := catalog.RemoveEntry(folder, file); err != nil {
		return err
	}
	return r.writePlain("Removed %s from %s\n", file, folder)
}

// HistoryShow prints the recorded uploads for one account.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}

	history, err := r.openHistory()
	if err != nil {
		return err
	}

	files := history.Files(email)
	if len(files) == 0 {
		return r.writePlain("No recorded uploads for %s.\n", email)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	r.writePlain("%d recorded uploads for %s:\n\n", len(names), email)
	for _, name := range names {
		rec := files[name]
		r.writePlain("%-48s %s", name, rec.UploadDate.Format("2006-01-02"))
		if rec.Title.Valid {
			r.writePlain("  %s", rec.Title.Value)
		}
		r.writePlain("\n")
	}
	return nil
}

// HistoryRemove deletes one record so the file can be uploaded again.
func (r *Runner) HistoryRemove(ctx context.Context, cmd *cli.Command) error {
	email := cmd.String("email")
	file := cmd.String("file")

	history, err := r.openHistory()
	if err != nil {
		return err
	}
	if err := history.Remove(email, file); err != nil {
		return err
	}
	return r.writePlain("Removed %s from history of %s\n", file, email)
}

// HistoryClear deletes every record for one account. Destructive, so it
// requires --yes.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email", shared.ErrMissingArgument)
	}
	if !cmd.Bool("yes") {
		return r.writePlain("Refusing to clear history for %s without --yes\n", email)
	}

	history, err := r.openHistory()
	if err != nil {
		return err
	}
	count := history.Count(email)
	if err := history.Clear(email); err != nil {
		return err
	}
	return r.writePlain("Cleared %d records for %s\n", count, email)
}
