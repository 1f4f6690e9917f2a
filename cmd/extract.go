package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/minsung-dev/choomup/internal/extractor"
	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/minsung-dev/choomup/internal/stores"
	"github.com/urfave/cli/v3"
)

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true, ".webm": true,
}

// Extract runs the offline metadata extraction pipeline: scan video folders,
// send filenames to the model in batches, and write the verdicts into the
// catalog. Already-cataloged files are not re-extracted.
func (r *Runner) Extract(ctx context.Context, cmd *cli.Command) error {
	folderArg := cmd.StringArg("folder")

	batchSize := r.config.Extractor.BatchSize
	if cmd.Int("batch-size") > 0 {
		batchSize = cmd.Int("batch-size")
	}
	if batchSize <= 0 {
		batchSize = 20
	}
	model := r.config.Extractor.Model
	if cmd.String("model") != "" {
		model = cmd.String("model")
	}

	apiKey := os.Getenv(r.config.Extractor.APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("%w: %s is not set", shared.ErrMissingConfig, r.config.Extractor.APIKeyEnv)
	}

	catalog, err := r.openCatalog()
	if errors.Is(err, shared.ErrMissingCatalog) {
		catalog = stores.NewCatalog(r.config.Paths.Catalog, r.logger)
	} else if err != nil {
		return err
	}

	folders, err := r.extractionFolders(folderArg)
	if err != nil {
		return err
	}

	ex := extractor.NewOpenAIExtractor(r.config.Extractor.BaseURL, apiKey, model, nil)

	for _, folder := range folders {
		if err := r.extractFolder(ctx, ex, catalog, folder, batchSize); err != nil {
			return err
		}
	}
	return nil
}

// extractionFolders resolves the folder argument to the list of directories
// to process.
func (r *Runner) extractionFolders(folderArg string) ([]string, error) {
	if folderArg != "" {
		return []string{folderArg}, nil
	}

	entries, err := os.ReadDir(r.config.General.VideoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to read video root %s: %w", r.config.General.VideoRoot, err)
	}

	var folders []string
	for _, entry := range entries {
		if entry.IsDir() {
			folders = append(folders, entry.Name())
		}
	}
	sort.Strings(folders)
	return folders, nil
}

// extractFolder extracts metadata for the folder's uncataloged video files.
func (r *Runner) extractFolder(ctx context.Context, ex extractor.MetadataExtractor, catalog *stores.Catalog, folder string, batchSize int) error {
	dir := filepath.Join(r.config.General.VideoRoot, folder)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read folder %s: %w", dir, err)
	}

	known := make(map[string]bool)
	existing := catalog.Entries(folder)
	for _, e := range existing {
		known[e.OriginalFilename] = true
	}

	var pending []string
	for _, entry := range dirEntries {
		if entry.IsDir() || !videoExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if known[entry.Name()] {
			continue
		}
		pending = append(pending, entry.Name())
	}
	sort.Strings(pending)

	if len(pending) == 0 {
		r.writePlain("%s: nothing to extract\n", folder)
		return nil
	}
	r.writePlain("%s: extracting metadata for %d files\n", folder, len(pending))

	entries := existing
	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))
		batch := pending[start:end]

		r.logger.Info("extracting batch", "folder", folder, "files", len(batch))
		extractions, err := ex.ExtractBatch(ctx, batch)
		if err != nil {
			return fmt.Errorf("extraction failed for %s: %w", folder, err)
		}

		for _, x := range extractions {
			entries = append(entries, x.Entry())
			r.writePlain("  %s → %s (%s)\n", x.OriginalFilename, formatVerdict(x), x.Confidence)
		}

		// Persist after every batch so an abort keeps the finished work.
		if err := catalog.Put(folder, entries); err != nil {
			return err
		}
	}

	return nil
}

func formatVerdict(x extractor.Extraction) string {
	if entry := x.Entry(); entry.FinalFormat != "" {
		return entry.FinalFormat
	}
	return "(no title)"
}
