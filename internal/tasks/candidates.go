package tasks

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/models"
)

// Candidate is one upload-eligible file resolved against the local disk.
type Candidate struct {
	Path  string // Full path under the video root
	Entry models.CatalogEntry
}

// CatalogReader is the slice of the catalog store the resolver and engine
// need.
type CatalogReader interface {
	Entries(folder string) []models.CatalogEntry
	HighConfidenceCount(folder string) int
}

// ResolveCandidates returns the folder's upload candidates in catalog order:
// entries with high confidence and a usable title whose file actually exists
// under videoRoot/folder. Entries listed in the catalog but absent from disk
// are logged and skipped, never failing the batch. The order is stable so a
// rerun after a crash resumes at a predictable point.
func ResolveCandidates(catalog CatalogReader, folder, videoRoot string, logger *log.Logger) []Candidate {
	base := filepath.Join(videoRoot, folder)

	var out []Candidate
	for _, entry := range catalog.Entries(folder) {
		if entry.Confidence != models.ConfidenceHigh {
			logger.Info("skipping low confidence file",
				"file", entry.OriginalFilename, "confidence", entry.Confidence)
			continue
		}
		if !entry.Title.Valid {
			logger.Warn("skipping file with no title", "file", entry.OriginalFilename)
			continue
		}

		path := filepath.Join(base, entry.OriginalFilename)
		if _, err := os.Stat(path); err != nil {
			logger.Warn("file missing on disk, skipping", "path", path)
			continue
		}

		out = append(out, Candidate{Path: path, Entry: entry})
	}

	logger.Info("resolved upload candidates", "folder", folder, "count", len(out))
	return out
}
