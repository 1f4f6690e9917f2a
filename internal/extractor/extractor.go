// Package extractor builds catalog metadata from video filenames.
//
// This is the offline half of the pipeline: it is never invoked by the
// upload orchestrator at runtime. Filenames are cleaned of noise
// ([MIRRORED] tags, hashtags-only keywords, separator runs) and sent in
// batches to a chat-completions model that extracts artist and title with a
// confidence grade. The extracted metadata is untrusted input; only entries
// the model grades "high" ever become upload candidates.
package extractor

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/minsung-dev/choomup/internal/models"
)

// Extraction is the model's verdict for one filename.
type Extraction struct {
	OriginalFilename string
	CleanedFilename  string
	Artist           models.NullString
	Title            models.NullString
	Confidence       models.Confidence
}

// MetadataExtractor turns a batch of filenames into confidence-tagged
// artist/title guesses.
type MetadataExtractor interface {
	ExtractBatch(ctx context.Context, filenames []string) ([]Extraction, error)
}

var (
	bracketPattern   = regexp.MustCompile(`\[.*?\]|\([^)]*\)`)
	separatorPattern = regexp.MustCompile(`[_\-\s]+`)
)

// Keywords that carry no artist/title information in dance cover filenames.
var noiseKeywords = []string{
	"dance", "cover", "mirrored", "feat", "featuring",
	"official", "mv", "music video", "choreography", "choreo",
}

// CleanFilename strips the extension, bracketed tags and noise keywords,
// then collapses separator runs to single spaces.
func CleanFilename(filename string) string {
	name := strings.TrimSuffix(filename, filepath.Ext(filename))
	name = bracketPattern.ReplaceAllString(name, "")

	for _, kw := range noiseKeywords {
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		name = pattern.ReplaceAllString(name, "")
	}

	return strings.TrimSpace(separatorPattern.ReplaceAllString(name, " "))
}

// Entry converts an extraction into its catalog form, deriving final_format
// ("Artist - Title", or title-only when the artist is absent).
func (x Extraction) Entry() models.CatalogEntry {
	finalFormat := x.Title.Or("")
	if x.Artist.Valid && x.Title.Valid {
		finalFormat = x.Artist.Value + " - " + x.Title.Value
	}

	return models.CatalogEntry{
		OriginalFilename: x.OriginalFilename,
		CleanedFilename:  x.CleanedFilename,
		Artist:           x.Artist,
		Title:            x.Title,
		Confidence:       x.Confidence,
		FinalFormat:      finalFormat,
	}
}
