package tasks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/minsung-dev/choomup/internal/models"
	th "github.com/minsung-dev/choomup/internal/testing"
)

type staticCatalog map[string][]models.CatalogEntry

func (c staticCatalog) Entries(folder string) []models.CatalogEntry {
	return c[folder]
}

func (c staticCatalog) HighConfidenceCount(folder string) int {
	count := 0
	for _, e := range c[folder] {
		if e.Uploadable() {
			count++
		}
	}
	return count
}

func TestResolveCandidates(t *testing.T) {
	videoRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(videoRoot, "folder_a"), 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	for _, f := range []string{"high.mp4", "medium.mp4", "notitle.mp4"} {
		th.MustWriteFile(t, filepath.Join(videoRoot, "folder_a", f), "video")
	}

	catalog := staticCatalog{
		"folder_a": {
			{OriginalFilename: "high.mp4", Artist: models.String("IVE"), Title: models.String("Rebel Heart"), Confidence: models.ConfidenceHigh},
			{OriginalFilename: "medium.mp4", Title: models.String("Magnetic"), Confidence: models.ConfidenceMedium},
			{OriginalFilename: "notitle.mp4", Artist: models.String("ILLIT"), Title: models.Null(), Confidence: models.ConfidenceHigh},
			{OriginalFilename: "missing.mp4", Title: models.String("Ghost"), Confidence: models.ConfidenceHigh},
		},
	}

	candidates := ResolveCandidates(catalog, "folder_a", videoRoot, testLogger())

	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Entry.OriginalFilename != "high.mp4" {
		t.Errorf("Expected high.mp4, got %s", candidates[0].Entry.OriginalFilename)
	}
	want := filepath.Join(videoRoot, "folder_a", "high.mp4")
	if candidates[0].Path != want {
		t.Errorf("Expected path %s, got %s", want, candidates[0].Path)
	}
}

func TestResolveCandidatesKeepsCatalogOrder(t *testing.T) {
	videoRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(videoRoot, "folder_a"), 0755); err != nil {
		t.Fatalf("Failed to create folder: %v", err)
	}
	names := []string{"c.mp4", "a.mp4", "b.mp4"}
	var entries []models.CatalogEntry
	for _, f := range names {
		th.MustWriteFile(t, filepath.Join(videoRoot, "folder_a", f), "video")
		entries = append(entries, models.CatalogEntry{
			OriginalFilename: f,
			Title:            models.String("Song"),
			Confidence:       models.ConfidenceHigh,
		})
	}

	candidates := ResolveCandidates(staticCatalog{"folder_a": entries}, "folder_a", videoRoot, testLogger())
	if len(candidates) != 3 {
		t.Fatalf("Expected 3 candidates, got %d", len(candidates))
	}
	for i, f := range names {
		if candidates[i].Entry.OriginalFilename != f {
			t.Errorf("Position %d: expected %s, got %s", i, f, candidates[i].Entry.OriginalFilename)
		}
	}
}

func TestResolveCandidatesEmptyFolder(t *testing.T) {
	candidates := ResolveCandidates(staticCatalog{}, "nope", t.TempDir(), testLogger())
	if len(candidates) != 0 {
		t.Errorf("Expected no candidates for unknown folder, got %d", len(candidates))
	}
}
