package stores

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/models"
	"github.com/minsung-dev/choomup/internal/shared"
)

// Catalog is the read-mostly folder → candidate entries store produced by the
// extraction pipeline. The orchestrator only reads it; maintenance commands
// may remove individual entries or replace a folder's listing.
type Catalog struct {
	path   string
	logger *log.Logger
	data   map[string][]models.CatalogEntry
	order  []string
}

// LoadCatalog reads the catalog file at path. A missing catalog is fatal for
// upload runs: with no candidates there is nothing to do.
func LoadCatalog(path string, logger *log.Logger) (*Catalog, error) {
	c := &Catalog{
		path:   path,
		logger: logger,
		data:   make(map[string][]models.CatalogEntry),
	}

	if err := loadJSON(path, &c.data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingCatalog, path)
		}
		return nil, err
	}

	for folder := range c.data {
		c.order = append(c.order, folder)
	}
	sort.Strings(c.order)

	logger.Info("loaded asset catalog", "path", path, "folders", len(c.data))
	return c, nil
}

// Folders returns the catalog's folder names, sorted.
func (c *Catalog) Folders() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Entries returns the folder's entries in catalog (insertion) order.
func (c *Catalog) Entries(folder string) []models.CatalogEntry {
	entries, ok := c.data[folder]
	if !ok {
		c.logger.Warn("folder not found in catalog", "folder", folder)
		return nil
	}
	out := make([]models.CatalogEntry, len(entries))
	copy(out, entries)
	return out
}

// HighConfidenceCount returns the number of upload-eligible entries in the
// folder. Used by the ledger to avoid scheduling accounts whose folder is
// already exhausted.
func (c *Catalog) HighConfidenceCount(folder string) int {
	count := 0
	for _, e := range c.data[folder] {
		if e.Uploadable() {
			count++
		}
	}
	return count
}

// RemoveEntry deletes one entry from a folder and rewrites the catalog.
// Maintenance operation for files the platform keeps rejecting.
func (c *Catalog) RemoveEntry(folder, filename string) error {
	entries, ok := c.data[folder]
	if !ok {
		return fmt.Errorf("%w: folder %s", shared.ErrEntryUnknown, folder)
	}

	kept := entries[:0]
	for _, e := range entries {
		if e.OriginalFilename != filename {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return fmt.Errorf("%w: %s in folder %s", shared.ErrEntryUnknown, filename, folder)
	}
	c.data[folder] = kept

	if err := c.persist(); err != nil {
		return err
	}
	c.logger.Info("removed catalog entry", "folder", folder, "file", filename)
	return nil
}

// Put replaces the folder's entries and rewrites the catalog. Used by the
// extraction pipeline.
func (c *Catalog) Put(folder string, entries []models.CatalogEntry) error {
	if _, ok := c.data[folder]; !ok {
		c.order = append(c.order, folder)
		sort.Strings(c.order)
	}
	c.data[folder] = entries

	if err := c.persist(); err != nil {
		return err
	}
	c.logger.Info("updated catalog folder", "folder", folder, "entries", len(entries))
	return nil
}

func (c *Catalog) persist() error {
	return persistJSON(c.path, c.data)
}

// NewCatalog creates an empty catalog bound to path, for the extraction
// pipeline bootstrapping a fresh results file.
func NewCatalog(path string, logger *log.Logger) *Catalog {
	return &Catalog{
		path:   path,
		logger: logger,
		data:   make(map[string][]models.CatalogEntry),
	}
}
