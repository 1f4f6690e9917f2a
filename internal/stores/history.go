package stores

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/models"
	"github.com/minsung-dev/choomup/internal/shared"
)

// History is the durable (email, filename) → upload record store used for
// idempotent skip decisions. Records are written immediately after a
// confirmed upload; a crash right after a success must not lose the record,
// since losing it causes a duplicate upload on restart.
type History struct {
	path   string
	logger *log.Logger
	data   map[string]map[string]models.UploadRecord
	now    func() time.Time
}

// LoadHistory reads the history file at path. A missing file means a fresh
// store, not an error.
func LoadHistory(path string, logger *log.Logger) (*History, error) {
	h := &History{
		path:   path,
		logger: logger,
		data:   make(map[string]map[string]models.UploadRecord),
		now:    time.Now,
	}

	if err := loadJSON(path, &h.data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("no upload history found, starting fresh", "path", path)
			return h, nil
		}
		return nil, err
	}

	total := 0
	for _, files := range h.data {
		total += len(files)
	}
	logger.Info("loaded upload history", "accounts", len(h.data), "files", total)
	return h, nil
}

// IsUploaded reports whether the account has a confirmed upload record for
// filename.
func (h *History) IsUploaded(email, filename string) bool {
	_, ok := h.data[email][filename]
	return ok
}

// Record marks filename as uploaded by the account and persists the whole
// store synchronously.
func (h *History) Record(email, filename string, artist, title models.NullString) error {
	if h.data[email] == nil {
		h.data[email] = make(map[string]models.UploadRecord)
	}
	h.data[email][filename] = models.UploadRecord{
		UploadDate: h.now(),
		Artist:     artist,
		Title:      title,
	}

	if err := h.persist(); err != nil {
		return err
	}
	h.logger.Info("marked as uploaded", "email", email, "file", filename)
	return nil
}

// Count returns the number of recorded uploads for the account.
func (h *History) Count(email string) int {
	return len(h.data[email])
}

// Files returns the account's upload records keyed by filename.
func (h *History) Files(email string) map[string]models.UploadRecord {
	out := make(map[string]models.UploadRecord, len(h.data[email]))
	for name, rec := range h.data[email] {
		out[name] = rec
	}
	return out
}

// Emails returns every account email present in the store.
func (h *History) Emails() []string {
	out := make([]string, 0, len(h.data))
	for email := range h.data {
		out = append(out, email)
	}
	return out
}

// Remove deletes one record, for re-upload maintenance.
func (h *History) Remove(email, filename string) error {
	files, ok := h.data[email]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAccountUnknown, email)
	}
	if _, ok := files[filename]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrEntryUnknown, filename)
	}
	delete(files, filename)

	if err := h.persist(); err != nil {
		return err
	}
	h.logger.Info("removed from history", "email", email, "file", filename)
	return nil
}

// Clear deletes every record for the account.
func (h *History) Clear(email string) error {
	if _, ok := h.data[email]; !ok {
		return fmt.Errorf("%w: %s", shared.ErrAccountUnknown, email)
	}
	delete(h.data, email)

	if err := h.persist(); err != nil {
		return err
	}
	h.logger.Info("cleared history", "email", email)
	return nil
}

func (h *History) persist() error {
	return persistJSON(h.path, h.data)
}
