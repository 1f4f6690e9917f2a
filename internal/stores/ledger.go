package stores

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/models"
	"github.com/minsung-dev/choomup/internal/shared"
)

// Default id range used when a range argument cannot be parsed.
const (
	defaultRangeStart = 1
	defaultRangeEnd   = 30
)

// ledgerFile mirrors the persisted layout of accounts.json. The top-level
// emails/password arrays are written by the external account↔folder mapping
// tool; the ledger carries them through untouched. The password key is
// singular in the file.
type ledgerFile struct {
	Emails    []string         `json:"emails"`
	Passwords []string         `json:"password"`
	Mappings  []models.Account `json:"mappings"`
}

// Ledger is the durable account → (folder, uploaded_count) store and the
// single source of truth for how many uploads each account has done.
type Ledger struct {
	path   string
	logger *log.Logger
	data   ledgerFile
}

// LoadLedger reads the ledger file at path. A missing file is fatal: no
// accounts means no work. Mappings without an email are skipped with a
// warning rather than failing the whole ledger.
func LoadLedger(path string, logger *log.Logger) (*Ledger, error) {
	l := &Ledger{path: path, logger: logger}

	if err := loadJSON(path, &l.data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingLedger, path)
		}
		return nil, err
	}

	valid := l.data.Mappings[:0]
	for _, m := range l.data.Mappings {
		if m.Email == "" {
			logger.Warn("skipping malformed ledger entry with no email", "id", m.ID)
			continue
		}
		valid = append(valid, m)
	}
	l.data.Mappings = valid

	logger.Info("loaded account ledger", "path", path, "accounts", len(l.data.Mappings))
	return l, nil
}

// Accounts returns all ledger accounts in file order.
func (l *Ledger) Accounts() []models.Account {
	out := make([]models.Account, len(l.data.Mappings))
	copy(out, l.data.Mappings)
	return out
}

// Get returns the account for email.
func (l *Ledger) Get(email string) (models.Account, bool) {
	for _, m := range l.data.Mappings {
		if m.Email == email {
			return m, true
		}
	}
	return models.Account{}, false
}

// ListEligible returns, in ledger order, the accounts that still have work:
// a folder assigned, uploaded_count below maxPerAccount, and uploaded_count
// below the number of upload-eligible files in the folder (reported by
// highCount). An optional idRange of the form "a-b" or "n" pre-filters by
// account id; an unparsable range falls back to the default range.
func (l *Ledger) ListEligible(maxPerAccount int, idRange string, highCount func(folder string) int) []models.Account {
	mappings := l.data.Mappings

	if idRange != "" {
		start, end := l.parseRange(idRange)
		filtered := make([]models.Account, 0, len(mappings))
		for _, m := range mappings {
			if m.ID >= start && m.ID <= end {
				filtered = append(filtered, m)
			}
		}
		l.logger.Info("filtered accounts by id range", "range", idRange, "accounts", len(filtered))
		mappings = filtered
	}

	eligible := make([]models.Account, 0, len(mappings))
	for _, m := range mappings {
		if !m.HasFolder() {
			l.logger.Info("skipping account: no folder assigned", "email", m.Email)
			continue
		}
		if m.UploadedCount >= maxPerAccount {
			l.logger.Info("skipping account: reached maximum uploads",
				"email", m.Email, "uploaded", m.UploadedCount, "max", maxPerAccount)
			continue
		}
		available := highCount(m.Folder.Value)
		if m.UploadedCount >= available {
			l.logger.Info("skipping account: all eligible files uploaded",
				"email", m.Email, "uploaded", m.UploadedCount, "eligible", available)
			continue
		}
		eligible = append(eligible, m)
	}

	l.logger.Info("accounts ready for upload", "count", len(eligible), "max_per_account", maxPerAccount)
	return eligible
}

// Increment adds one confirmed upload to the account's counter and persists
// the whole ledger synchronously. On persist failure the in-memory value
// keeps the increment and the error is returned alongside the new count. A
// crash before the next successful persist can then re-upload a file, so
// callers log persist failures loudly.
func (l *Ledger) Increment(email string) (int, error) {
	for i := range l.data.Mappings {
		if l.data.Mappings[i].Email != email {
			continue
		}
		l.data.Mappings[i].UploadedCount++
		count := l.data.Mappings[i].UploadedCount
		if err := l.persist(); err != nil {
			return count, err
		}
		l.logger.Info("incremented upload count", "email", email, "count", count)
		return count, nil
	}
	return 0, fmt.Errorf("%w: %s", shared.ErrAccountUnknown, email)
}

// Set overwrites the account's counter and persists. Used to re-sync at the
// end of an account's pass; idempotent with prior Increments.
func (l *Ledger) Set(email string, count int) error {
	for i := range l.data.Mappings {
		if l.data.Mappings[i].Email != email {
			continue
		}
		l.data.Mappings[i].UploadedCount = count
		if err := l.persist(); err != nil {
			return err
		}
		l.logger.Info("updated upload count", "email", email, "count", count)
		return nil
	}
	return fmt.Errorf("%w: %s", shared.ErrAccountUnknown, email)
}

func (l *Ledger) persist() error {
	return persistJSON(l.path, l.data)
}

// parseRange parses "a-b" or a single "n" into inclusive bounds, falling
// back to the default range on malformed input.
func (l *Ledger) parseRange(s string) (int, int) {
	start, end, err := ParseAccountRange(s)
	if err != nil {
		l.logger.Error("invalid account range, using default",
			"range", s, "start", defaultRangeStart, "end", defaultRangeEnd, "err", err)
		return defaultRangeStart, defaultRangeEnd
	}
	return start, end
}

// ParseAccountRange parses an account id range of the form "a-b" or a single
// integer "n" (meaning n-n).
func ParseAccountRange(s string) (int, int, error) {
	if before, after, found := strings.Cut(s, "-"); found {
		start, err := strconv.Atoi(strings.TrimSpace(before))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", shared.ErrInvalidArgument, s)
		}
		end, err := strconv.Atoi(strings.TrimSpace(after))
		if err != nil {
			return 0, 0, fmt.Errorf("%w: %q", shared.ErrInvalidArgument, s)
		}
		return start, end, nil
	}

	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", shared.ErrInvalidArgument, s)
	}
	return id, id, nil
}
