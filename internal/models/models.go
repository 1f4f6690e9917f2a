package models

import "time"

// Confidence grades how much the extraction pipeline trusts an entry's
// artist/title metadata. Only ConfidenceHigh entries are upload-eligible.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Account is one row of the ledger: platform credentials, the assigned asset
// folder, and the lifetime count of confirmed successful uploads.
type Account struct {
	ID            int        `json:"id"`
	Email         string     `json:"email"`
	Password      string     `json:"password"`
	Folder        NullString `json:"folder"`
	UploadedCount int        `json:"uploaded_count"`
}

// HasFolder reports whether the account has an asset folder assigned.
// Unassigned accounts are excluded from all processing.
func (a Account) HasFolder() bool {
	return a.Folder.Valid
}

// CatalogEntry describes one candidate file in an asset folder.
type CatalogEntry struct {
	OriginalFilename string     `json:"original_filename"`
	CleanedFilename  string     `json:"cleaned_filename,omitempty"`
	Artist           NullString `json:"artist"`
	Title            NullString `json:"title"`
	Confidence       Confidence `json:"confidence"`
	FinalFormat      string     `json:"final_format"`
}

// Uploadable reports whether the entry passes the hard eligibility filter:
// high confidence and a usable title. Lower-confidence or title-less entries
// are permanently skipped for upload purposes.
func (e CatalogEntry) Uploadable() bool {
	return e.Confidence == ConfidenceHigh && e.Title.Valid
}

// UploadRecord marks one confirmed successful upload. Presence of a record
// keyed by (email, filename) is the sole source of truth for "already
// uploaded".
type UploadRecord struct {
	UploadDate time.Time  `json:"upload_date"`
	Artist     NullString `json:"artist"`
	Title      NullString `json:"title"`
}
