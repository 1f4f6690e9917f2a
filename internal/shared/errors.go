package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Store errors
	ErrMissingLedger  = fmt.Errorf("account ledger not found")
	ErrMissingCatalog = fmt.Errorf("asset catalog not found")
	ErrAccountUnknown = fmt.Errorf("account not found in ledger")
	ErrEntryUnknown   = fmt.Errorf("entry not found in catalog")
	ErrPersistFailed  = fmt.Errorf("failed to persist store")

	// Run-aborting errors
	ErrLoginFailed  = fmt.Errorf("login failed")
	ErrUploadFailed = fmt.Errorf("upload failed")
	ErrInterrupted  = fmt.Errorf("run interrupted")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")

	// External service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
)
