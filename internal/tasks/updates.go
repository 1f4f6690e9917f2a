package tasks

import "fmt"

// ProgressUpdate represents a progress event during an upload run.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Email   string // Account being processed, when applicable
}

// Operation phase enumeration
type Phase int

const (
	SelectAccounts Phase = iota
	AccountLogin
	FileUpload
	FileSkip
	AccountDone
	RunDone
)

func (p Phase) String() string {
	switch p {
	case SelectAccounts:
		return "select_accounts"
	case AccountLogin:
		return "account_login"
	case FileUpload:
		return "file_upload"
	case FileSkip:
		return "file_skip"
	case AccountDone:
		return "account_done"
	case RunDone:
		return "run_done"
	default:
		return ""
	}
}

func selectAccountsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SelectAccounts,
		Total:   total,
		Message: fmt.Sprintf("%d accounts ready for upload", total),
	}
}

func loginUpdate(step, total int, email string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AccountLogin,
		Step:    step,
		Total:   total,
		Email:   email,
		Message: fmt.Sprintf("Logging in as %s (%d/%d)", email, step, total),
	}
}

func uploadUpdate(step, total int, email, filename string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FileUpload,
		Step:    step,
		Total:   total,
		Email:   email,
		Message: fmt.Sprintf("Uploading %s (%d/%d)", filename, step, total),
	}
}

func skipUpdate(email, filename, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FileSkip,
		Email:   email,
		Message: fmt.Sprintf("Skipping %s: %s", filename, reason),
	}
}

func accountDoneUpdate(step, total int, email string, uploaded int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AccountDone,
		Step:    step,
		Total:   total,
		Email:   email,
		Message: fmt.Sprintf("Finished %s: %d uploads this run", email, uploaded),
	}
}

func runDoneUpdate(uploads int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RunDone,
		Message: fmt.Sprintf("Run complete: %d uploads", uploads),
	}
}
