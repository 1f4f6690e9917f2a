// Package agent drives the browser-automation side of uploads.
//
// [UploadAgent] is the capability the orchestrator depends on; [HanlimAgent]
// implements it with playwright-driven Chromium against the web platform.
// The agent is stateful (one logged-in browser session) and failure-prone, so
// the orchestrator treats any upload error as fatal for the whole run.
package agent

import (
	"context"

	"github.com/minsung-dev/choomup/internal/models"
)

// UploadRequest describes one file upload.
type UploadRequest struct {
	FilePath    string            // Absolute or working-dir-relative path to the video file
	Artist      models.NullString // Missing artist degrades the search to title-only
	Title       string
	Description string
}

// UploadAgent is the browser automation capability required by the upload
// orchestrator. One account session at a time: Login binds the session,
// Upload requires a bound session, Logout is best-effort, Close releases all
// browser resources unconditionally.
type UploadAgent interface {
	Login(ctx context.Context, email, password string) error
	Upload(ctx context.Context, req UploadRequest) error
	Logout(ctx context.Context) error
	Close() error
}
