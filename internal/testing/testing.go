// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/minsung-dev/choomup/internal/agent"
)

// MockAgent is a test double for [agent.UploadAgent]. Zero value succeeds at
// everything; error fields inject failures, and Uploads records every request
// in order.
type MockAgent struct {
	LoginErr  error
	UploadErr error
	// FailAtUpload makes the nth (1-based) Upload call fail with UploadErr.
	// Zero means every call fails when UploadErr is set.
	FailAtUpload int
	LogoutErr    error

	Logins  []string
	Uploads []agent.UploadRequest
	Closed  bool
}

func (m *MockAgent) Login(ctx context.Context, email, password string) error {
	if m.LoginErr != nil {
		return m.LoginErr
	}
	m.Logins = append(m.Logins, email)
	return nil
}

func (m *MockAgent) Upload(ctx context.Context, req agent.UploadRequest) error {
	call := len(m.Uploads) + 1
	if m.UploadErr != nil && (m.FailAtUpload == 0 || m.FailAtUpload == call) {
		return m.UploadErr
	}
	m.Uploads = append(m.Uploads, req)
	return nil
}

func (m *MockAgent) Logout(ctx context.Context) error {
	return m.LogoutErr
}

func (m *MockAgent) Close() error {
	m.Closed = true
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper is a mock [http.RoundTripper] for testing
type MockRoundTripper struct {
	Response *http.Response
	Err      error
	Requests []*http.Request
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// JSONResponse builds a 200 response carrying the given JSON body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
