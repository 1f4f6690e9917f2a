package agent

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minsung-dev/choomup/internal/shared"
	"github.com/playwright-community/playwright-go"
)

// Platform page selectors. The upload flow is a three step wizard: search the
// song, import the video file, fill the description and submit.
const (
	loginPath  = "/login"
	uploadPath = "/upload"

	selLoginEmail    = "input[name='email']"
	selLoginPassword = "input[name='password']"
	selLoginSubmit   = "button[type='submit']"
	selProfileMenu   = ".gnb-profile"
	selLogoutButton  = ".gnb-profile-menu .logout"

	selSearchInput  = ".upload-step-1-search-container input"
	selSearchResult = ".search-result-item"
	selNextButton   = "button.next"
	selImportButton = "button.import"
	selFileInput    = "input[type='file']"
	selDescArea     = "textarea.description"
	selSubmitButton = "button.submit"
)

// HanlimAgent implements [UploadAgent] with a playwright-driven Chromium
// session against the platform. Browser startup is lazy: nothing launches
// until the first Login.
type HanlimAgent struct {
	baseURL         string
	headless        bool
	stepTimeout     time.Duration
	recoveryRetries int
	logger          *log.Logger

	pw         *playwright.Playwright
	browser    playwright.Browser
	browserCtx playwright.BrowserContext
	page       playwright.Page
}

// NewHanlimAgent creates an agent from automation config.
func NewHanlimAgent(cfg shared.AutomationConfig, logger *log.Logger) *HanlimAgent {
	timeout := time.Duration(cfg.StepTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HanlimAgent{
		baseURL:         cfg.BaseURL,
		headless:        cfg.Headless,
		stepTimeout:     timeout,
		recoveryRetries: cfg.RecoveryRetries,
		logger:          logger,
	}
}

// start launches Chromium and opens a page, once per agent lifetime.
func (a *HanlimAgent) start() error {
	if a.page != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}
	a.pw = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(a.headless),
	})
	if err != nil {
		a.pw.Stop()
		a.pw = nil
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	a.browser = browser

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		a.Close()
		return fmt.Errorf("failed to create browser context: %w", err)
	}
	a.browserCtx = browserCtx

	page, err := browserCtx.NewPage()
	if err != nil {
		a.Close()
		return fmt.Errorf("failed to open page: %w", err)
	}
	page.SetDefaultTimeout(float64(a.stepTimeout.Milliseconds()))
	a.page = page

	return nil
}

// Login opens the login form and authenticates the session. Any failure is
// treated by callers as an environment-level problem that aborts the run.
func (a *HanlimAgent) Login(ctx context.Context, email, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.start(); err != nil {
		return err
	}

	if err := a.goTo(loginPath); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrLoginFailed, err)
	}
	if err := a.page.Locator(selLoginEmail).First().Fill(email); err != nil {
		return fmt.Errorf("%w: email field: %v", shared.ErrLoginFailed, err)
	}
	if err := a.page.Locator(selLoginPassword).First().Fill(password); err != nil {
		return fmt.Errorf("%w: password field: %v", shared.ErrLoginFailed, err)
	}
	if err := a.page.Locator(selLoginSubmit).First().Click(); err != nil {
		return fmt.Errorf("%w: submit: %v", shared.ErrLoginFailed, err)
	}

	// The profile menu only renders for an authenticated session.
	if err := a.waitVisible(selProfileMenu); err != nil {
		return fmt.Errorf("%w: no session after submit: %v", shared.ErrLoginFailed, err)
	}

	a.logger.Info("logged in", "email", email)
	return nil
}

// Upload runs the three step wizard for one file. On a step failure it
// recovers to the last checkpoint and replays, bounded by the configured
// retry budget; exhausting the budget fails the upload.
func (a *HanlimAgent) Upload(ctx context.Context, req UploadRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.page == nil {
		return fmt.Errorf("%w: upload before login", shared.ErrUploadFailed)
	}

	query := req.Title
	if req.Artist.Valid {
		query = req.Artist.Value + " " + req.Title
	}

	steps := []uploadStep{
		{name: "open_upload_page", run: func() error { return a.goTo(uploadPath) }},
		{name: "search_song", reaches: checkpointSearch, run: func() error { return a.searchSong(query) }},
		{name: "next", run: func() error { return a.page.Locator(selNextButton).First().Click() }},
		{name: "import", run: func() error { return a.page.Locator(selImportButton).First().Click() }},
		{name: "select_file", reaches: checkpointFileSelect, run: func() error { return a.selectFile(req.FilePath) }},
		{name: "fill_description", run: func() error {
			return a.page.Locator(selDescArea).First().Fill(req.Description)
		}},
		{name: "submit", run: func() error { return a.page.Locator(selSubmitButton).First().Click() }},
	}

	if err := runSteps(steps, a.recoveryRetries, func(cp checkpoint) error {
		return a.recoverTo(cp, query, req.FilePath)
	}, a.logger); err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrUploadFailed, filepath.Base(req.FilePath), err)
	}

	a.logger.Info("upload submitted", "file", filepath.Base(req.FilePath))
	return nil
}

// Logout ends the account session. Best-effort: callers log failures and
// move on.
func (a *HanlimAgent) Logout(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.page == nil {
		return nil
	}
	if err := a.page.Locator(selProfileMenu).First().Click(); err != nil {
		return fmt.Errorf("profile menu: %w", err)
	}
	if err := a.page.Locator(selLogoutButton).First().Click(); err != nil {
		return fmt.Errorf("logout button: %w", err)
	}
	return nil
}

// Close releases page, context, browser and the playwright driver
// unconditionally. Safe to call multiple times and before start.
func (a *HanlimAgent) Close() error {
	if a.page != nil {
		a.page.Close()
		a.page = nil
	}
	if a.browserCtx != nil {
		a.browserCtx.Close()
		a.browserCtx = nil
	}
	if a.browser != nil {
		a.browser.Close()
		a.browser = nil
	}
	if a.pw != nil {
		a.pw.Stop()
		a.pw = nil
	}
	return nil
}

func (a *HanlimAgent) goTo(path string) error {
	_, err := a.page.Goto(a.baseURL+path, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(a.stepTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (a *HanlimAgent) waitVisible(selector string) error {
	return a.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(a.stepTimeout.Milliseconds())),
	})
}

func (a *HanlimAgent) searchSong(query string) error {
	input := a.page.Locator(selSearchInput).First()
	if err := input.Fill(query); err != nil {
		return fmt.Errorf("search input: %w", err)
	}
	if err := a.waitVisible(selSearchResult); err != nil {
		return fmt.Errorf("no search results for %q: %w", query, err)
	}
	return a.page.Locator(selSearchResult).First().Click()
}

func (a *HanlimAgent) selectFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	return a.page.Locator(selFileInput).First().SetInputFiles([]string{abs})
}

// recoverTo rebuilds the wizard state up to cp from a fresh upload page. The
// wizard holds no server-side state before submit, so replaying the UI steps
// is enough.
func (a *HanlimAgent) recoverTo(cp checkpoint, query, filePath string) error {
	return replayToCheckpoint(cp, wizardActions{
		open:       func() error { return a.goTo(uploadPath) },
		search:     func() error { return a.searchSong(query) },
		next:       func() error { return a.page.Locator(selNextButton).First().Click() },
		importFile: func() error { return a.page.Locator(selImportButton).First().Click() },
		selectFile: func() error { return a.selectFile(filePath) },
	})
}
