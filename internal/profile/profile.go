// File: internal/profile/profile.go

// Package profile manages persistent browser identities. A profile is a
// directory holding a Chromium user-data dir plus a cookies.json backup and a
// profile.json marker; crawls reuse it to carry logged-in state across runs.
package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	markerFile  = "profile.json"
	cookiesFile = "cookies.json"
)

// Info is the on-disk marker written next to a profile's user data.
type Info struct {
	Name        string `json:"name"`
	CreatedAt   string `json:"created_at"`
	UserDataDir string `json:"user_data_dir"`
}

// UserDataDir returns the Chromium user-data directory for a named profile.
// The layout is <base>/<name>/user_data.
func UserDataDir(base, name string) string {
	return filepath.Join(base, name, "user_data")
}

// Manager creates, lists, and deletes profiles under a base directory.
type Manager struct {
	base   string
	logger *zap.Logger
}

func NewManager(base string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{base: base, logger: logger}
}

// Create opens a visible browser on startURL and leaves it to the operator to
// log in or otherwise establish state. The call returns once the operator
// closes the browser window, the wait budget runs out, or ctx is canceled;
// cookies and the profile marker are then persisted. The session state itself
// lives in the user-data dir Chromium writes as it runs.
func (m *Manager) Create(ctx context.Context, name, startURL string, wait time.Duration) error {
	dir := filepath.Join(m.base, name)
	userData := UserDataDir(m.base, name)
	if err := os.MkdirAll(userData, 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory %s: %w", dir, err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("headless", false),
		chromedp.UserDataDir(userData),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	m.logger.Info("Opening browser for profile setup; log in and close the window when done.",
		zap.String("profile", name),
		zap.String("url", startURL),
		zap.Duration("wait", wait),
	)
	if err := chromedp.Run(browserCtx, chromedp.Navigate(startURL)); err != nil {
		return fmt.Errorf("failed to open profile setup page: %w", err)
	}

	// Closing the last tab cancels browserCtx, which is the normal way an
	// operator finishes setup.
	waitCtx, cancelWait := context.WithTimeout(browserCtx, wait)
	defer cancelWait()
	<-waitCtx.Done()
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := m.exportCookies(browserCtx, dir); err != nil {
		m.logger.Warn("Cookie export skipped.", zap.Error(err))
	}

	info := Info{
		Name:        name,
		CreatedAt:   time.Now().Format(time.RFC3339),
		UserDataDir: userData,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode profile marker: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, markerFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write profile marker: %w", err)
	}

	m.logger.Info("Profile saved.", zap.String("profile", name), zap.String("dir", dir))
	return nil
}

// exportCookies writes a JSON backup of the browser's cookie jar. The
// authoritative copy stays in the user-data dir; the backup exists for
// inspection and for tooling that cannot read Chromium's own store. It is a
// best-effort step and fails cleanly when the browser is already gone.
func (m *Manager) exportCookies(browserCtx context.Context, dir string) error {
	var cookies []*network.Cookie
	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(cctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(cctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, cookiesFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write cookie backup: %w", err)
	}
	return nil
}

// List returns the names of profiles under the base directory. Only
// directories carrying a profile marker count; stray directories are ignored.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.base)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile directory %s: %w", m.base, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		marker := filepath.Join(m.base, entry.Name(), markerFile)
		if _, err := os.Stat(marker); err == nil {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// Load reads a profile's marker.
func (m *Manager) Load(name string) (*Info, error) {
	data, err := os.ReadFile(filepath.Join(m.base, name, markerFile))
	if err != nil {
		return nil, fmt.Errorf("profile %q not found: %w", name, err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("profile %q marker is corrupt: %w", name, err)
	}
	return &info, nil
}

// Delete removes a profile and its user data. Deleting a profile that does
// not exist is an error so typos surface.
func (m *Manager) Delete(name string) error {
	dir := filepath.Join(m.base, name)
	if _, err := os.Stat(filepath.Join(dir, markerFile)); err != nil {
		return fmt.Errorf("profile %q not found", name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete profile %q: %w", name, err)
	}
	m.logger.Info("Profile deleted.", zap.String("profile", name))
	return nil
}
