// File: internal/browser/manager.go

// Package browser drives a live Chromium instance over the DevTools protocol
// and exposes each open tab as a finder page driver.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/votelens/votelens/internal/config"
	"github.com/votelens/votelens/internal/profile"
)

// Manager owns the Chromium process lifecycle. One manager maps to one
// browser process; sessions are tabs created from its allocator context.
type Manager struct {
	cfg      *config.Config
	logger   *zap.Logger
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewManager launches the browser allocator. The browser process itself
// starts lazily with the first session. Callers must Shutdown the manager
// to reap the process.
func NewManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("browser manager requires a non-nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, execOptions(cfg)...)
	logger.Debug("Browser allocator initialized.",
		zap.Bool("headless", cfg.Browser.Headless),
		zap.String("profile", cfg.Browser.Profile),
	)

	return &Manager{
		cfg:      cfg,
		logger:   logger,
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// execOptions translates the browser config into chromedp allocator options.
func execOptions(cfg *config.Config) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		// Required on hardened/containerized hosts where the Chromium
		// sandbox cannot start.
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.DisableGPU,
		chromedp.WindowSize(cfg.Browser.WindowWidth, cfg.Browser.WindowHeight),
	)

	if cfg.Browser.Headless {
		opts = append(opts, chromedp.Headless)
	}
	if cfg.Browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Browser.UserAgent))
	}
	if cfg.Browser.Profile != "" {
		opts = append(opts, chromedp.UserDataDir(
			profile.UserDataDir(cfg.Browser.ProfileDir, cfg.Browser.Profile)))
	}

	// Extra flags from config, either bare (--no-zygote) or key=value.
	for _, arg := range cfg.Browser.Args {
		arg = strings.TrimPrefix(arg, "--")
		if key, value, ok := strings.Cut(arg, "="); ok {
			opts = append(opts, chromedp.Flag(key, value))
			continue
		}
		opts = append(opts, chromedp.Flag(arg, true))
	}
	return opts
}

// NewSession opens a fresh tab and returns it as a Session. The tab shares
// the manager's browser process and dies with it.
func (m *Manager) NewSession(ctx context.Context) (*Session, error) {
	select {
	case <-m.allocCtx.Done():
		return nil, fmt.Errorf("browser manager is shut down: %w", m.allocCtx.Err())
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return newSession(m.allocCtx, m.cfg, m.logger)
}

// Shutdown tears down the browser process and every session derived from it.
func (m *Manager) Shutdown() {
	m.logger.Debug("Shutting down browser manager.")
	m.cancel()
}
