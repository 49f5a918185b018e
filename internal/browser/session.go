// File: internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/votelens/votelens/api/schemas"
	"github.com/votelens/votelens/internal/config"
	"github.com/votelens/votelens/internal/finder"
)

// ErrPageTimeout marks a navigation that did not reach a loaded state within
// the configured budget. It is surfaced per URL and never aborts a run.
var ErrPageTimeout = errors.New("page load timed out")

const scrollSettle = 1500 * time.Millisecond

// Session is one live browser tab. It implements the finder page driver, so
// discovery runs against the rendered DOM, plus the navigation, scrolling,
// screenshot, and click-replay surface the crawler needs.
//
// A session is not safe for concurrent use; the crawler drives one page at a
// time.
type Session struct {
	ID     string
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *zap.Logger
}

var _ finder.Page = (*Session)(nil)

func newSession(allocCtx context.Context, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	id := uuid.NewString()
	sessionCtx, cancel := chromedp.NewContext(allocCtx)

	// Force tab creation now so startup failures surface here, not on the
	// first navigation.
	if err := chromedp.Run(sessionCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	logger.Debug("Browser session started.", zap.String("session_id", id))
	return &Session{
		ID:     id,
		ctx:    sessionCtx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger.With(zap.String("session_id", id)),
	}, nil
}

// Close tears down the tab. Safe to call more than once.
func (s *Session) Close() {
	s.cancel()
}

// combineContext derives a context that honors both the session lifetime and
// the caller's cancellation. The returned cancel must always be called.
func (s *Session) combineContext(ctx context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(s.ctx)
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}

// Navigate loads the URL and waits for the document body plus the configured
// post-load settle time. A deadline overrun is reported as ErrPageTimeout.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.combineContext(ctx)
	defer cancel()
	runCtx, cancelTimeout := context.WithTimeout(runCtx, s.cfg.Network.NavigationTimeout)
	defer cancelTimeout()

	s.logger.Info("Navigating.", zap.String("url", url))
	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrPageTimeout, url)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	if wait := s.cfg.Network.PostLoadWait; wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// ScrollToBottom scrolls the page down up to count times, pausing between
// passes so lazy-loaded content can render, then returns to the top. Passes
// stop early once the document height settles, meaning no further content is
// loading.
func (s *Session) ScrollToBottom(ctx context.Context, count int) error {
	runCtx, cancel := s.combineContext(ctx)
	defer cancel()

	lastHeight := int64(-1)
	for i := 0; i < count; i++ {
		var height int64
		err := chromedp.Run(runCtx,
			chromedp.Evaluate(`window.scrollTo({top: document.body.scrollHeight, behavior: 'smooth'});`, nil),
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
		)
		if err != nil {
			return fmt.Errorf("scroll pass %d failed: %w", i+1, err)
		}
		select {
		case <-time.After(scrollSettle):
		case <-ctx.Done():
			return ctx.Err()
		}
		if height == lastHeight {
			s.logger.Debug("Page height settled; stopping scroll passes.",
				zap.Int("pass", i+1), zap.Int64("height", height))
			break
		}
		lastHeight = height
	}

	if err := chromedp.Run(runCtx,
		chromedp.Evaluate(`window.scrollTo({top: 0, behavior: 'smooth'});`, nil),
	); err != nil {
		return fmt.Errorf("scroll to top failed: %w", err)
	}
	return nil
}

// Screenshot captures the current viewport as PNG bytes.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	runCtx, cancel := s.combineContext(ctx)
	defer cancel()

	var buf []byte
	if err := chromedp.Run(runCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot capture failed: %w", err)
	}
	return buf, nil
}

// ClickRecord replays a click on a previously discovered element, trying the
// structural XPath first and falling back to the CSS locator. A record whose
// locators both degraded to the placeholder cannot be replayed.
func (s *Session) ClickRecord(ctx context.Context, rec schemas.ElementRecord) error {
	runCtx, cancel := s.combineContext(ctx)
	defer cancel()

	if rec.HasXPath() {
		err := chromedp.Run(runCtx, chromedp.Click(rec.XPath, chromedp.BySearch))
		if err == nil {
			s.logger.Info("Clicked element via XPath.", zap.String("xpath", rec.XPath))
			return nil
		}
		s.logger.Warn("XPath click failed; falling back to CSS.",
			zap.String("xpath", rec.XPath), zap.Error(err))
	}

	if rec.HasCSS() {
		err := chromedp.Run(runCtx, chromedp.Click(rec.CSS, chromedp.ByQuery))
		if err == nil {
			s.logger.Info("Clicked element via CSS.", zap.String("css", rec.CSS))
			return nil
		}
		return fmt.Errorf("css click on %q failed: %w", rec.CSS, err)
	}

	return fmt.Errorf("record has no usable locator")
}

// QueryXPath resolves an XPath expression against the live DOM. A zero-match
// result is not an error.
func (s *Session) QueryXPath(ctx context.Context, expr string) ([]finder.Element, error) {
	return s.query(ctx, expr, chromedp.BySearch)
}

// QueryCSS resolves a CSS selector against the live DOM.
func (s *Session) QueryCSS(ctx context.Context, sel string) ([]finder.Element, error) {
	return s.query(ctx, sel, chromedp.ByQueryAll)
}

func (s *Session) query(ctx context.Context, expr string, by chromedp.QueryOption) ([]finder.Element, error) {
	runCtx, cancel := s.combineContext(ctx)
	defer cancel()

	var nodes []*cdp.Node
	err := chromedp.Run(runCtx,
		chromedp.Nodes(expr, &nodes, by, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", finder.ErrQueryFailed, expr, err)
	}

	out := make([]finder.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &element{sess: s, nodeID: n.NodeID})
	}
	return out, nil
}
