// File: internal/orchestrator/orchestrator.go
// Description: Drives the crawl lifecycle. It is injected with the browser,
// discovery, and reporting components via interfaces, making it decoupled and
// testable without a live browser.

package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/votelens/votelens/api/schemas"
	"github.com/votelens/votelens/internal/browser"
	"github.com/votelens/votelens/internal/config"
	"github.com/votelens/votelens/internal/finder"
)

// PageSession is the slice of browser session behavior the crawl needs. The
// live implementation is browser.Session; tests substitute fakes.
type PageSession interface {
	finder.Page
	Navigate(ctx context.Context, url string) error
	ScrollToBottom(ctx context.Context, count int) error
	Screenshot(ctx context.Context) ([]byte, error)
	ClickRecord(ctx context.Context, rec schemas.ElementRecord) error
	Close()
}

// SessionFactory opens the tab a crawl runs in.
type SessionFactory func(ctx context.Context) (PageSession, error)

// Discoverer runs element discovery over a page.
type Discoverer interface {
	Discover(ctx context.Context, page finder.Page) []schemas.ElementRecord
}

// ReportWriter persists one page's artifacts.
type ReportWriter interface {
	WritePage(report *schemas.PageReport, index int, screenshot []byte) (string, error)
}

// Crawler walks a URL list sequentially through one browser session,
// discovering interaction elements on each page and writing per-page
// reports. Page-level failures are contained: a page that times out or
// yields nothing is logged and skipped, never fatal to the run.
type Crawler struct {
	cfg        *config.Config
	logger     *zap.Logger
	newSession SessionFactory
	discoverer Discoverer
	reporter   ReportWriter
	limiter    *rate.Limiter
}

// New wires a Crawler. All dependencies are required.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	newSession SessionFactory,
	discoverer Discoverer,
	reporter ReportWriter,
) (*Crawler, error) {
	if cfg == nil || logger == nil || newSession == nil || discoverer == nil || reporter == nil {
		return nil, fmt.Errorf("cannot initialize crawler with nil dependencies")
	}

	// The limiter enforces the inter-URL politeness delay; the first URL
	// passes immediately on the initial token.
	limit := rate.Inf
	if cfg.Crawl.Delay > 0 {
		limit = rate.Every(cfg.Crawl.Delay)
	}

	return &Crawler{
		cfg:        cfg,
		logger:     logger,
		newSession: newSession,
		discoverer: discoverer,
		reporter:   reporter,
		limiter:    rate.NewLimiter(limit, 1),
	}, nil
}

// Run crawls the URLs in order within a single session. It returns the
// number of pages that produced a report. Cancellation of ctx stops the run
// between pages; the error then is ctx.Err().
func (c *Crawler) Run(ctx context.Context, urls []string) (int, error) {
	if limit := c.cfg.Crawl.Limit; limit > 0 && len(urls) > limit {
		c.logger.Info("URL list truncated by limit.",
			zap.Int("total", len(urls)), zap.Int("limit", limit))
		urls = urls[:limit]
	}
	if len(urls) == 0 {
		return 0, fmt.Errorf("no URLs to crawl")
	}

	sess, err := c.newSession(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to open browser session: %w", err)
	}
	defer sess.Close()

	c.logger.Info("Crawl started.", zap.Int("urls", len(urls)))
	start := time.Now()

	reported := 0
	for i, url := range urls {
		if err := c.limiter.Wait(ctx); err != nil {
			return reported, err
		}

		c.logger.Info("Processing URL.",
			zap.Int("index", i+1), zap.Int("total", len(urls)), zap.String("url", url))

		if c.processURL(ctx, sess, url, i) {
			reported++
		}
		if err := ctx.Err(); err != nil {
			return reported, err
		}
	}

	c.logger.Info("Crawl finished.",
		zap.Int("reported", reported),
		zap.Int("urls", len(urls)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return reported, nil
}

// processURL handles one page end to end and reports whether a report was
// written. Every failure mode inside it is contained to the page.
func (c *Crawler) processURL(ctx context.Context, sess PageSession, url string, index int) bool {
	if err := sess.Navigate(ctx, url); err != nil {
		if errors.Is(err, browser.ErrPageTimeout) {
			c.logger.Warn("Page load timed out; skipping URL.", zap.String("url", url))
		} else {
			c.logger.Warn("Navigation failed; skipping URL.",
				zap.String("url", url), zap.Error(err))
		}
		return false
	}

	if n := c.cfg.Crawl.ScrollCount; n > 0 {
		if err := sess.ScrollToBottom(ctx, n); err != nil {
			// Partial scroll still leaves a usable page.
			c.logger.Warn("Scroll pass incomplete.", zap.String("url", url), zap.Error(err))
		}
	}

	records := c.discoverer.Discover(ctx, sess)
	if len(records) == 0 {
		c.logger.Info("No interaction elements found.", zap.String("url", url))
		return false
	}

	report := &schemas.PageReport{
		URL:          url,
		Timestamp:    time.Now(),
		ElementCount: len(records),
		Elements:     records,
	}

	screenshot, err := sess.Screenshot(ctx)
	if err != nil {
		c.logger.Warn("Screenshot failed; writing report without it.",
			zap.String("url", url), zap.Error(err))
		screenshot = nil
	}

	if _, err := c.reporter.WritePage(report, index, screenshot); err != nil {
		c.logger.Error("Report write failed.", zap.String("url", url), zap.Error(err))
		return false
	}

	if c.cfg.Crawl.ClickFirst {
		if err := sess.ClickRecord(ctx, records[0]); err != nil {
			c.logger.Warn("Click replay failed.", zap.String("url", url), zap.Error(err))
		}
	}
	return true
}
