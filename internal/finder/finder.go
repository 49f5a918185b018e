// File: internal/finder/finder.go
package finder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/votelens/votelens/api/schemas"
)

const (
	svgXPath = `//button[.//svg] | //a[.//svg] | //div[.//svg and @role='button']`

	counterXPath = `//span[contains(@class, 'count') or contains(@class, 'num') or contains(@class, 'score')]`

	// Match terms for the structural strategies, which have no keyword or
	// selector of their own.
	svgMatchTerm     = "svg_icon"
	counterMatchTerm = "counter_parent"
)

// Config carries the caller-facing knobs of the discovery engine. The
// keyword catalog becomes immutable once the Finder is constructed.
type Config struct {
	// Threshold is the fuzzy similarity cutoff in [0,100].
	Threshold int
	// ExtraKeywords are appended to the built-in catalog.
	ExtraKeywords []string
}

// DefaultThreshold is the similarity cutoff used when none is configured.
const DefaultThreshold = 70

// Finder locates plausible vote/like interaction controls on a rendered
// page by running four independent discovery strategies, filtering each hit
// through the candidate scorer, tagging survivors with reproducible
// locators, and deduplicating by structural locator identity.
type Finder struct {
	keywords  []string
	selectors []string
	threshold int
	logger    *zap.Logger
}

// New builds a Finder. The keyword catalog is the built-in set plus any
// configured extensions, fixed for the lifetime of the Finder.
func New(cfg Config, logger *zap.Logger) *Finder {
	if logger == nil {
		logger = zap.NewNop()
	}
	keywords := append(DefaultKeywords(), cfg.ExtraKeywords...)
	return &Finder{
		keywords:  keywords,
		selectors: DefaultSelectors(),
		threshold: cfg.Threshold,
		logger:    logger,
	}
}

// Discover runs the four strategies in fixed order over the page and returns
// the deduplicated, ordered interaction-element records. An empty result is
// a valid, non-error outcome. A failure in any single strategy is logged and
// skipped; it never aborts the other strategies or the call. The call
// re-queries the live page, so a dynamic page may yield different results on
// re-invocation.
func (f *Finder) Discover(ctx context.Context, page Page) []schemas.ElementRecord {
	var found []schemas.ElementRecord
	found = append(found, f.keywordStrategy(ctx, page)...)
	found = append(found, f.selectorStrategy(ctx, page)...)
	found = append(found, f.svgStrategy(ctx, page)...)
	found = append(found, f.counterStrategy(ctx, page)...)

	unique := Deduplicate(found)
	f.logger.Debug("Discovery pass complete.",
		zap.Int("raw", len(found)),
		zap.Int("unique", len(unique)),
	)
	return unique
}

// keywordStrategy queries elements whose text, value, aria-label, or title
// contains a catalog keyword as a substring. Containment at the query layer
// is case-sensitive; the case-insensitive fuzzy re-check happens in the
// scorer.
func (f *Finder) keywordStrategy(ctx context.Context, page Page) []schemas.ElementRecord {
	var records []schemas.ElementRecord
	for _, kw := range f.keywords {
		expr := fmt.Sprintf(
			"//*[contains(text(), '%[1]s') or contains(@value, '%[1]s') or "+
				"contains(@aria-label, '%[1]s') or contains(@title, '%[1]s')]", kw)
		elements, err := page.QueryXPath(ctx, expr)
		if err != nil {
			f.logger.Warn("Keyword query failed; skipping keyword.",
				zap.String("keyword", kw), zap.Error(err))
			continue
		}
		for _, el := range elements {
			if IsCandidate(ctx, el, f.keywords, f.threshold) {
				records = append(records, f.buildRecord(ctx, el, kw, schemas.MatchKeyword))
			}
		}
	}
	return records
}

// selectorStrategy queries every static selector pattern. A selector the
// engine rejects is skipped silently apart from a log line.
func (f *Finder) selectorStrategy(ctx context.Context, page Page) []schemas.ElementRecord {
	var records []schemas.ElementRecord
	for _, sel := range f.selectors {
		elements, err := page.QueryCSS(ctx, sel)
		if err != nil {
			f.logger.Debug("Selector query failed; skipping selector.",
				zap.String("selector", sel), zap.Error(err))
			continue
		}
		for _, el := range elements {
			if IsCandidate(ctx, el, f.keywords, f.threshold) {
				records = append(records, f.buildRecord(ctx, el, sel, schemas.MatchSelector))
			}
		}
	}
	return records
}

// svgStrategy finds buttons, anchors, and button-role containers embedding a
// vector icon, the common shape of modern icon-only vote controls.
func (f *Finder) svgStrategy(ctx context.Context, page Page) []schemas.ElementRecord {
	elements, err := page.QueryXPath(ctx, svgXPath)
	if err != nil {
		f.logger.Warn("SVG strategy query failed; skipping strategy.", zap.Error(err))
		return nil
	}
	var records []schemas.ElementRecord
	for _, el := range elements {
		if IsCandidate(ctx, el, f.keywords, f.threshold) {
			records = append(records, f.buildRecord(ctx, el, svgMatchTerm, schemas.MatchSVG))
		}
	}
	return records
}

// counterStrategy finds numeric counter/badge spans and promotes each one's
// immediate parent to candidate, since counters sit beside the clickable
// control rather than on it.
func (f *Finder) counterStrategy(ctx context.Context, page Page) []schemas.ElementRecord {
	elements, err := page.QueryXPath(ctx, counterXPath)
	if err != nil {
		f.logger.Warn("Counter strategy query failed; skipping strategy.", zap.Error(err))
		return nil
	}
	var records []schemas.ElementRecord
	for _, el := range elements {
		parent, err := el.Parent(ctx)
		if err != nil || parent == nil {
			continue
		}
		if IsCandidate(ctx, parent, f.keywords, f.threshold) {
			records = append(records, f.buildRecord(ctx, parent, counterMatchTerm, schemas.MatchCounter))
		}
	}
	return records
}

// buildRecord snapshots a surviving candidate into an immutable record.
// Individual attribute reads may fail on a detaching node; each failed field
// degrades to empty independently so the record is still emitted with its
// provenance intact.
func (f *Finder) buildRecord(ctx context.Context, el Element, term string, mt schemas.MatchType) schemas.ElementRecord {
	attr := func(name string) string {
		v, err := el.Attr(ctx, name)
		if err != nil {
			return ""
		}
		return v
	}

	text, err := el.Text(ctx)
	if err != nil {
		text = ""
	}
	tag, err := el.TagName(ctx)
	if err != nil {
		tag = ""
	}
	outerHTML, err := el.OuterHTML(ctx)
	if err != nil {
		outerHTML = ""
	}

	xpath, css := Synthesize(ctx, el)

	return schemas.ElementRecord{
		Text:      text,
		Tag:       tag,
		Class:     attr("class"),
		ID:        attr("id"),
		AriaLabel: attr("aria-label"),
		Title:     attr("title"),
		HTML:      outerHTML,
		XPath:     xpath,
		CSS:       css,
		MatchTerm: term,
		MatchType: mt,
	}
}

// Deduplicate keeps the first record seen for each distinct structural
// locator, preserving strategy order. Records carrying the "Unknown"
// placeholder are never deduplicated against each other: locator-less
// records cannot be proven identical, so each one is kept. The operation is
// idempotent.
func Deduplicate(records []schemas.ElementRecord) []schemas.ElementRecord {
	unique := make([]schemas.ElementRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.XPath != schemas.LocatorUnknown && seen[rec.XPath] {
			continue
		}
		if rec.XPath != schemas.LocatorUnknown {
			seen[rec.XPath] = true
		}
		unique = append(unique, rec)
	}
	return unique
}
