// api/schemas/elements.go
package schemas

import "time"

// MatchType records which discovery strategy produced an element record.
// Provenance is attached at creation time and never inferred afterwards.
type MatchType string

const (
	// MatchKeyword marks hits from the keyword text search strategy.
	MatchKeyword MatchType = "keyword_match"
	// MatchSelector marks hits from the static CSS selector strategy.
	MatchSelector MatchType = "selector_match"
	// MatchSVG marks hits from the icon/SVG structural strategy.
	MatchSVG MatchType = "svg_match"
	// MatchCounter marks hits from the counter-sibling strategy.
	MatchCounter MatchType = "counter_match"
)

// LocatorUnknown is the placeholder substituted when locator synthesis
// fails for one of the two locators. Records carrying it are still emitted,
// but are exempt from deduplication since they cannot be proven identical.
const LocatorUnknown = "Unknown"

// ElementRecord is the durable output unit of a discovery run: one plausible
// interaction control found on a rendered page, with enough identifying
// information to re-find it within the same rendered DOM. Records are
// immutable after creation.
type ElementRecord struct {
	Text      string    `json:"element_text"`
	Tag       string    `json:"element_tag"`
	Class     string    `json:"element_class"`
	ID        string    `json:"element_id"`
	AriaLabel string    `json:"element_aria_label"`
	Title     string    `json:"element_title"`
	HTML      string    `json:"element_html"`
	XPath     string    `json:"element_xpath"`
	CSS       string    `json:"element_css"`
	MatchTerm string    `json:"match_term"`
	MatchType MatchType `json:"match_type"`
}

// HasXPath reports whether the record carries a usable structural locator.
func (r ElementRecord) HasXPath() bool {
	return r.XPath != "" && r.XPath != LocatorUnknown
}

// HasCSS reports whether the record carries a usable CSS locator.
func (r ElementRecord) HasCSS() bool {
	return r.CSS != "" && r.CSS != LocatorUnknown
}

// PageReport is the per-page envelope written to disk once per processed URL.
// A sibling screenshot file shares the same name stem.
type PageReport struct {
	URL          string          `json:"url"`
	Timestamp    time.Time       `json:"timestamp"`
	ElementCount int             `json:"elements_count"`
	Elements     []ElementRecord `json:"elements"`
}
