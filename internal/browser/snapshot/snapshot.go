// File: internal/browser/snapshot/snapshot.go

// Package snapshot implements the finder page driver over a static HTML
// document. It backs the offline inspect mode and gives tests a
// deterministic DOM: repeated discovery over the same snapshot always sees
// the same tree.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/votelens/votelens/internal/finder"
)

// Page is a parsed, immutable HTML document exposed through the finder's
// page driver interface.
type Page struct {
	doc *html.Node
	gq  *goquery.Document
}

var _ finder.Page = (*Page)(nil)

// Parse reads an HTML document into a snapshot page.
func Parse(r io.Reader) (*Page, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML snapshot: %w", err)
	}
	return &Page{doc: doc, gq: goquery.NewDocumentFromNode(doc)}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Page, error) {
	return Parse(strings.NewReader(s))
}

// QueryXPath returns all elements matching the XPath expression.
func (p *Page) QueryXPath(_ context.Context, expr string) ([]finder.Element, error) {
	nodes, err := htmlquery.QueryAll(p.doc, expr)
	if err != nil {
		return nil, fmt.Errorf("%w: xpath %q: %v", finder.ErrQueryFailed, expr, err)
	}
	out := make([]finder.Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, &element{node: n})
		}
	}
	return out, nil
}

// QueryCSS returns all elements matching the CSS selector.
func (p *Page) QueryCSS(_ context.Context, sel string) ([]finder.Element, error) {
	matcher, err := cascadia.Compile(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: selector %q: %v", finder.ErrQueryFailed, sel, err)
	}
	var out []finder.Element
	p.gq.FindMatcher(matcher).Each(func(_ int, s *goquery.Selection) {
		out = append(out, &element{node: s.Get(0)})
	})
	return out, nil
}

// element adapts one *html.Node to the finder element handle. Snapshot
// handles never go stale, so methods only fail for malformed input.
type element struct {
	node *html.Node
}

var _ finder.Element = (*element)(nil)

// Visible applies the static-DOM approximation of rendered visibility: an
// element is visible unless it, or an ancestor, is marked hidden via the
// hidden attribute, an inline display:none/visibility:hidden style, or
// input[type=hidden].
func (e *element) Visible(context.Context) (bool, error) {
	for n := e.node; n != nil && n.Type == html.ElementNode; n = n.Parent {
		if hasAttr(n, "hidden") {
			return false, nil
		}
		style := strings.ToLower(htmlquery.SelectAttr(n, "style"))
		style = strings.ReplaceAll(style, " ", "")
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return false, nil
		}
	}
	if strings.EqualFold(e.node.Data, "input") &&
		strings.EqualFold(htmlquery.SelectAttr(e.node, "type"), "hidden") {
		return false, nil
	}
	return true, nil
}

// Enabled reports false for elements carrying disabled or aria-disabled.
func (e *element) Enabled(context.Context) (bool, error) {
	if hasAttr(e.node, "disabled") {
		return false, nil
	}
	if strings.EqualFold(htmlquery.SelectAttr(e.node, "aria-disabled"), "true") {
		return false, nil
	}
	return true, nil
}

func (e *element) TagName(context.Context) (string, error) {
	return strings.ToLower(e.node.Data), nil
}

func (e *element) Attr(_ context.Context, name string) (string, error) {
	return htmlquery.SelectAttr(e.node, name), nil
}

func (e *element) Text(context.Context) (string, error) {
	return strings.TrimSpace(htmlquery.InnerText(e.node)), nil
}

func (e *element) OuterHTML(context.Context) (string, error) {
	return htmlquery.OutputHTML(e.node, true), nil
}

func (e *element) Parent(context.Context) (finder.Element, error) {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil, nil
	}
	return &element{node: p}, nil
}

func (e *element) PrecedingSameTag(context.Context) (int, error) {
	count := 0
	for prev := e.node.PrevSibling; prev != nil; prev = prev.PrevSibling {
		if prev.Type == html.ElementNode && strings.EqualFold(prev.Data, e.node.Data) {
			count++
		}
	}
	return count, nil
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return true
		}
	}
	return false
}
