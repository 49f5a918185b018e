// File: internal/finder/driver.go
package finder

import "context"

// Page is the abstract capability the discovery engine needs from a rendered
// page. The live implementation drives a browser tab over CDP; the snapshot
// implementation walks a parsed static DOM. Both queries return zero or more
// handles and never fail on an empty result.
type Page interface {
	// QueryXPath returns all elements matching an XPath expression.
	QueryXPath(ctx context.Context, expr string) ([]Element, error)
	// QueryCSS returns all elements matching a CSS selector.
	QueryCSS(ctx context.Context, sel string) ([]Element, error)
}

// Element is a transient handle to one DOM node in a rendered page. Handles
// are ephemeral and owned by the current discovery call; any method may
// return an error once the underlying node has detached, and callers are
// expected to fail closed rather than propagate.
type Element interface {
	// Visible reports whether the element is currently rendered visibly.
	Visible(ctx context.Context) (bool, error)
	// Enabled reports whether the element currently accepts interaction.
	Enabled(ctx context.Context) (bool, error)
	// TagName returns the lowercase tag name.
	TagName(ctx context.Context) (string, error)
	// Attr returns the named attribute, or the empty string when absent.
	Attr(ctx context.Context, name string) (string, error)
	// Text returns the trimmed visible text content.
	Text(ctx context.Context) (string, error)
	// OuterHTML returns the raw markup snapshot of the element.
	OuterHTML(ctx context.Context) (string, error)
	// Parent returns the parent element, or (nil, nil) at the document
	// boundary.
	Parent(ctx context.Context) (Element, error)
	// PrecedingSameTag counts preceding sibling elements sharing this
	// element's tag name.
	PrecedingSameTag(ctx context.Context) (int, error)
}
