// File: internal/finder/scorer.go
package finder

import (
	"context"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// clickableTags and clickableRoles are the signals that mark an element as
// something a user can plausibly activate.
var (
	clickableTags  = map[string]bool{"button": true, "a": true, "input": true}
	clickableRoles = map[string]bool{"button": true, "link": true, "checkbox": true, "radio": true}
)

// IsCandidate decides whether an element is likely an interaction control.
//
// Visibility and enabled state are re-checked at call time: stale handles
// are expected and fail closed. The element must carry at least one
// clickability signal (tag, role, or a button/btn class) and some keyword
// from the catalog must score at or above threshold against the element's
// combined text blob using partial fuzzy matching, which tolerates the
// keyword appearing as a substring of a longer blob.
func IsCandidate(ctx context.Context, el Element, keywords []string, threshold int) bool {
	visible, err := el.Visible(ctx)
	if err != nil || !visible {
		return false
	}
	enabled, err := el.Enabled(ctx)
	if err != nil || !enabled {
		return false
	}

	// Attribute extraction on a detaching node may fail at any point;
	// treat every failure as "not a candidate".
	text, err := el.Text(ctx)
	if err != nil {
		return false
	}
	tag, err := el.TagName(ctx)
	if err != nil {
		return false
	}
	class, err := el.Attr(ctx, "class")
	if err != nil {
		return false
	}
	id, err := el.Attr(ctx, "id")
	if err != nil {
		return false
	}
	ariaLabel, err := el.Attr(ctx, "aria-label")
	if err != nil {
		return false
	}
	title, err := el.Attr(ctx, "title")
	if err != nil {
		return false
	}
	role, err := el.Attr(ctx, "role")
	if err != nil {
		return false
	}

	blob := strings.ToLower(text + " " + class + " " + id + " " + ariaLabel + " " + title)
	classLower := strings.ToLower(class)

	clickable := clickableTags[strings.ToLower(tag)] ||
		clickableRoles[strings.ToLower(role)] ||
		strings.Contains(classLower, "button") ||
		strings.Contains(classLower, "btn")
	if !clickable {
		return false
	}

	for _, kw := range keywords {
		if fuzzy.PartialRatio(strings.ToLower(kw), blob) >= threshold {
			return true
		}
	}
	return false
}
