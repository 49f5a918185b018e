// File: internal/finder/locator.go
package finder

import (
	"context"
	"fmt"
	"strings"

	"github.com/votelens/votelens/api/schemas"
)

// Synthesize produces the two independent, reproducible locators for an
// element: an ancestor-path XPath and an ancestor-chain CSS selector. The
// two computations are independent; failure of either degrades that locator
// to the "Unknown" placeholder without affecting the other. Both locators
// re-select the same node when fed back against the same rendered DOM; they
// are not guaranteed stable across reloads or DOM mutation.
func Synthesize(ctx context.Context, el Element) (xpath, css string) {
	xp, err := StructuralLocator(ctx, el)
	if err != nil {
		xp = schemas.LocatorUnknown
	}
	sel, err := CSSLocator(ctx, el)
	if err != nil {
		sel = schemas.LocatorUnknown
	}
	return xp, sel
}

// StructuralLocator computes an id-short-circuited ancestor-path XPath.
// An element with a non-empty id becomes a single absolute step keyed on the
// id. The document body is the fixed recursion root; everything else appends
// /tag[ordinal] to its parent's path, with the ordinal 1-based among
// same-tag siblings.
func StructuralLocator(ctx context.Context, el Element) (string, error) {
	id, err := el.Attr(ctx, "id")
	if err != nil {
		return "", err
	}
	if id != "" {
		return fmt.Sprintf(`//*[@id="%s"]`, id), nil
	}

	tag, err := el.TagName(ctx)
	if err != nil {
		return "", err
	}
	if tag == "body" {
		return "/html/body", nil
	}

	parent, err := el.Parent(ctx)
	if err != nil {
		return "", err
	}
	if parent == nil {
		// Above body there is only the document element.
		return "/" + tag, nil
	}

	preceding, err := el.PrecedingSameTag(ctx)
	if err != nil {
		return "", err
	}
	parentPath, err := StructuralLocator(ctx, parent)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s[%d]", parentPath, tag, preceding+1), nil
}

// CSSLocator computes an id-short-circuited ancestor-chain CSS selector.
// The walk ascends from the element; a node with an id emits tag#id and
// stops (ids are assumed globally unique), other nodes emit tag or
// tag:nth-of-type(n), and levels join top-to-bottom with " > ".
func CSSLocator(ctx context.Context, el Element) (string, error) {
	var parts []string
	for cur := el; cur != nil; {
		tag, err := cur.TagName(ctx)
		if err != nil {
			return "", err
		}
		id, err := cur.Attr(ctx, "id")
		if err != nil {
			return "", err
		}
		if id != "" {
			parts = append(parts, tag+"#"+id)
			break
		}

		preceding, err := cur.PrecedingSameTag(ctx)
		if err != nil {
			return "", err
		}
		seg := tag
		if preceding > 0 {
			seg = fmt.Sprintf("%s:nth-of-type(%d)", tag, preceding+1)
		}
		parts = append(parts, seg)

		cur, err = cur.Parent(ctx)
		if err != nil {
			return "", err
		}
	}

	// The walk collected levels bottom-up; the selector reads top-down.
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " > "), nil
}
