// File: internal/browser/element.go
package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/votelens/votelens/internal/finder"
)

// element is a handle to one live DOM node, addressed by its CDP node id.
// Handles go stale whenever the page mutates or navigates; every method
// re-resolves the node and reports staleness as finder.ErrStale.
type element struct {
	sess   *Session
	nodeID cdp.NodeID
}

var _ finder.Element = (*element)(nil)

// eval resolves the node to a JavaScript object and invokes fn on it with
// `this` bound to the element. The by-value result is decoded into out when
// out is non-nil.
func (e *element) eval(ctx context.Context, fn string, out any, args ...any) error {
	runCtx, cancel := e.sess.combineContext(ctx)
	defer cancel()

	return chromedp.Run(runCtx, chromedp.ActionFunc(func(cctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.nodeID).Do(cctx)
		if err != nil {
			return fmt.Errorf("%w: node %d: %v", finder.ErrStale, e.nodeID, err)
		}
		defer releaseObject(cctx, obj.ObjectID)

		call := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true)
		if len(args) > 0 {
			callArgs := make([]*runtime.CallArgument, 0, len(args))
			for _, a := range args {
				raw, err := json.Marshal(a)
				if err != nil {
					return fmt.Errorf("failed to encode call argument: %w", err)
				}
				callArgs = append(callArgs, &runtime.CallArgument{Value: raw})
			}
			call = call.WithArguments(callArgs)
		}

		res, exc, err := call.Do(cctx)
		if err != nil {
			return fmt.Errorf("%w: node %d: %v", finder.ErrQueryFailed, e.nodeID, err)
		}
		if exc != nil {
			return fmt.Errorf("%w: node %d: %v", finder.ErrQueryFailed, e.nodeID, exc)
		}
		if out != nil && res != nil && res.Value != nil {
			if err := json.Unmarshal(res.Value, out); err != nil {
				return fmt.Errorf("failed to decode evaluation result: %w", err)
			}
		}
		return nil
	}))
}

func releaseObject(ctx context.Context, id runtime.RemoteObjectID) {
	// Best effort; the isolate reclaims leaked handles on navigation anyway.
	_ = runtime.ReleaseObject(id).Do(ctx)
}

// Visible applies the rendered-visibility heuristic: computed style must not
// hide the element and its box must have area.
func (e *element) Visible(ctx context.Context) (bool, error) {
	const fn = `function() {
		const st = window.getComputedStyle(this);
		if (st.display === 'none' || st.visibility === 'hidden' || parseFloat(st.opacity) === 0) {
			return false;
		}
		const r = this.getBoundingClientRect();
		return r.width > 0 && r.height > 0;
	}`
	var visible bool
	if err := e.eval(ctx, fn, &visible); err != nil {
		return false, err
	}
	return visible, nil
}

func (e *element) Enabled(ctx context.Context) (bool, error) {
	const fn = `function() {
		return !this.disabled && this.getAttribute('aria-disabled') !== 'true';
	}`
	var enabled bool
	if err := e.eval(ctx, fn, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

func (e *element) TagName(ctx context.Context) (string, error) {
	var tag string
	if err := e.eval(ctx, `function() { return this.tagName.toLowerCase(); }`, &tag); err != nil {
		return "", err
	}
	return tag, nil
}

func (e *element) Attr(ctx context.Context, name string) (string, error) {
	var value string
	err := e.eval(ctx, `function(name) { return this.getAttribute(name) || ''; }`, &value, name)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (e *element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.eval(ctx, `function() { return (this.innerText || this.textContent || '').trim(); }`, &text)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (e *element) OuterHTML(ctx context.Context) (string, error) {
	var html string
	if err := e.eval(ctx, `function() { return this.outerHTML; }`, &html); err != nil {
		return "", err
	}
	return html, nil
}

// Parent returns a handle to the parent element, or (nil, nil) at the
// document boundary.
func (e *element) Parent(ctx context.Context) (finder.Element, error) {
	runCtx, cancel := e.sess.combineContext(ctx)
	defer cancel()

	var parent *element
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(cctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.nodeID).Do(cctx)
		if err != nil {
			return fmt.Errorf("%w: node %d: %v", finder.ErrStale, e.nodeID, err)
		}
		defer releaseObject(cctx, obj.ObjectID)

		// The parent comes back as a live object so it can be mapped to a
		// node id; by-value serialization would lose the handle.
		res, exc, err := runtime.CallFunctionOn(`function() { return this.parentElement; }`).
			WithObjectID(obj.ObjectID).
			Do(cctx)
		if err != nil {
			return fmt.Errorf("%w: node %d: %v", finder.ErrQueryFailed, e.nodeID, err)
		}
		if exc != nil {
			return fmt.Errorf("%w: node %d: %v", finder.ErrQueryFailed, e.nodeID, exc)
		}
		if res == nil || res.ObjectID == "" || res.Subtype == "null" {
			return nil
		}
		defer releaseObject(cctx, res.ObjectID)

		nodeID, err := dom.RequestNode(res.ObjectID).Do(cctx)
		if err != nil {
			return fmt.Errorf("%w: node %d: %v", finder.ErrQueryFailed, e.nodeID, err)
		}
		parent = &element{sess: e.sess, nodeID: nodeID}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, nil
	}
	return parent, nil
}

func (e *element) PrecedingSameTag(ctx context.Context) (int, error) {
	const fn = `function() {
		let count = 0;
		for (let p = this.previousElementSibling; p; p = p.previousElementSibling) {
			if (p.tagName === this.tagName) {
				count++;
			}
		}
		return count;
	}`
	var count int
	if err := e.eval(ctx, fn, &count); err != nil {
		return 0, err
	}
	return count, nil
}
