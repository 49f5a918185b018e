package finder_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/votelens/votelens/internal/browser/snapshot"
	"github.com/votelens/votelens/internal/finder"
)

// firstElement parses the HTML and returns the single element selected by
// the CSS selector.
func firstElement(t *testing.T, html, sel string) finder.Element {
	t.Helper()
	page, err := snapshot.ParseString(html)
	require.NoError(t, err)
	elements, err := page.QueryCSS(context.Background(), sel)
	require.NoError(t, err)
	require.NotEmpty(t, elements, "test setup error: %q matched nothing", sel)
	return elements[0]
}

func TestIsCandidate(t *testing.T) {
	ctx := context.Background()
	keywords := finder.DefaultKeywords()

	tests := []struct {
		name string
		html string
		sel  string
		want bool
	}{
		{
			name: "button with keyword text",
			html: `<html><body><button>Like</button></body></html>`,
			sel:  "button",
			want: true,
		},
		{
			name: "plain span is not clickable",
			html: `<html><body><span>like this post</span></body></html>`,
			sel:  "span",
			want: false,
		},
		{
			name: "div with btn class is clickable",
			html: `<html><body><div class="like-btn">42</div></body></html>`,
			sel:  "div",
			want: true,
		},
		{
			name: "role button with keyword aria label",
			html: `<html><body><div role="button" aria-label="点赞"></div></body></html>`,
			sel:  "div",
			want: true,
		},
		{
			name: "hidden button is rejected",
			html: `<html><body><button style="display:none">Like</button></body></html>`,
			sel:  "button",
			want: false,
		},
		{
			name: "button inside hidden container is rejected",
			html: `<html><body><div hidden><button>Like</button></div></body></html>`,
			sel:  "button",
			want: false,
		},
		{
			name: "disabled button is rejected",
			html: `<html><body><button disabled>Like</button></body></html>`,
			sel:  "button",
			want: false,
		},
		{
			name: "clickable element without any keyword",
			html: `<html><body><button class="nav-next">Next page</button></body></html>`,
			sel:  "button",
			want: false,
		},
		{
			name: "keyword in class attribute",
			html: `<html><body><a class="upvote-arrow" href="#">▲</a></body></html>`,
			sel:  "a",
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el := firstElement(t, tt.html, tt.sel)
			got := finder.IsCandidate(ctx, el, keywords, finder.DefaultThreshold)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIsCandidateThresholdBounds(t *testing.T) {
	ctx := context.Background()
	keywords := finder.DefaultKeywords()

	t.Run("zero admits any clickable element", func(t *testing.T) {
		el := firstElement(t,
			`<html><body><button class="nav-next">Next page</button></body></html>`, "button")
		require.True(t, finder.IsCandidate(ctx, el, keywords, 0))
	})

	t.Run("hundred still matches keyword inside longer text", func(t *testing.T) {
		// Partial matching scores the keyword against its best-aligned
		// substring, so "like" inside "Liked" is a perfect partial match.
		el := firstElement(t,
			`<html><body><button>Liked</button></body></html>`, "button")
		require.True(t, finder.IsCandidate(ctx, el, keywords, 100))
	})

	t.Run("hundred rejects an inexact blob", func(t *testing.T) {
		el := firstElement(t,
			`<html><body><button class="nav-next">Next page</button></body></html>`, "button")
		require.False(t, finder.IsCandidate(ctx, el, keywords, 100))
	})
}

// staleElement fails every accessor, modeling a handle whose node detached
// between discovery and scoring.
type staleElement struct{}

var errDetached = errors.New("node detached")

func (staleElement) Visible(context.Context) (bool, error)          { return false, errDetached }
func (staleElement) Enabled(context.Context) (bool, error)          { return false, errDetached }
func (staleElement) TagName(context.Context) (string, error)        { return "", errDetached }
func (staleElement) Attr(context.Context, string) (string, error)   { return "", errDetached }
func (staleElement) Text(context.Context) (string, error)           { return "", errDetached }
func (staleElement) OuterHTML(context.Context) (string, error)      { return "", errDetached }
func (staleElement) Parent(context.Context) (finder.Element, error) { return nil, errDetached }
func (staleElement) PrecedingSameTag(context.Context) (int, error)  { return 0, errDetached }

func TestIsCandidateStaleElementFailsClosed(t *testing.T) {
	got := finder.IsCandidate(context.Background(), staleElement{}, finder.DefaultKeywords(), 0)
	require.False(t, got)
}
