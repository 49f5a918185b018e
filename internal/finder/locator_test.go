package finder_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/votelens/votelens/api/schemas"
	"github.com/votelens/votelens/internal/browser/snapshot"
	"github.com/votelens/votelens/internal/finder"
)

const locatorHTML = `
	<html>
	<body>
		<div id="header">
			<h1>Welcome</h1>
		</div>
		<div class="content">
			<p>P1</p><p>P2</p>
			<span>S1</span>
		</div>
		<div class="content"><button>Vote</button></div>
	</body>
	</html>
	`

func TestSynthesize(t *testing.T) {
	ctx := context.Background()
	page, err := snapshot.ParseString(locatorHTML)
	require.NoError(t, err)

	tests := []struct {
		name      string
		sel       string
		wantXPath string
		wantCSS   string
	}{
		{
			name:      "element with id short-circuits",
			sel:       "#header",
			wantXPath: `//*[@id="header"]`,
			wantCSS:   "div#header",
		},
		{
			name:      "body is the recursion root",
			sel:       "body",
			wantXPath: "/html/body",
			wantCSS:   "html > body",
		},
		{
			name:      "child of id element",
			sel:       "#header h1",
			wantXPath: `//*[@id="header"]/h1[1]`,
			wantCSS:   "div#header > h1",
		},
		{
			name:      "ordinal among same-tag siblings",
			sel:       "div.content p:nth-of-type(2)",
			wantXPath: "/html/body/div[2]/p[2]",
			wantCSS:   "html > body > div:nth-of-type(2) > p:nth-of-type(2)",
		},
		{
			name:      "mixed siblings count per tag",
			sel:       "div.content span",
			wantXPath: "/html/body/div[2]/span[1]",
			wantCSS:   "html > body > div:nth-of-type(2) > span",
		},
		{
			name:      "ambiguous classes resolved by position",
			sel:       "button",
			wantXPath: "/html/body/div[3]/button[1]",
			wantCSS:   "html > body > div:nth-of-type(3) > button",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements, err := page.QueryCSS(ctx, tt.sel)
			require.NoError(t, err)
			require.Len(t, elements, 1, "test setup error: selector must be unique")

			xpath, css := finder.Synthesize(ctx, elements[0])
			assert.Equal(t, tt.wantXPath, xpath)
			assert.Equal(t, tt.wantCSS, css)
		})
	}
}

// TestSynthesizeRoundTrip feeds each synthesized locator back through the
// page and verifies it re-selects exactly the original element.
func TestSynthesizeRoundTrip(t *testing.T) {
	ctx := context.Background()
	page, err := snapshot.ParseString(locatorHTML)
	require.NoError(t, err)

	targets, err := page.QueryXPath(ctx, "//h1 | //p | //span | //button")
	require.NoError(t, err)
	require.NotEmpty(t, targets)

	for _, target := range targets {
		xpath, css := finder.Synthesize(ctx, target)
		wantHTML, err := target.OuterHTML(ctx)
		require.NoError(t, err)

		byXPath, err := page.QueryXPath(ctx, xpath)
		require.NoError(t, err)
		require.Len(t, byXPath, 1, "xpath %q must be unique", xpath)
		gotHTML, err := byXPath[0].OuterHTML(ctx)
		require.NoError(t, err)
		assert.Equal(t, wantHTML, gotHTML)

		byCSS, err := page.QueryCSS(ctx, css)
		require.NoError(t, err)
		require.Len(t, byCSS, 1, "css %q must be unique", css)
		gotHTML, err = byCSS[0].OuterHTML(ctx)
		require.NoError(t, err)
		assert.Equal(t, wantHTML, gotHTML)
	}
}

func TestSynthesizeDegradesToUnknown(t *testing.T) {
	xpath, css := finder.Synthesize(context.Background(), staleElement{})
	assert.Equal(t, schemas.LocatorUnknown, xpath)
	assert.Equal(t, schemas.LocatorUnknown, css)
}
