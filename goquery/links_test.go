package goquery_test

import (
	"testing"

	"github.com/fwojciec/doctext"
	"github.com/fwojciec/doctext/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinkExtractor(t *testing.T) *goquery.LinkExtractor {
	t.Helper()
	origin, err := doctext.ParseOrigin("https://docs.example")
	require.NoError(t, err)
	return goquery.NewLinkExtractor(origin, nil)
}

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves relative references against the page directory", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="install">Install</a>
<a href="../api/">API</a>
<a href="/reference">Reference</a>
<a href="https://docs.example/absolute">Absolute</a>
</body></html>`

		links, err := newLinkExtractor(t).ExtractLinks(html, "https://docs.example/guide/start")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://docs.example/absolute",
			"https://docs.example/api/",
			"https://docs.example/guide/install",
			"https://docs.example/reference",
		}, links.URLs)
		assert.Empty(t, links.Ignored)
	})

	t.Run("ignores other origins", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/a">A</a>
<a href="https://elsewhere.example/x">Other host</a>
<a href="http://docs.example/b">Other scheme</a>
<a href="//cdn.docs.example/c">Subdomain</a>
</body></html>`

		links, err := newLinkExtractor(t).ExtractLinks(html, "https://docs.example/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example/a"}, links.URLs)
		assert.Equal(t, []string{
			"http://docs.example/b",
			"https://cdn.docs.example/c",
			"https://elsewhere.example/x",
		}, links.Ignored)
	})

	t.Run("ignores references containing a fragment", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="#top">Top</a>
<a href="/guide#install">Install section</a>
<a href="/guide">Guide</a>
</body></html>`

		links, err := newLinkExtractor(t).ExtractLinks(html, "https://docs.example/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example/guide"}, links.URLs)
		assert.Equal(t, []string{"#top", "/guide#install"}, links.Ignored)
	})

	t.Run("skips non-HTTP schemes and empty references", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="">Empty</a>
<a href="javascript:void(0)">JS</a>
<a href="mailto:team@docs.example">Mail</a>
<a href="tel:+100">Phone</a>
<a href="ftp://docs.example/file">FTP</a>
</body></html>`

		links, err := newLinkExtractor(t).ExtractLinks(html, "https://docs.example/")

		require.NoError(t, err)
		assert.Empty(t, links.URLs)
		assert.Len(t, links.Ignored, 4)
	})

	t.Run("deduplicates and normalizes", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/b">B</a>
<a href="HTTPS://DOCS.EXAMPLE/b">B again</a>
<a href="https://docs.example">Root</a>
<a href="/b">B third</a>
</body></html>`

		links, err := newLinkExtractor(t).ExtractLinks(html, "https://docs.example/page")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://docs.example/",
			"https://docs.example/b",
		}, links.URLs)
	})

	t.Run("includes links inside navigation", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><nav><a href="/nav-only">Nav</a></nav><main><p>x</p></main></body></html>`

		links, err := newLinkExtractor(t).ExtractLinks(html, "https://docs.example/")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://docs.example/nav-only"}, links.URLs)
	})

	t.Run("returns error for invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := newLinkExtractor(t).ExtractLinks(`<a href="/x">x</a>`, "not a url")

		assert.Equal(t, doctext.EINVALID, doctext.ErrorCode(err))
	})

	t.Run("returns parse error from strict parser", func(t *testing.T) {
		t.Parallel()

		origin, err := doctext.ParseOrigin("https://docs.example")
		require.NoError(t, err)
		e := goquery.NewLinkExtractor(origin, goquery.NewStrictParser())

		links, err := e.ExtractLinks(malformedHTML, "https://docs.example/")

		assert.Equal(t, doctext.EPARSE, doctext.ErrorCode(err))
		assert.Empty(t, links.URLs)
	})
}
