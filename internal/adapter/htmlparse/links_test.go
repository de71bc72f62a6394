package htmlparse

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectLinks(t *testing.T) {
	html := `<html><body>
		<a href="/b">root relative</a>
		<a href="c">path relative</a>
		<a href="https://example.com/d#section">absolute same host</a>
		<a href="https://EXAMPLE.com/b">duplicate of /b</a>
		<a href="https://other.com/c">cross domain</a>
		<a href="//cdn.other.com/lib.js">protocol relative other host</a>
		<a href="//example.com/e">protocol relative same host</a>
		<a href="mailto:team@example.com">mail</a>
		<a href="javascript:void(0)">js</a>
		<a href="#top">fragment</a>
		<a href="http://[::1]:namedport">malformed</a>
		<a href="">empty</a>
		<a>no href</a>
	</body></html>`
	base, err := url.Parse("https://example.com/a/index.html")
	require.NoError(t, err)

	got := CollectLinks(newDoc(t, html), base)

	assert.Equal(t, []string{
		"https://example.com/b",
		"https://example.com/a/c",
		"https://example.com/d",
		"https://example.com/e",
	}, got)
}

func TestCollectLinksHonoursBaseElement(t *testing.T) {
	html := `<html><head><base href="/docs/v2/"></head><body>
		<a href="intro">relative to base</a>
		<a href="/about">root relative</a>
		<a href="https://example.com/x">absolute</a>
	</body></html>`
	base, err := url.Parse("https://example.com/blog/post.html")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/docs/v2/intro",
		"https://example.com/about",
		"https://example.com/x",
	}, CollectLinks(newDoc(t, html), base))
}

func TestCollectLinksCrossHostBaseKeepsPageHostFilter(t *testing.T) {
	html := `<html><head><base href="https://cdn.other.com/"></head><body>
		<a href="page">resolves off site</a>
		<a href="https://example.com/kept">same host</a>
	</body></html>`
	base, _ := url.Parse("https://example.com/")

	assert.Equal(t, []string{"https://example.com/kept"}, CollectLinks(newDoc(t, html), base))
}

func TestCollectLinksIgnoresUnusableBase(t *testing.T) {
	html := `<html><head><base href="javascript:void(0)"></head><body><a href="c">c</a></body></html>`
	base, _ := url.Parse("https://example.com/a/")

	assert.Equal(t, []string{"https://example.com/a/c"}, CollectLinks(newDoc(t, html), base))
}

func TestCollectLinksNone(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	assert.Empty(t, CollectLinks(newDoc(t, `<html><body><p>no anchors</p></body></html>`), base))
}
