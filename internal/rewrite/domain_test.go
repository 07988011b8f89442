package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDomain() Domain {
	return Domain{LocalOrigin: "http://localhost:2368", WebURL: "https://example.com"}
}

func TestDomain_ReplacesLocalOrigin(t *testing.T) {
	got := testDomain().Apply(`<a href="http://localhost:2368/posts/x">x</a>`)
	require.Equal(t, `<a href="https://example.com/posts/x">x</a>`, got)
}

func TestDomain_ForcesHTTPS(t *testing.T) {
	got := testDomain().Apply(`<img src="http://images.example.org/a.png">`)
	require.Equal(t, `<img src="https://images.example.org/a.png">`, got)
}

func TestDomain_CollapsesSelfOrigin(t *testing.T) {
	d := testDomain()
	d.SelfOrigin = "https://example.com/"
	got := d.Apply(`<a href="http://localhost:2368/posts/x">x</a>`)
	require.Equal(t, `<a href="/posts/x">x</a>`, got)
}

func TestRelocateFeedLinks(t *testing.T) {
	cases := map[string]string{
		`<a href="rss/index.html">`:          `<a href="rss/index.rss">`,
		`<a href="rss/">`:                    `<a href="rss/index.rss">`,
		`<link href="/tag/news/rss/">`:       `<link href="/tag/news/rss/index.rss">`,
		`<a href="https://other.org/rss/">`:  `<a href="https://other.org/rss/">`,
		`<a href="rss/index.rss">`:           `<a href="rss/index.rss">`,
		`<a href="myrss/">`:                  `<a href="myrss/">`,
	}
	for in, want := range cases {
		require.Equal(t, want, RelocateFeedLinks(in), in)
	}
}

func TestStripAssetVersions(t *testing.T) {
	cases := map[string]string{
		"style.css%3Fv=1.2.3":           "style.css",
		"assets/built/screen.css%3Fv=ab12.css": "assets/built/screen.css",
		"casper.js%3Fv=4f2c":            "casper.js",
		"url(font.woff%3Fv=4.7.0)":      "url(font.woff)",
		"url(font.woff2%3fv=4.7.0)":     "url(font.woff2)",
		"icons.ttf%3Fv=1":               "icons.ttf",
		"plain.css":                     "plain.css",
	}
	for in, want := range cases {
		require.Equal(t, want, StripAssetVersions(in), in)
	}
}

func TestCollapseAssetHTML(t *testing.T) {
	require.Equal(t, "a.css b.png c.jpg", CollapseAssetHTML("a.css.html b.png.html c.jpg.html"))
	require.Equal(t, "my-css.html", CollapseAssetHTML("my-css.html"))
}

func TestDomain_ApplyIsIdempotent(t *testing.T) {
	d := testDomain()
	d.SelfOrigin = "https://example.com/"
	in := strings.Join([]string{
		`<link rel="stylesheet" href="http://localhost:2368/assets/screen.css%3Fv=1.0">`,
		`<a href="rss/">feed</a>`,
		`<a href="http://ghost.org">ghost</a>`,
		`<img src="logo.png.html">`,
	}, "\n")
	once := d.Apply(in)
	require.Equal(t, once, d.Apply(once))
	require.NotContains(t, once, "http://")
	require.NotContains(t, once, "localhost:2368")
}
