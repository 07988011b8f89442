package rewrite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAbsolute(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/":  true,
		"HTTP://EXAMPLE.COM":    true,
		"//cdn.example.com/x":   true,
		"mailto:me@example.com": true,
		"posts/my-post/":        false,
		"/about/":               false,
		"../index.html":         false,
		"#top":                  false,
	}
	for ref, want := range cases {
		require.Equal(t, want, IsAbsolute(ref), ref)
	}
}

func TestIsLocalRewritable(t *testing.T) {
	require.True(t, IsLocalRewritable("about/"))
	require.True(t, IsLocalRewritable("http://localhost:2368/rss/"))
	require.False(t, IsLocalRewritable("https://github.com/TryGhost"))
}

func TestRewriteHref(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trailing directory segment", "posts/my-post/", "posts/my-post.html"},
		{"index.html inside a post", "posts/my-post/index.html", "posts/my-post.html"},
		{"bare page name", "about", "about.html"},
		{"root-relative page", "/about/", "/about.html"},
		{"bare index collapses to current dir", "index.html", "./"},
		{"parent index keeps directory form", "../index.html", "../"},
		{"already rewritten", "posts/my-post.html", "posts/my-post.html"},
		{"asset untouched", "assets/css/screen.css", "assets/css/screen.css"},
		{"fragment kept", "posts/my-post/#comments", "posts/my-post.html#comments"},
		{"fragment only", "#top", "#top"},
		{"query kept", "tag/news/?page=2", "tag/news.html?page=2"},
		{"numbered duplicate asset", "assets/js/index.js.1", "assets/js/index.js"},
		{"numbered duplicate exposing a page name", "about.12", "about.html"},
		{"feed link keeps directory form", "rss/", "rss/"},
		{"feed index stripped", "tag/news/rss/index.html", "tag/news/rss/"},
		{"absolute feed link stripped", "http://localhost:2368/rss/index.html", "http://localhost:2368/rss/"},
		{"external link untouched", "https://ghost.org/about", "https://ghost.org/about"},
		{"mailto untouched", "mailto:me@example.com", "mailto:me@example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := RewriteHref(tc.in)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRewriteHref_IsStable(t *testing.T) {
	refs := []string{
		"posts/my-post/index.html", "about", "about.3", "rss/index.html",
		"../", "./", "/", "index.html#x", "tag/news/", "style.css%3Fv=1.2.3",
	}
	for _, ref := range refs {
		once, _ := RewriteHref(ref)
		twice, steps := RewriteHref(once)
		require.Equal(t, once, twice, ref)
		require.Empty(t, steps, ref)
	}
}

// The rules compose sequentially rather than each starting from the source
// value: applied independently, "posts/x/index.html" would stop at "posts/x/"
// and only reach "posts/x.html" on a second run.
func TestRewriteHref_RulesChainForStableOutput(t *testing.T) {
	got, steps := RewriteHref("posts/x/index.html")
	require.Equal(t, "posts/x.html", got)
	require.Equal(t, []Step{
		{Rule: RuleStripIndex, Old: "posts/x/index.html", New: "posts/x/"},
		{Rule: RuleHTMLSuffix, Old: "posts/x/", New: "posts/x.html"},
	}, steps)
}

func TestRewriteHref_ReportsNoStepsWhenUnchanged(t *testing.T) {
	_, steps := RewriteHref("assets/main.js")
	require.Empty(t, steps)
}

func TestIsExtensionCorrect(t *testing.T) {
	require.True(t, IsExtensionCorrect("posts/my-post.html"))
	require.True(t, IsExtensionCorrect("assets/css/screen.css"))
	require.True(t, IsExtensionCorrect("../"))
	require.True(t, IsExtensionCorrect("#top"))
	require.True(t, IsExtensionCorrect("rss/"))
	require.True(t, IsExtensionCorrect("https://example.com/about"))
	require.False(t, IsExtensionCorrect("posts/my-post/"))
	require.False(t, IsExtensionCorrect("about"))
}
