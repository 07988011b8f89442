package rewrite

import (
	"regexp"
	"strings"
)

var (
	feedPageRe = regexp.MustCompile(`(rss/)[a-z]+\.html`)
	// A relative or root-relative href that stops at a feed directory.
	feedDirRe       = regexp.MustCompile(`(\bhref=["'][^"':]*\brss/)(["'])`)
	assetVersionRe  = regexp.MustCompile(`\.(css|js|woff2?|ttf)%3[Ff]v=[\w.-]*`)
	assetHTMLSuffix = regexp.MustCompile(`\.(css|png|jpg)\.html`)
)

// Domain rewrites origins and asset references in served text files.
type Domain struct {
	// LocalOrigin is the development origin, e.g. "http://localhost:2368".
	LocalOrigin string
	// WebURL is the public site URL substituted for LocalOrigin.
	WebURL string
	// SelfOrigin, when set, is collapsed to "/" so self links become root-relative.
	SelfOrigin string
}

// Apply runs every substitution in order.
func (d Domain) Apply(text string) string {
	text = d.ReplaceLocalOrigin(text)
	text = ForceHTTPS(text)
	text = d.CollapseSelfOrigin(text)
	text = RelocateFeedLinks(text)
	text = StripAssetVersions(text)
	return CollapseAssetHTML(text)
}

// ReplaceLocalOrigin substitutes the public URL for the development origin.
func (d Domain) ReplaceLocalOrigin(text string) string {
	if d.LocalOrigin == "" {
		return text
	}
	return strings.ReplaceAll(text, d.LocalOrigin, d.WebURL)
}

// ForceHTTPS upgrades every insecure scheme prefix.
func ForceHTTPS(text string) string {
	return strings.ReplaceAll(text, "http://", "https://")
}

// CollapseSelfOrigin turns absolute self links into root-relative ones.
func (d Domain) CollapseSelfOrigin(text string) string {
	if d.SelfOrigin == "" {
		return text
	}
	return strings.ReplaceAll(text, d.SelfOrigin, "/")
}

// RelocateFeedLinks points feed links at the renamed "rss/index.rss" files.
func RelocateFeedLinks(text string) string {
	text = feedPageRe.ReplaceAllString(text, "${1}index.rss")
	return feedDirRe.ReplaceAllString(text, "${1}index.rss${2}")
}

// StripAssetVersions drops URL-encoded "?v=..." cache busters from
// stylesheet, script and font references.
func StripAssetVersions(text string) string {
	return assetVersionRe.ReplaceAllString(text, ".$1")
}

// CollapseAssetHTML undoes ".html" wrongly appended to asset references.
func CollapseAssetHTML(text string) string {
	return assetHTMLSuffix.ReplaceAllString(text, ".$1")
}
