package rewrite

import (
	"regexp"
	"strings"
)

// Start tags that may carry an href in a feed document. Feeds are XML, so
// only the attribute values are touched and every other byte is kept.
// The scan is textual: a quoted attribute value containing ">" ahead of
// href ends the tag early and that href is left unchanged.
var feedHrefRe = regexp.MustCompile(`(<(?i:a|link|atom:link)\s[^>]*?\bhref\s*=\s*)(?:"([^"]*)"|'([^']*)')`)

// RewriteFeedHrefs applies RewriteHref to every href attribute of a, link
// and atom:link tags in a feed document. onStep is called for each change.
func RewriteFeedHrefs(text string, onStep func(Step)) string {
	return feedHrefRe.ReplaceAllStringFunc(text, func(match string) string {
		sub := feedHrefRe.FindStringSubmatch(match)
		prefix, quote, value := sub[1], `"`, sub[2]
		if strings.HasSuffix(match, "'") {
			quote, value = "'", sub[3]
		}
		rewritten, steps := RewriteHref(value)
		if onStep != nil {
			for _, s := range steps {
				onStep(s)
			}
		}
		return prefix + quote + rewritten + quote
	})
}
