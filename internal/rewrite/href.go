package rewrite

import (
	"path"
	"regexp"
	"strings"
)

// Rule names reported in Step records.
const (
	RuleStripIndex        = "strip-index"
	RuleHTMLSuffix        = "html-suffix"
	RuleNumberedDuplicate = "numbered-duplicate"
)

var (
	absoluteRe = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9+.-]*:|//)`)
	// Last named segment, optionally followed by a slash.
	trailingSegmentRe = regexp.MustCompile(`(^|/)([\w-]+)/?$`)
)

// Step is one rule application that changed a reference.
type Step struct {
	Rule string
	Old  string
	New  string
}

// IsAbsolute reports whether ref carries a scheme or is protocol-relative.
func IsAbsolute(ref string) bool {
	return absoluteRe.MatchString(ref)
}

// IsLocalRewritable reports whether ref points into the mirrored site.
// Feed links are always rewritten since they point at this same site.
func IsLocalRewritable(ref string) bool {
	return !IsAbsolute(ref) || strings.Contains(ref, "/rss/")
}

// IsFeedReference reports whether the path of ref lies under an "rss" segment.
func IsFeedReference(ref string) bool {
	p, _ := SplitReference(ref)
	for _, seg := range strings.Split(p, "/") {
		if seg == "rss" {
			return true
		}
	}
	return false
}

// SplitReference splits ref into its path and the "?query#fragment" suffix.
func SplitReference(ref string) (string, string) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		return ref[:i], ref[i:]
	}
	return ref, ""
}

// StripIndex removes literal "index.html" from a path. A path left empty
// becomes "./" so the link keeps pointing at the directory. Bare page names
// gain ".html" unless feed is set.
func StripIndex(p string, feed bool) string {
	if p == "" {
		return p
	}
	out := strings.ReplaceAll(p, "index.html", "")
	if out == "" {
		return "./"
	}
	if !feed && barePageRe.MatchString(out) {
		out += ".html"
	}
	return out
}

// AppendHTML turns a trailing extension-less segment into "<segment>.html",
// dropping a trailing slash: "posts/my-post/" becomes "posts/my-post.html".
func AppendHTML(p string) string {
	return trailingSegmentRe.ReplaceAllString(p, "${1}${2}.html")
}

const maxPasses = 4

// RewriteHref applies the link rules to ref in order (strip index, html
// suffix, numbered duplicate), each on the output of the previous one.
// References that do not point into the site are returned unchanged.
func RewriteHref(ref string) (string, []Step) {
	if !IsLocalRewritable(ref) {
		return ref, nil
	}
	p, suffix := SplitReference(ref)
	if p == "" {
		return ref, nil
	}
	feed := IsFeedReference(ref)

	var steps []Step
	apply := func(rule string, fn func(string) string) {
		next := fn(p)
		if next != p {
			steps = append(steps, Step{Rule: rule, Old: p + suffix, New: next + suffix})
			p = next
		}
	}

	// Stripping a numbered suffix can expose a bare page name, so repeat
	// until stable; each pass only shortens or settles the path.
	for range maxPasses {
		before := len(steps)
		apply(RuleStripIndex, func(s string) string { return StripIndex(s, feed) })
		if !feed {
			apply(RuleHTMLSuffix, AppendHTML)
		}
		apply(RuleNumberedDuplicate, StripNumberedSuffix)
		if len(steps) == before {
			break
		}
	}

	return p + suffix, steps
}

// IsExtensionCorrect reports whether ref satisfies the rewritten-link
// invariant: local references naming a page end in ".html" or carry an
// extension; feed references and directory references are exempt.
func IsExtensionCorrect(ref string) bool {
	if IsAbsolute(ref) || IsFeedReference(ref) {
		return true
	}
	p, _ := SplitReference(ref)
	if p == "" || strings.HasSuffix(p, "/") {
		return !trailingSegmentRe.MatchString(p)
	}
	base := path.Base(p)
	if base == "." || base == ".." {
		return true
	}
	return path.Ext(base) != ""
}
