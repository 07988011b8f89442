package rewrite

import (
	"regexp"
	"strings"
)

var (
	// A crawler de-duplication suffix such as "index.html.1".
	staleDuplicateRe = regexp.MustCompile(`^(.+)\.[0-9]{1,2}$`)
	barePageRe       = regexp.MustCompile(`^[\w-]+$`)
)

// ReservedNames are top-level files that must keep their exact name.
var ReservedNames = []string{"CNAME", "LICENSE"}

// StripQuery removes a "?..." suffix from a filename.
func StripQuery(name string) (string, bool) {
	before, _, found := strings.Cut(name, "?")
	return before, found
}

// IsStaleDuplicate reports whether name ends in a one- or two-digit numeric extension.
func IsStaleDuplicate(name string) bool {
	return staleDuplicateRe.MatchString(name)
}

// StripNumberedSuffix removes a trailing ".N" or ".NN".
func StripNumberedSuffix(s string) string {
	return staleDuplicateRe.ReplaceAllString(s, "$1")
}

// NeedsHTMLExtension reports whether a top-level or tag page file should gain ".html".
func NeedsHTMLExtension(name string) bool {
	for _, reserved := range ReservedNames {
		if name == reserved {
			return false
		}
	}
	return barePageRe.MatchString(name)
}
