package site

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/logfields"
	"git.home.luguber.info/inful/buster/internal/observability"
	"git.home.luguber.info/inful/buster/internal/rewrite"
)

const notFoundMain = `<main id="content"> <h2>404: Page not found</h2></main>`

// NotFoundPage configures the synthesized error page.
type NotFoundPage struct {
	// StylesheetPath is the site-relative stylesheet the theme links to.
	StylesheetPath string
	// StylesheetURL replaces references to StylesheetPath. 404 pages are
	// served from arbitrary paths, so relative references would break.
	StylesheetURL string
}

// SynthesizeNotFound writes 404.html next to index.html, with the main
// content replaced by a not-found notice. A missing index.html is fatal.
// The file is only written, and events only recorded, when its content
// changes.
func SynthesizeNotFound(ctx context.Context, root string, page NotFoundPage) (*StageResult, error) {
	start := time.Now()
	res := newStageResult(StageNotFound)
	defer func() { res.Duration = time.Since(start) }()

	indexPath := filepath.Join(root, "index.html")
	target := filepath.Join(root, "404.html")

	raw, err := os.ReadFile(indexPath)
	if err != nil {
		return res, errors.FileSystemError("site root has no index.html").
			WithCause(err).
			WithContext("path", indexPath).
			Fatal().
			Build()
	}
	res.Visited = 1

	out, hrefs := buildNotFound(ctx, raw, page, res)

	existing, readErr := os.ReadFile(target)
	if readErr == nil && bytes.Equal(existing, out) {
		return res, nil
	}
	if err := os.WriteFile(target, out, 0o644); err != nil {
		return res, errors.FileSystemError("failed to write 404 page").
			WithCause(err).
			WithContext("path", target).
			Build()
	}
	if readErr != nil {
		res.record(KindCreate, "404.html", "index.html", "404.html")
	} else {
		res.record(KindContent, "404.html", "", "")
	}
	for _, h := range hrefs {
		res.record(KindHref, "404.html", h[0], h[1])
	}
	return res, nil
}

// buildNotFound derives the 404 page from the front page. When the page
// cannot be parsed or rendered the plain copy is returned.
func buildNotFound(ctx context.Context, raw []byte, page NotFoundPage, res *StageResult) ([]byte, [][2]string) {
	doc, err := parseDocument(raw)
	if err != nil {
		res.Failures++
		observability.WarnContext(ctx, "Could not parse front page, keeping plain copy", logfields.Error(err))
		return raw, nil
	}

	if mainEl := firstElement(doc, "main"); mainEl != nil {
		if err := replaceNode(mainEl, notFoundMain); err != nil {
			res.Failures++
			observability.WarnContext(ctx, "Could not replace main content", logfields.Error(err))
		}
	} else {
		observability.WarnContext(ctx, "Front page has no main element, 404 page keeps its content")
	}

	var hrefs [][2]string
	if page.StylesheetPath != "" && page.StylesheetURL != "" {
		for _, el := range findElements(doc, "link", "script", "img") {
			for _, key := range []string{"href", "src"} {
				val, ok := getAttr(el, key)
				if !ok || !isStylesheetRef(val, page.StylesheetPath) {
					continue
				}
				setAttr(el, key, page.StylesheetURL)
				hrefs = append(hrefs, [2]string{val, page.StylesheetURL})
			}
		}
	}
	if len(hrefs) == 0 {
		observability.DebugContext(ctx, "No stylesheet reference replaced in 404 page", logfields.Path(page.StylesheetPath))
	}

	out, err := renderDocument(doc)
	if err != nil {
		res.Failures++
		observability.WarnContext(ctx, "Could not render 404 page, keeping plain copy", logfields.Error(err))
		return raw, nil
	}
	return out, hrefs
}

// isStylesheetRef matches ref against a site-relative path, ignoring
// leading "./" or "/", any query or fragment, and the percent-encoded
// "%3Fv=" cache buster wget leaves in converted links.
func isStylesheetRef(ref, stylesheet string) bool {
	if rewrite.IsAbsolute(ref) {
		return false
	}
	p, _ := rewrite.SplitReference(rewrite.StripAssetVersions(ref))
	return trimRelative(p) == trimRelative(stylesheet)
}

func trimRelative(p string) string {
	p = strings.TrimPrefix(p, "./")
	return strings.TrimLeft(p, "/")
}
