package site

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/buster/internal/logfields"
	"git.home.luguber.info/inful/buster/internal/observability"
	"git.home.luguber.info/inful/buster/internal/rewrite"
)

// RewriteLinks makes every internal href in the tree's HTML pages point at
// an existing static file. Pages in an "rss" directory are feeds: their
// hrefs are rewritten textually and the result is moved to a ".rss" file.
func RewriteLinks(ctx context.Context, root string) (*StageResult, error) {
	start := time.Now()
	res := newStageResult(StageLinks)
	defer func() { res.Duration = time.Since(start) }()

	files, err := listFiles(ctx, root)
	if err != nil {
		return res, walkError(root, err)
	}

	for _, p := range files {
		if filepath.Ext(p) != ".html" {
			continue
		}
		res.Visited++
		var ferr error
		if filepath.Base(filepath.Dir(p)) == "rss" {
			ferr = rewriteFeed(root, p, res)
		} else {
			ferr = rewritePage(root, p, res)
		}
		if ferr != nil {
			res.Failures++
			observability.WarnContext(ctx, "Skipping file after link rewrite failure", logfields.File(p), logfields.Error(ferr))
		}
	}
	return res, nil
}

func rewritePage(root, p string, res *StageResult) error {
	raw, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	doc, err := parseDocument(raw)
	if err != nil {
		return err
	}

	rel := relPath(root, p)
	for _, el := range findElements(doc, "a", "link") {
		href, ok := getAttr(el, "href")
		if !ok {
			continue
		}
		next, steps := rewrite.RewriteHref(href)
		if len(steps) == 0 {
			continue
		}
		setAttr(el, "href", next)
		res.record(KindHref, rel, href, next)
	}

	out, err := renderDocument(doc)
	if err != nil {
		return err
	}
	if bytes.Equal(out, raw) {
		return nil
	}
	return os.WriteFile(p, out, 0o644)
}

func rewriteFeed(root, p string, res *StageResult) error {
	raw, err := os.ReadFile(p)
	if err != nil {
		return err
	}
	rel := relPath(root, p)
	text := rewrite.RewriteFeedHrefs(string(decodeDocument(raw)), func(s rewrite.Step) {
		res.record(KindHref, rel, s.Old, s.New)
	})

	target := strings.TrimSuffix(p, ".html") + ".rss"
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return err
	}
	res.record(KindRename, relPath(root, target), rel, relPath(root, target))
	return nil
}
