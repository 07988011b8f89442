package site

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/buster/internal/logfields"
	"git.home.luguber.info/inful/buster/internal/observability"
	"git.home.luguber.info/inful/buster/internal/rewrite"
)

// DomainExtensions are the file types whose text references origins.
var DomainExtensions = []string{".html", ".css", ".xsl", ".rss"}

// RewriteDomains applies d to every served text file, writing only files
// whose content changed.
func RewriteDomains(ctx context.Context, root string, d rewrite.Domain) (*StageResult, error) {
	start := time.Now()
	res := newStageResult(StageDomain)
	defer func() { res.Duration = time.Since(start) }()

	files, err := listFiles(ctx, root)
	if err != nil {
		return res, walkError(root, err)
	}

	for _, p := range files {
		if !hasDomainExtension(p) {
			continue
		}
		res.Visited++
		raw, err := os.ReadFile(p)
		if err != nil {
			res.Failures++
			observability.WarnContext(ctx, "Failed to read file", logfields.File(p), logfields.Error(err))
			continue
		}
		text := string(raw)
		out := d.Apply(text)
		if out == text {
			continue
		}
		if err := os.WriteFile(p, []byte(out), 0o644); err != nil {
			res.Failures++
			observability.WarnContext(ctx, "Failed to write file", logfields.File(p), logfields.Error(err))
			continue
		}
		res.record(KindContent, relPath(root, p), "", "")
	}
	return res, nil
}

func hasDomainExtension(p string) bool {
	ext := filepath.Ext(p)
	for _, e := range DomainExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
