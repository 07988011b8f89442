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

// NormalizeFilenames fixes the names wget leaves behind:
//
//   - "page?ref=x" becomes "page" (last writer wins on collision)
//   - "index.html.1" style duplicates are deleted
//   - bare names in the root and tag directory gain ".html"
//
// The name is carried between steps, so "about?ref=1" ends as "about.html".
func NormalizeFilenames(ctx context.Context, root string) (*StageResult, error) {
	start := time.Now()
	res := newStageResult(StageNormalize)
	defer func() { res.Duration = time.Since(start) }()

	files, err := listFiles(ctx, root)
	if err != nil {
		return res, walkError(root, err)
	}
	tagDir := filepath.Join(root, "tag")

	for _, current := range files {
		// Earlier renames may have replaced this path.
		if _, err := os.Lstat(current); err != nil {
			continue
		}
		res.Visited++
		dir := filepath.Dir(current)
		name := filepath.Base(current)

		if stripped, ok := rewrite.StripQuery(name); ok && stripped != "" {
			target := filepath.Join(dir, stripped)
			if err := os.Rename(current, target); err != nil {
				res.Failures++
				observability.WarnContext(ctx, "Failed to strip query from filename", logfields.File(current), logfields.Error(err))
				continue
			}
			res.record(KindRename, relPath(root, target), relPath(root, current), relPath(root, target))
			current, name = target, stripped
		}

		if rewrite.IsStaleDuplicate(name) {
			if err := os.Remove(current); err != nil {
				res.Failures++
				observability.WarnContext(ctx, "Failed to delete duplicate file", logfields.File(current), logfields.Error(err))
				continue
			}
			res.record(KindDelete, relPath(root, current), relPath(root, current), "")
			continue
		}

		if (dir == filepath.Clean(root) || dir == tagDir) && rewrite.NeedsHTMLExtension(name) {
			target := current + ".html"
			if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
				res.Failures++
				observability.WarnContext(ctx, "Failed to clear page target", logfields.File(target), logfields.Error(err))
				continue
			}
			if err := os.Rename(current, target); err != nil {
				res.Failures++
				observability.WarnContext(ctx, "Failed to add html extension", logfields.File(current), logfields.Error(err))
				continue
			}
			res.record(KindRename, relPath(root, target), relPath(root, current), relPath(root, target))
		}
	}
	return res, nil
}
