package site

import (
	"context"
	"io/fs"
	"path/filepath"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/logfields"
	"git.home.luguber.info/inful/buster/internal/observability"
)

// listFiles returns every regular file below root, skipping .git. The list
// is taken up front so stages can rename and delete while iterating.
// Unreadable subdirectories are logged and skipped.
func listFiles(ctx context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == root {
				return err
			}
			observability.WarnContext(ctx, "Skipping unreadable path", logfields.Path(p), logfields.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}

// relPath reports p relative to root for events and logs.
func relPath(root, p string) string {
	if rel, err := filepath.Rel(root, p); err == nil {
		return filepath.ToSlash(rel)
	}
	return p
}

func walkError(root string, err error) error {
	return errors.FileSystemError("failed to walk site tree").
		WithCause(err).
		WithContext("path", root).
		Build()
}
