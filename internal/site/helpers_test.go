package site

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := map[string]string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		out[relPath(root, p)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
<title>Blog</title>
<link rel="stylesheet" href="assets/styles/crisp.css%3Fv=8d1f2a">
<link rel="alternate" type="application/rss+xml" href="http://localhost:2368/rss/">
</head>
<body class="home-template">
<header><a href="./">Home</a> <a href="about/">About</a></header>
<main id="content"><article><a href="posts/my-post/">My post</a></article></main>
<footer><a href="https://ghost.org">Ghost</a></footer>
</body>
</html>
`
