package site

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/buster/internal/foundation/errors"
	"git.home.luguber.info/inful/buster/internal/metrics"
	"git.home.luguber.info/inful/buster/internal/rewrite"
)

type fakeRecorder struct {
	mu       sync.Mutex
	rewrites map[string]int
	visited  map[string]int
	results  map[string]metrics.ResultLabel
	outcomes []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		rewrites: map[string]int{},
		visited:  map[string]int{},
		results:  map[string]metrics.ResultLabel{},
	}
}

func (f *fakeRecorder) ObserveStageDuration(string, time.Duration) {}
func (f *fakeRecorder) ObserveRunDuration(time.Duration)           {}
func (f *fakeRecorder) AddFileFailures(string, int)                {}

func (f *fakeRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[stage] = result
}

func (f *fakeRecorder) AddRewrites(stage, kind string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rewrites[stage+"/"+kind] += n
}

func (f *fakeRecorder) AddFilesVisited(stage string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visited[stage] += n
}

func (f *fakeRecorder) IncRunOutcome(outcome string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, outcome)
}

func testOptions(root string) Options {
	return Options{
		Root: root,
		NotFound: NotFoundPage{
			StylesheetPath: "assets/styles/crisp.css",
			StylesheetURL:  "https://blog.example.com/assets/styles/crisp.css",
		},
		Domain: rewrite.Domain{
			LocalOrigin: "http://localhost:2368",
			WebURL:      "https://blog.example.com",
		},
	}
}

func mirroredSite(t *testing.T, root string) {
	t.Helper()
	writeTree(t, root, map[string]string{
		"index.html":               samplePage,
		"index.html.1":             samplePage,
		"about?ref=123":            `<html><body><a href="../index.html">home</a></body></html>`,
		"posts/my-post/index.html": `<html><body><a href="http://localhost:2368/tag/news/">news</a><a href="../../tag/news/">news</a></body></html>`,
		"tag/news/index.html":      `<html><body><a href="rss/">feed</a></body></html>`,
		"rss/index.html":           sampleFeed,
		"assets/styles/crisp.css":  `@import url(http://localhost:2368/assets/fonts.css%3Fv=3);`,
	})
}

func TestPipeline_Run(t *testing.T) {
	root := t.TempDir()
	mirroredSite(t, root)
	rec := newFakeRecorder()

	report, err := NewPipeline(testOptions(root)).WithRecorder(rec).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Stages, 4)

	got := snapshot(t, root)
	require.Contains(t, got, "404.html")
	require.Contains(t, got, "about.html")
	require.Contains(t, got, "rss/index.rss")
	require.NotContains(t, got, "index.html.1")
	require.NotContains(t, got, "about?ref=123")
	require.NotContains(t, got, "rss/index.html")

	require.Contains(t, got["index.html"], `href="about.html"`)
	require.Contains(t, got["index.html"], `href="https://blog.example.com/rss/"`)
	require.Contains(t, got["404.html"], "404: Page not found")
	require.Contains(t, got["404.html"], `href="https://blog.example.com/assets/styles/crisp.css"`)
	require.Contains(t, got["index.html"], `href="assets/styles/crisp.css"`)
	require.Contains(t, got["tag/news/index.html"], `href="rss/index.rss"`)
	require.Contains(t, got["posts/my-post/index.html"], `href="../../tag/news.html"`)
	require.Contains(t, got["posts/my-post/index.html"], `href="https://blog.example.com/tag/news/"`)
	require.Contains(t, got["rss/index.rss"], `<atom:link href="https://blog.example.com/rss/"`)
	require.Equal(t, `@import url(https://blog.example.com/assets/fonts.css);`, got["assets/styles/crisp.css"])

	for name, content := range got {
		require.NotContains(t, content, "http://localhost:2368", name)
	}

	require.Equal(t, []string{"success"}, rec.outcomes)
	require.Equal(t, metrics.ResultSuccess, rec.results[StageDomain])
	require.Equal(t, 1, rec.rewrites[StageNormalize+"/"+string(KindDelete)])
	require.Positive(t, rec.visited[StageLinks])
	require.Equal(t, report.Count(KindHref), rec.rewrites[StageNotFound+"/href"]+rec.rewrites[StageLinks+"/href"])
}

func TestPipeline_RunIsIdempotent(t *testing.T) {
	root := t.TempDir()
	mirroredSite(t, root)
	p := NewPipeline(testOptions(root))

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	first := snapshot(t, root)

	report, err := p.Run(context.Background())
	require.NoError(t, err)
	for _, stage := range []string{StageNotFound, StageNormalize, StageLinks, StageDomain} {
		require.False(t, report.Stage(stage).Changed(), stage)
	}
	require.Equal(t, first, snapshot(t, root))
}

func TestPipeline_MissingIndexStopsRun(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"about": "about"})
	rec := newFakeRecorder()

	report, err := NewPipeline(testOptions(root)).WithRecorder(rec).Run(context.Background())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryFileSystem))
	require.Len(t, report.Stages, 1)
	require.Equal(t, metrics.ResultFatal, rec.results[StageNotFound])
	require.Equal(t, []string{"failed"}, rec.outcomes)

	// later stages did not run
	require.Equal(t, "about", readFile(t, root, "about"))
}

func TestPipeline_Cancelled(t *testing.T) {
	root := t.TempDir()
	mirroredSite(t, root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewPipeline(testOptions(root)).Run(ctx)
	require.Error(t, err)
	require.Empty(t, report.Stages)
	require.True(t, strings.Contains(err.Error(), "cancelled"))
}

func TestPipeline_RequiresRoot(t *testing.T) {
	_, err := NewPipeline(Options{}).Run(context.Background())
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
