package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("links", 150*time.Millisecond)
	pr.IncStageResult("links", ResultSuccess)
	pr.AddRewrites("links", "href", 3)
	pr.AddRewrites("links", "href", 2)
	pr.AddFilesVisited("links", 7)
	pr.AddFileFailures("links", 1)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome("success")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				got[mf.GetName()] += c.GetValue()
			}
		}
	}
	require.InDelta(t, 5, got["buster_rewrites_total"], 0.001)
	require.InDelta(t, 7, got["buster_files_visited_total"], 0.001)
	require.InDelta(t, 1, got["buster_file_failures_total"], 0.001)
	require.InDelta(t, 1, got["buster_run_outcomes_total"], 0.001)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.AddRewrites("domain", "content", 4)

	path := filepath.Join(t.TempDir(), "buster.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `buster_rewrites_total{kind="content",stage="domain"} 4`)
}

func TestWriteTextfile_EmptyPathIsNoop(t *testing.T) {
	require.NoError(t, WriteTextfile("", prom.NewRegistry()))
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.AddRewrites("links", "href", 1)
	r.IncRunOutcome("success")
}
