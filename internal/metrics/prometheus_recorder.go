package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	rewrites      *prom.CounterVec
	filesVisited  *prom.CounterVec
	fileFailures  *prom.CounterVec
	runDuration   prom.Histogram
	runOutcome    *prom.CounterVec
	lastRun       prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "buster",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buster",
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		rewrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buster",
			Name:      "rewrites_total",
			Help:      "Rewrite events by stage and kind",
		}, []string{"stage", "kind"}),
		filesVisited: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buster",
			Name:      "files_visited_total",
			Help:      "Files examined per stage",
		}, []string{"stage"}),
		fileFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buster",
			Name:      "file_failures_total",
			Help:      "Files skipped after a read, parse or write failure",
		}, []string{"stage"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "buster",
			Name:      "run_duration_seconds",
			Help:      "Total pipeline run duration",
			Buckets:   prom.DefBuckets,
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "buster",
			Name:      "run_outcomes_total",
			Help:      "Pipeline runs by final status",
		}, []string{"outcome"}),
		lastRun: prom.NewGauge(prom.GaugeOpts{
			Namespace: "buster",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last finished run",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.stageResults, pr.rewrites, pr.filesVisited,
		pr.fileFailures, pr.runDuration, pr.runOutcome, pr.lastRun)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) AddRewrites(stage, kind string, n int) {
	p.rewrites.WithLabelValues(stage, kind).Add(float64(n))
}

func (p *PrometheusRecorder) AddFilesVisited(stage string, n int) {
	p.filesVisited.WithLabelValues(stage).Add(float64(n))
}

func (p *PrometheusRecorder) AddFileFailures(stage string, n int) {
	p.fileFailures.WithLabelValues(stage).Add(float64(n))
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	p.runOutcome.WithLabelValues(outcome).Inc()
	p.lastRun.SetToCurrentTime()
}
