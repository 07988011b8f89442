// Package metrics records pipeline metrics for buster runs.
//
// Components receive a Recorder; NoopRecorder is the default so callers never
// nil-check. PrometheusRecorder registers counters and histograms on a
// registry, and WriteTextfile dumps that registry in the node_exporter
// textfile format, which suits a batch job that exits after each run:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	pipeline := site.NewPipeline(opts).WithRecorder(rec)
//	...
//	_ = metrics.WriteTextfile(path, reg)
package metrics
