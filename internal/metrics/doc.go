// Package metrics provides the generation and watch-mode metrics hooks.
//
// Components receive a Recorder through injection and default to
// NoopRecorder, so metrics cost nothing unless watch mode is started with
// a metrics address:
//
//	rec := metrics.NewPrometheusRecorder(prometheus.NewRegistry())
//	gen := generator.New(cfg, generator.WithRecorder(rec))
//	http.Handle("/metrics", rec.Handler())
package metrics
