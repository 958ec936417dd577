// Package metrics provides build metrics for blogbuilder.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and does nothing; the preview server and daemon swap in a
// PrometheusRecorder and expose it with Mount:
//
//	reg := prometheus.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	gen := site.NewGenerator(cfg).WithRecorder(recorder)
//	metrics.Mount(mux, reg)
package metrics
