// Package metrics provides build and preview metrics for folio.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// collection never needs nil checks at call sites:
//
//	type Renderer struct {
//	    recorder metrics.Recorder
//	}
//
//	r := render.New(fs, cfg) // NoopRecorder
//	r.WithRecorder(metrics.NewPrometheusRecorder(registry))
//
// PrometheusRecorder registers on a caller supplied registry, never on the
// global default, and HTTPHandler exposes that registry. The preview server
// mounts it at /metrics.
package metrics
