// Package metrics exposes Prometheus instrumentation for the catalog,
// registry and loader.
//
// A Collector owns its own prometheus.Registry so several sessions (or
// parallel tests) never collide on global registration. Every method is
// nil-safe: components accept a nil *Collector and simply skip recording.
//
//	m := metrics.NewCollector("asset_core")
//	reg := registry.New(cfg, logger, m)
//	http.Handle("/metrics", m.Handler())
package metrics
