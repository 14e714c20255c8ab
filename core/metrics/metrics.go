package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the asset core.
type Collector struct {
	registry *prometheus.Registry

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	Loads       *prometheus.CounterVec
	Reloads     prometheus.Counter
	Evictions   prometheus.Counter

	Jobs        *prometheus.CounterVec
	JobDuration prometheus.Histogram
	QueueDepth  prometheus.Gauge

	CatalogAssets prometheus.Gauge
	CatalogScans  prometheus.Counter
}

// NewCollector creates a collector with its own registry.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_cache_hits_total",
			Help:      "Total number of registry cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_cache_misses_total",
			Help:      "Total number of registry cache misses",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_loads_total",
			Help:      "Total number of factory loads by type and status",
		}, []string{"type", "status"}),
		Reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_reloads_total",
			Help:      "Total number of hot reloads",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registry_evictions_total",
			Help:      "Total number of cache entries evicted by ClearUnused",
		}),
		Jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loader_jobs_total",
			Help:      "Total number of async load jobs by final status",
		}, []string{"status"}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "loader_job_duration_seconds",
			Help:      "Async load job duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loader_queue_depth",
			Help:      "Number of jobs waiting for a worker",
		}),
		CatalogAssets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_assets",
			Help:      "Number of records in the catalog",
		}),
		CatalogScans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_scans_total",
			Help:      "Total number of full catalog scans",
		}),
	}

	c.registry.MustRegister(
		c.CacheHits, c.CacheMisses, c.Loads, c.Reloads, c.Evictions,
		c.Jobs, c.JobDuration, c.QueueDepth,
		c.CatalogAssets, c.CatalogScans,
	)
	return c
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler serving this collector's metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// CacheHit records a registry cache hit.
func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.CacheHits.Inc()
}

// CacheMiss records a registry cache miss.
func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.CacheMisses.Inc()
}

// Load records a factory load outcome.
func (c *Collector) Load(assetType string, ok bool) {
	if c == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	c.Loads.WithLabelValues(assetType, status).Inc()
}

// Reload records a hot reload.
func (c *Collector) Reload() {
	if c == nil {
		return
	}
	c.Reloads.Inc()
}

// Evicted records n evictions.
func (c *Collector) Evicted(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.Evictions.Add(float64(n))
}

// JobDone records a finished async job.
func (c *Collector) JobDone(status string, d time.Duration) {
	if c == nil {
		return
	}
	c.Jobs.WithLabelValues(status).Inc()
	c.JobDuration.Observe(d.Seconds())
}

// SetQueueDepth records the loader queue depth.
func (c *Collector) SetQueueDepth(n int) {
	if c == nil {
		return
	}
	c.QueueDepth.Set(float64(n))
}

// CatalogScanned records a full scan that produced n records.
func (c *Collector) CatalogScanned(n int) {
	if c == nil {
		return
	}
	c.CatalogScans.Inc()
	c.CatalogAssets.Set(float64(n))
}

// SetCatalogAssets records the current catalog size.
func (c *Collector) SetCatalogAssets(n int) {
	if c == nil {
		return
	}
	c.CatalogAssets.Set(float64(n))
}
