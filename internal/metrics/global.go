package metrics

import "sync"

var (
	globalCollector *Collector
	once            sync.Once
)

// Global returns the global metrics collector.
func Global() *Collector {
	once.Do(func() {
		globalCollector = NewCollector()
	})
	return globalCollector
}

// Convenience functions for quick access

// IncCounter increments a global counter by 1.
func IncCounter(name string) {
	Global().Counter(name).Inc()
}

// AddCounter adds n to a global counter.
func AddCounter(name string, n int64) {
	Global().Counter(name).Add(n)
}

// SetGauge sets a global gauge value.
func SetGauge(name string, v float64) {
	Global().Gauge(name).Set(v)
}

// IncGauge increments a global gauge by 1.
func IncGauge(name string) {
	Global().Gauge(name).Inc()
}

// DecGauge decrements a global gauge by 1.
func DecGauge(name string) {
	Global().Gauge(name).Dec()
}

// ObserveHistogram observes a value in a global histogram.
func ObserveHistogram(name string, v float64) {
	Global().Histogram(name).Observe(v)
}

// StartTimer starts a global timer.
func StartTimer(name string) *TimerContext {
	return Global().Timer(name).Start()
}

// Metric names for patternforge
const (
	// Scan metrics
	MetricScansTotal     = "patternforge_scans_total"
	MetricScanDuration   = "patternforge_scan_duration"
	MetricFilesProcessed = "patternforge_files_processed_total"
	MetricFilesSkipped   = "patternforge_files_skipped_total"
	MetricMatchesFound   = "patternforge_matches_found_total"

	// Catalog cache metrics
	MetricCacheHits   = "patternforge_cache_hits_total"
	MetricCacheMisses = "patternforge_cache_misses_total"
	MetricCacheSize   = "patternforge_cache_size"

	// System metrics
	MetricMemoryUsage = "patternforge_memory_bytes"
	MetricGoroutines  = "patternforge_goroutines"
	MetricErrors      = "patternforge_errors_total"
)
