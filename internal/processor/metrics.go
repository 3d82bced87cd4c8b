package processor

import (
	"context"
	"runtime"
	"time"

	"github.com/patternforge/patternforge/internal/langregistry"
	"github.com/patternforge/patternforge/internal/metrics"
	"github.com/patternforge/patternforge/internal/rules"
)

// InstrumentedProcessor wraps a Processor with metrics collection,
// adapted from the teacher's InstrumentedEngine around its review
// engine: same counter/timer/gauge shape, repointed at file scans
// instead of AI reviews.
type InstrumentedProcessor struct {
	proc      *Processor
	collector *metrics.Collector
}

// NewInstrumented wraps proc with the global metrics collector.
func NewInstrumented(proc *Processor) *InstrumentedProcessor {
	return &InstrumentedProcessor{proc: proc, collector: metrics.Global()}
}

// NewInstrumentedWithCollector wraps proc with a caller-supplied collector,
// useful in tests that want an isolated Collector instead of the global one.
func NewInstrumentedWithCollector(proc *Processor, collector *metrics.Collector) *InstrumentedProcessor {
	return &InstrumentedProcessor{proc: proc, collector: collector}
}

// AnalyzeFile runs the wrapped Processor's AnalyzeFile, recording scan
// count, duration, files processed, matches found, and errors.
func (ip *InstrumentedProcessor) AnalyzeFile(ctx context.Context, content string, meta FileMetadata, lang langregistry.Info, tagFilter *rules.TagFilter, symbols SymbolLookup) (FileResult, error) {
	ip.collector.Counter(metrics.MetricScansTotal).Inc()
	timer := ip.collector.Timer(metrics.MetricScanDuration).Start()
	defer timer.Stop()

	result, err := ip.proc.AnalyzeFile(ctx, content, meta, lang, tagFilter, symbols)
	if err != nil {
		ip.collector.Counter(metrics.MetricErrors).Inc()
		return result, err
	}

	ip.collector.Counter(metrics.MetricFilesProcessed).Inc()
	ip.collector.Counter(metrics.MetricMatchesFound).Add(int64(len(result.Matches)))

	return result, nil
}

// RecordCacheHit records a compiled-catalog cache hit.
func (ip *InstrumentedProcessor) RecordCacheHit() {
	ip.collector.Counter(metrics.MetricCacheHits).Inc()
}

// RecordCacheMiss records a compiled-catalog cache miss.
func (ip *InstrumentedProcessor) RecordCacheMiss() {
	ip.collector.Counter(metrics.MetricCacheMisses).Inc()
}

// SetCacheSize sets the current cache size gauge, in bytes.
func (ip *InstrumentedProcessor) SetCacheSize(bytes int64) {
	ip.collector.Gauge(metrics.MetricCacheSize).Set(float64(bytes))
}

// UpdateRuntimeMetrics refreshes the memory and goroutine gauges.
func (ip *InstrumentedProcessor) UpdateRuntimeMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	ip.collector.Gauge(metrics.MetricMemoryUsage).Set(float64(m.Alloc))
	ip.collector.Gauge(metrics.MetricGoroutines).Set(float64(runtime.NumGoroutine()))
}

// Metrics returns the collector's metrics as JSON.
func (ip *InstrumentedProcessor) Metrics() ([]byte, error) {
	return ip.collector.Export()
}

// MetricsPrometheus returns the collector's metrics in Prometheus format.
func (ip *InstrumentedProcessor) MetricsPrometheus() string {
	return ip.collector.ExportPrometheus()
}

// Stats returns a summary of scan statistics gathered so far.
func (ip *InstrumentedProcessor) Stats() ScanStats {
	return ScanStats{
		TotalScans:   ip.collector.Counter(metrics.MetricScansTotal).Value(),
		TotalFiles:   ip.collector.Counter(metrics.MetricFilesProcessed).Value(),
		TotalMatches: ip.collector.Counter(metrics.MetricMatchesFound).Value(),
		TotalErrors:  ip.collector.Counter(metrics.MetricErrors).Value(),
		CacheHits:    ip.collector.Counter(metrics.MetricCacheHits).Value(),
		CacheMisses:  ip.collector.Counter(metrics.MetricCacheMisses).Value(),
		MemoryBytes:  uint64(ip.collector.Gauge(metrics.MetricMemoryUsage).Value()),
		Goroutines:   int(ip.collector.Gauge(metrics.MetricGoroutines).Value()),
		Uptime:       ip.collector.Uptime(),
	}
}

// ScanStats contains aggregate scan statistics.
type ScanStats struct {
	TotalScans   int64         `json:"total_scans"`
	TotalFiles   int64         `json:"total_files"`
	TotalMatches int64         `json:"total_matches"`
	TotalErrors  int64         `json:"total_errors"`
	CacheHits    int64         `json:"cache_hits"`
	CacheMisses  int64         `json:"cache_misses"`
	MemoryBytes  uint64        `json:"memory_bytes"`
	Goroutines   int           `json:"goroutines"`
	Uptime       time.Duration `json:"uptime"`
}

// CacheHitRate returns the cache hit rate as a percentage (0-100).
func (s ScanStats) CacheHitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total) * 100
}
