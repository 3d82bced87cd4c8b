package processor

import (
	"testing"
	"time"

	"github.com/patternforge/patternforge/internal/metrics"
)

func TestInstrumentedProcessor_New(t *testing.T) {
	proc := &Processor{}
	ip := NewInstrumented(proc)

	if ip.proc != proc {
		t.Error("processor not set correctly")
	}
	if ip.collector == nil {
		t.Error("collector should not be nil")
	}
}

func TestInstrumentedProcessor_WithCollector(t *testing.T) {
	proc := &Processor{}
	collector := metrics.NewCollector()
	ip := NewInstrumentedWithCollector(proc, collector)

	if ip.collector != collector {
		t.Error("custom collector not set correctly")
	}
}

func TestInstrumentedProcessor_RecordCacheMetrics(t *testing.T) {
	proc := &Processor{}
	collector := metrics.NewCollector()
	ip := NewInstrumentedWithCollector(proc, collector)

	ip.RecordCacheHit()
	ip.RecordCacheHit()
	ip.RecordCacheMiss()
	ip.SetCacheSize(42)

	stats := ip.Stats()
	if stats.CacheHits != 2 {
		t.Errorf("expected 2 cache hits, got %d", stats.CacheHits)
	}
	if stats.CacheMisses != 1 {
		t.Errorf("expected 1 cache miss, got %d", stats.CacheMisses)
	}
}

func TestInstrumentedProcessor_Metrics(t *testing.T) {
	proc := &Processor{}
	collector := metrics.NewCollector()
	ip := NewInstrumentedWithCollector(proc, collector)

	ip.RecordCacheHit()

	data, err := ip.Metrics()
	if err != nil {
		t.Fatalf("Metrics() failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("Metrics() returned empty data")
	}
}

func TestInstrumentedProcessor_MetricsPrometheus(t *testing.T) {
	proc := &Processor{}
	collector := metrics.NewCollector()
	ip := NewInstrumentedWithCollector(proc, collector)

	ip.RecordCacheHit()

	output := ip.MetricsPrometheus()
	if output == "" {
		t.Error("MetricsPrometheus() returned empty")
	}
}

func TestScanStats_CacheHitRate(t *testing.T) {
	tests := []struct {
		hits   int64
		misses int64
		want   float64
	}{
		{0, 0, 0},
		{10, 0, 100},
		{0, 10, 0},
		{5, 5, 50},
		{3, 7, 30},
	}

	for _, tc := range tests {
		stats := ScanStats{CacheHits: tc.hits, CacheMisses: tc.misses}
		got := stats.CacheHitRate()
		if got != tc.want {
			t.Errorf("CacheHitRate(%d, %d) = %f, want %f", tc.hits, tc.misses, got, tc.want)
		}
	}
}

func TestInstrumentedProcessor_UpdateRuntimeMetrics(t *testing.T) {
	proc := &Processor{}
	collector := metrics.NewCollector()
	ip := NewInstrumentedWithCollector(proc, collector)

	ip.UpdateRuntimeMetrics()

	stats := ip.Stats()
	if stats.MemoryBytes == 0 {
		t.Error("MemoryBytes should be > 0")
	}
	if stats.Goroutines == 0 {
		t.Error("Goroutines should be > 0")
	}
}

func TestInstrumentedProcessor_Stats_Uptime(t *testing.T) {
	proc := &Processor{}
	collector := metrics.NewCollector()
	ip := NewInstrumentedWithCollector(proc, collector)

	time.Sleep(10 * time.Millisecond)

	stats := ip.Stats()
	if stats.Uptime < 10*time.Millisecond {
		t.Errorf("Uptime should be >= 10ms, got %v", stats.Uptime)
	}
}
