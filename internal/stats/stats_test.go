package stats

import (
	"testing"
	"time"
)

func TestScanStatsSnapshotPercentiles(t *testing.T) {
	stats := NewScanStats(time.Hour)
	stats.Record(100, 10)
	stats.Record(200, 20)
	stats.Record(300, 30)
	stats.Record(400, 40)
	stats.Record(500, 50)

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.Pages != 150 {
		t.Fatalf("expected pages=150, got %d", snap.Pages)
	}
	if snap.MinMs != 100 {
		t.Fatalf("expected min=100, got %d", snap.MinMs)
	}
	if snap.MaxMs != 500 {
		t.Fatalf("expected max=500, got %d", snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestScanStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewScanStats(10 * time.Minute)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stats.now = func() time.Time { return clock }

	stats.Record(100, 1)
	clock = clock.Add(11 * time.Minute)

	snap := stats.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	stats.Record(200, 2)
	snap = stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1 for fresh sample, got %d", snap.Count)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestScanStatsRecordClampsNegativeValues(t *testing.T) {
	stats := NewScanStats(time.Hour)
	stats.Record(-10, -3)
	snap := stats.Snapshot()
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 || snap.Pages != 0 {
		t.Fatalf("expected clamped values, got min=%d max=%d pages=%d", snap.MinMs, snap.MaxMs, snap.Pages)
	}
}

func TestScanStatsEmpty(t *testing.T) {
	if snap := NewScanStats(0).Snapshot(); snap != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}
