package dispatcher_test

import (
	"testing"
	"time"

	"github.com/dshills/richlist/internal/dispatcher"
)

func TestLatencyTrackerEmpty(t *testing.T) {
	lt := dispatcher.NewLatencyTracker()
	if stats := lt.Stats(); stats != (dispatcher.LatencyStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestLatencyTrackerStats(t *testing.T) {
	lt := dispatcher.NewLatencyTracker()
	for _, d := range []time.Duration{
		2 * time.Microsecond,
		4 * time.Microsecond,
		6 * time.Microsecond,
		-time.Microsecond,
	} {
		lt.Record(d)
	}

	stats := lt.Stats()
	if stats.Count != 4 {
		t.Errorf("Count = %d, want 4", stats.Count)
	}
	if stats.Min != 0 {
		t.Errorf("Min = %v, want 0", stats.Min)
	}
	if stats.Max != 6*time.Microsecond {
		t.Errorf("Max = %v, want 6µs", stats.Max)
	}
	if stats.Mean != 3*time.Microsecond {
		t.Errorf("Mean = %v, want 3µs", stats.Mean)
	}
	if stats.StdDev <= 0 {
		t.Errorf("StdDev = %v, want > 0", stats.StdDev)
	}
	// All samples fall in the first bucket.
	if stats.P50 != 5*time.Microsecond || stats.P99 != 5*time.Microsecond {
		t.Errorf("P50 = %v, P99 = %v, want 5µs", stats.P50, stats.P99)
	}
}

func TestLatencyTrackerPercentiles(t *testing.T) {
	lt := dispatcher.NewLatencyTracker()
	for i := 0; i < 90; i++ {
		lt.Record(20 * time.Microsecond)
	}
	for i := 0; i < 10; i++ {
		lt.Record(200 * time.Millisecond)
	}

	stats := lt.Stats()
	if stats.P50 != 30*time.Microsecond {
		t.Errorf("P50 = %v, want 30µs", stats.P50)
	}
	if stats.P95 != 100*time.Millisecond {
		t.Errorf("P95 = %v, want 100ms", stats.P95)
	}

	lt.Reset()
	if lt.Stats().Count != 0 {
		t.Error("expected no samples after Reset")
	}
}
