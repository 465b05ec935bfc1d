package dispatcher

import (
	"math"
	"sync"
	"time"
)

// latencyBounds are the upper bounds of the histogram buckets. The last
// bucket holds everything at or above the final bound.
var latencyBounds = [...]time.Duration{
	10 * time.Microsecond,
	50 * time.Microsecond,
	100 * time.Microsecond,
	500 * time.Microsecond,
	time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
}

// LatencyTracker accumulates latency samples.
// Mean and variance use Welford's online algorithm.
type LatencyTracker struct {
	mu sync.RWMutex

	count uint64
	min   time.Duration
	max   time.Duration
	mean  float64
	m2    float64

	buckets [len(latencyBounds) + 1]uint64
}

// LatencyStats is a snapshot of a LatencyTracker.
type LatencyStats struct {
	Count  uint64
	Min    time.Duration
	Max    time.Duration
	Mean   time.Duration
	StdDev time.Duration
	P50    time.Duration
	P95    time.Duration
	P99    time.Duration
}

// NewLatencyTracker creates an empty tracker.
func NewLatencyTracker() *LatencyTracker {
	return &LatencyTracker{}
}

// Record adds a sample. Negative durations count as zero.
func (lt *LatencyTracker) Record(d time.Duration) {
	if d < 0 {
		d = 0
	}

	lt.mu.Lock()
	defer lt.mu.Unlock()

	lt.count++
	if lt.count == 1 || d < lt.min {
		lt.min = d
	}
	if d > lt.max {
		lt.max = d
	}

	x := float64(d)
	delta := x - lt.mean
	lt.mean += delta / float64(lt.count)
	lt.m2 += delta * (x - lt.mean)

	lt.buckets[bucketFor(d)]++
}

func bucketFor(d time.Duration) int {
	for i, bound := range latencyBounds {
		if d < bound {
			return i
		}
	}
	return len(latencyBounds)
}

// Stats returns a snapshot of the tracked samples.
func (lt *LatencyTracker) Stats() LatencyStats {
	lt.mu.RLock()
	defer lt.mu.RUnlock()

	if lt.count == 0 {
		return LatencyStats{}
	}
	stats := LatencyStats{
		Count: lt.count,
		Min:   lt.min,
		Max:   lt.max,
		Mean:  time.Duration(lt.mean),
		P50:   lt.percentileLocked(50),
		P95:   lt.percentileLocked(95),
		P99:   lt.percentileLocked(99),
	}
	if lt.count > 1 {
		stats.StdDev = time.Duration(math.Sqrt(lt.m2 / float64(lt.count-1)))
	}
	return stats
}

// percentileLocked estimates a percentile as the midpoint of the bucket
// holding it. Must be called with the lock held.
func (lt *LatencyTracker) percentileLocked(p uint64) time.Duration {
	target := (p*lt.count + 99) / 100
	var seen uint64
	for i, n := range lt.buckets {
		seen += n
		if seen < target {
			continue
		}
		switch i {
		case 0:
			return latencyBounds[0] / 2
		case len(latencyBounds):
			return latencyBounds[len(latencyBounds)-1]
		default:
			return (latencyBounds[i-1] + latencyBounds[i]) / 2
		}
	}
	return lt.max
}

// Reset discards all samples.
func (lt *LatencyTracker) Reset() {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.count, lt.min, lt.max = 0, 0, 0
	lt.mean, lt.m2 = 0, 0
	lt.buckets = [len(latencyBounds) + 1]uint64{}
}
