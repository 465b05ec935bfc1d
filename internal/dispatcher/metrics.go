package dispatcher

import (
	"slices"
	"sync"
	"time"

	"github.com/dshills/richlist/internal/dispatcher/handler"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	actions map[string]*actionRecord
	latency *LatencyTracker

	totalDispatches uint64
	totalErrors     uint64
	totalPanics     uint64

	slowThreshold time.Duration
	onSlow        func(action string, duration time.Duration)
}

type actionRecord struct {
	stats   ActionMetrics
	latency *LatencyTracker
}

// ActionMetrics holds counters for one action.
type ActionMetrics struct {
	Name       string
	Dispatches uint64
	Applied    uint64
	NoOps      uint64
	Errors     uint64
	Cancelled  uint64

	// Reasons counts why the action did not apply.
	Reasons map[string]uint64

	LastStatus   handler.ResultStatus
	LastDispatch time.Time
	Latency      LatencyStats
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		actions: make(map[string]*actionRecord),
		latency: NewLatencyTracker(),
	}
}

// SetSlowActionCallback registers fn to be called for dispatches slower
// than threshold. A zero threshold disables the callback.
func (m *Metrics) SetSlowActionCallback(threshold time.Duration, fn func(action string, duration time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slowThreshold = threshold
	m.onSlow = fn
}

// RecordDispatch records a completed dispatch.
func (m *Metrics) RecordDispatch(actionName string, duration time.Duration, result handler.Result) {
	m.mu.Lock()
	rec := m.actions[actionName]
	if rec == nil {
		rec = &actionRecord{
			stats:   ActionMetrics{Name: actionName, Reasons: make(map[string]uint64)},
			latency: NewLatencyTracker(),
		}
		m.actions[actionName] = rec
	}

	m.totalDispatches++
	rec.stats.Dispatches++
	rec.stats.LastStatus = result.Status
	rec.stats.LastDispatch = time.Now()

	switch result.Status {
	case handler.StatusOK:
		rec.stats.Applied++
	case handler.StatusNoOp:
		rec.stats.NoOps++
		if result.Reason != "" {
			rec.stats.Reasons[result.Reason]++
		}
	case handler.StatusError:
		rec.stats.Errors++
		m.totalErrors++
	case handler.StatusCancelled:
		rec.stats.Cancelled++
	}

	threshold, onSlow := m.slowThreshold, m.onSlow
	m.mu.Unlock()

	m.latency.Record(duration)
	rec.latency.Record(duration)

	if threshold > 0 && duration > threshold && onSlow != nil {
		onSlow(actionName, duration)
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(actionName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalPanics++
}

// TotalDispatches returns the total number of dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// TotalErrors returns the number of dispatches that ended in an error.
func (m *Metrics) TotalErrors() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalErrors
}

// TotalPanics returns the number of recovered panics.
func (m *Metrics) TotalPanics() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalPanics
}

// Latency returns latency statistics across all actions.
func (m *Metrics) Latency() LatencyStats {
	return m.latency.Stats()
}

// ActionStats returns a copy of the metrics for one action, or nil.
func (m *Metrics) ActionStats(actionName string) *ActionMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec := m.actions[actionName]
	if rec == nil {
		return nil
	}
	am := rec.snapshot()
	return &am
}

// snapshot copies the record. Must be called with the metrics lock held.
func (rec *actionRecord) snapshot() ActionMetrics {
	am := rec.stats
	am.Reasons = make(map[string]uint64, len(rec.stats.Reasons))
	for k, v := range rec.stats.Reasons {
		am.Reasons[k] = v
	}
	am.Latency = rec.latency.Stats()
	return am
}

// TopActions returns the n most dispatched actions.
func (m *Metrics) TopActions(n int) []ActionMetrics {
	return m.ranked(n, func(a, b ActionMetrics) int {
		return int(b.Dispatches) - int(a.Dispatches)
	})
}

// SlowestActions returns the n actions with the highest mean latency.
func (m *Metrics) SlowestActions(n int) []ActionMetrics {
	return m.ranked(n, func(a, b ActionMetrics) int {
		return int(b.Latency.Mean - a.Latency.Mean)
	})
}

func (m *Metrics) ranked(n int, cmp func(a, b ActionMetrics) int) []ActionMetrics {
	m.mu.RLock()
	all := make([]ActionMetrics, 0, len(m.actions))
	for _, rec := range m.actions {
		all = append(all, rec.snapshot())
	}
	m.mu.RUnlock()

	slices.SortFunc(all, func(a, b ActionMetrics) int {
		if c := cmp(a, b); c != 0 {
			return c
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.actions = make(map[string]*actionRecord)
	m.latency.Reset()
	m.totalDispatches = 0
	m.totalErrors = 0
	m.totalPanics = 0
}

// MetricsSnapshot is a point-in-time summary of all metrics.
type MetricsSnapshot struct {
	TotalDispatches uint64
	TotalErrors     uint64
	TotalPanics     uint64
	ActionCount     int
	Latency         LatencyStats
	Timestamp       time.Time
}

// Snapshot returns a summary of the current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		TotalDispatches: m.totalDispatches,
		TotalErrors:     m.totalErrors,
		TotalPanics:     m.totalPanics,
		ActionCount:     len(m.actions),
		Latency:         m.latency.Stats(),
		Timestamp:       time.Now(),
	}
}

// ApplyRate returns the share of dispatches that applied, in percent.
func (am ActionMetrics) ApplyRate() float64 {
	if am.Dispatches == 0 {
		return 0
	}
	return float64(am.Applied) / float64(am.Dispatches) * 100
}
